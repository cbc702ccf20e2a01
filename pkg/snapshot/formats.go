package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// FileFormat represents the encodings a snapshot file can use
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatTOML               // Human editable TOML document
	FormatMsgpack            // Binary msgpack document
)

// FormatInfo contains metadata about a snapshot file format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatTOML: {
		Format:      FormatTOML,
		Description: "TOML Snapshot",
		Extensions:  []string{".toml"},
		MinSize:     0, // An empty document is an empty realm
	},
	FormatMsgpack: {
		Format:      FormatMsgpack,
		Description: "Msgpack Snapshot",
		Extensions:  []string{".msgpack", ".bin"},
		MinSize:     1, // At least the map header
	},
}

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatForPath returns the format implied by the extension of path.
func FormatForPath(path string) FileFormat {
	ext := strings.ToLower(filepath.Ext(path))
	for format, info := range supportedFormats {
		for _, e := range info.Extensions {
			if e == ext {
				return format
			}
		}
	}
	return FormatUnknown
}

// ValidateFileFormat checks if a file matches the expected format
func ValidateFileFormat(filename string, expected FileFormat) error {
	fileInfo, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", filename, err)
	}

	formatInfo, exists := supportedFormats[expected]
	if !exists {
		return fmt.Errorf("unknown format: %v", expected)
	}
	if fileInfo.Size() < formatInfo.MinSize {
		return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
			filename, fileInfo.Size(), formatInfo.Description, formatInfo.MinSize)
	}
	if FormatForPath(filename) != expected {
		return fmt.Errorf("file %s has invalid extension %s for format %s (expected: %v)",
			filename, filepath.Ext(filename), formatInfo.Description, formatInfo.Extensions)
	}

	if expected == FormatMsgpack {
		return validateMsgpackFormat(filename)
	}
	return nil
}

// validateMsgpackFormat checks that the document starts with a msgpack map.
func validateMsgpackFormat(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filename, err)
	}
	defer file.Close()

	header, err := bufio.NewReader(file).ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read header from %s: %w", filename, err)
	}
	// fixmap, map16 and map32
	if header&0xf0 != 0x80 && header != 0xde && header != 0xdf {
		return fmt.Errorf("invalid header in %s: 0x%02x is not a msgpack map", filename, header)
	}

	log.Debugf("Msgpack snapshot %s validated", filename)
	return nil
}

// DetectFileFormat detects and validates the format of a snapshot file.
func DetectFileFormat(filename string) (FileFormat, error) {
	format := FormatForPath(filename)
	if format == FormatUnknown {
		return FormatUnknown, fmt.Errorf("unable to detect format for file %s", filename)
	}
	if err := ValidateFileFormat(filename, format); err != nil {
		return FormatUnknown, err
	}
	return format, nil
}

// ListSupportedFormats returns all supported formats
func ListSupportedFormats() []FormatInfo {
	return []FormatInfo{supportedFormats[FormatTOML], supportedFormats[FormatMsgpack]}
}

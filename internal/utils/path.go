package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/charmbracelet/log"
)

// SnapshotNames are the file names looked for when no snapshot path is
// given, in order of preference.
var SnapshotNames = []string{"snapshot.msgpack", "snapshot.bin", "snapshot.toml"}

// PathResolver finds snapshot and config files relative to the binary,
// the working directory and the user's config directory.
type PathResolver struct {
	executablePath string
	executableDir  string
	homeDir        string
	configDir      string
}

// NewPathResolver creates a resolver for the running executable.
func NewPathResolver() (*PathResolver, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, err
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executablePath: execPath,
		executableDir:  filepath.Dir(execPath),
		homeDir:        homeDir,
		configDir:      platformConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: exec=%s, configDir=%s", pr.executablePath, pr.configDir)
	return pr, nil
}

func platformConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, "typeahead")
		}
		return filepath.Join(homeDir, ".config", "typeahead")
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "typeahead")
		}
		return filepath.Join(homeDir, "AppData", "Roaming", "typeahead")
	default:
		return filepath.Join(homeDir, ".config", "typeahead")
	}
}

// ResolveSnapshot returns the first existing snapshot file among the
// candidates for userPath. A directory is searched for SnapshotNames.
func (pr *PathResolver) ResolveSnapshot(userPath string) (string, error) {
	for _, candidate := range pr.snapshotCandidates(userPath) {
		if isSnapshotFile(candidate) {
			log.Debugf("Found snapshot: %s", candidate)
			return candidate, nil
		}
		log.Debugf("Snapshot candidate not valid: %s", candidate)
	}
	return "", fmt.Errorf("no snapshot found for %q: %w", userPath, os.ErrNotExist)
}

func (pr *PathResolver) snapshotCandidates(userPath string) []string {
	var bases []string
	if userPath != "" {
		if filepath.IsAbs(userPath) {
			bases = append(bases, userPath)
		} else {
			if cwd, err := os.Getwd(); err == nil {
				bases = append(bases, filepath.Join(cwd, userPath))
			}
			bases = append(bases, filepath.Join(pr.executableDir, userPath))
		}
	}
	bases = append(bases,
		filepath.Join(pr.executableDir, "data"),
		filepath.Join(pr.configDir, "data"),
	)

	var candidates []string
	for _, base := range bases {
		if stat, err := os.Stat(base); err == nil && stat.IsDir() {
			for _, name := range SnapshotNames {
				candidates = append(candidates, filepath.Join(base, name))
			}
			continue
		}
		candidates = append(candidates, base)
	}
	return candidates
}

func isSnapshotFile(path string) bool {
	stat, err := os.Stat(path)
	if err != nil || stat.IsDir() {
		return false
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".msgpack", ".bin":
		return true
	}
	return false
}

// GetConfigDir returns the config directory
func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

// GetExecutableDir returns the directory containing the executable
func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}

// GetRuntimeInfo returns debug information about the running environment.
func (pr *PathResolver) GetRuntimeInfo() map[string]string {
	cwd, _ := os.Getwd()
	info := map[string]string{
		"executable_path": pr.executablePath,
		"executable_dir":  pr.executableDir,
		"current_dir":     cwd,
		"home_dir":        pr.homeDir,
		"config_dir":      pr.configDir,
		"os":              runtime.GOOS,
		"arch":            runtime.GOARCH,
	}
	for _, envVar := range []string{"HOME", "XDG_CONFIG_HOME", "APPDATA"} {
		if value := os.Getenv(envVar); value != "" {
			info["env_"+strings.ToLower(envVar)] = value
		}
	}
	return info
}

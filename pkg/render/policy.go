package render

import (
	"fmt"
	"strings"
)

// EmailPolicy decides whether the viewer may see other people's emails.
type EmailPolicy interface {
	ShowEmail() bool
}

// Visibility is the realm wide email address visibility setting.
type Visibility int

const (
	VisibilityEveryone Visibility = iota + 1
	VisibilityMembersOnly
	VisibilityAdminsOnly
	VisibilityNobody
)

var visibilityNames = map[Visibility]string{
	VisibilityEveryone:    "everyone",
	VisibilityMembersOnly: "members_only",
	VisibilityAdminsOnly:  "admins_only",
	VisibilityNobody:      "nobody",
}

func (v Visibility) String() string {
	if name, ok := visibilityNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Visibility(%d)", int(v))
}

// ParseVisibility parses a setting name such as "admins_only".
func ParseVisibility(name string) (Visibility, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for v, n := range visibilityNames {
		if n == name {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown email visibility %q", name)
}

// RealmPolicy applies a realm's visibility setting to one viewer.
type RealmPolicy struct {
	Visibility    Visibility
	ViewerIsAdmin bool
}

// ShowEmail implements EmailPolicy.
func (p RealmPolicy) ShowEmail() bool {
	switch p.Visibility {
	case VisibilityEveryone:
		return true
	case VisibilityAdminsOnly:
		return p.ViewerIsAdmin
	default:
		return false
	}
}

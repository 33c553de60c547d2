package workspace

import (
	"path/filepath"
	"strings"
)

// Provider reports the display name of the active workspace.
type Provider interface {
	// Name returns false when no workspace is open.
	Name() (string, bool)
}

// Dir treats a directory as the workspace. An explicit display name takes
// precedence over the directory's base name.
type Dir struct {
	Path        string
	DisplayName string
}

// Name implements Provider.
func (d Dir) Name() (string, bool) {
	if name := strings.TrimSpace(d.DisplayName); name != "" {
		return name, true
	}
	if d.Path == "" {
		return "", false
	}
	base := filepath.Base(filepath.Clean(d.Path))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "", false
	}
	return base, true
}

// Static is a fixed workspace name; an empty name means no workspace.
type Static string

// Name implements Provider.
func (s Static) Name() (string, bool) {
	return string(s), s != ""
}

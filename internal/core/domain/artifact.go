package domain

import (
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// Coordinate identifies a dependency artifact by group, name and version.
type Coordinate struct {
	Group   string
	Name    string
	Version string
}

// ParseCoordinate parses a "group:name:version" string.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Coordinate{}, zerr.With(ErrInvalidCoordinate, "coordinate", s)
	}
	for _, p := range parts {
		if p == "" {
			return Coordinate{}, zerr.With(ErrInvalidCoordinate, "coordinate", s)
		}
	}
	return Coordinate{Group: parts[0], Name: parts[1], Version: parts[2]}, nil
}

// String returns the "group:name:version" form.
func (c Coordinate) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}

// Artifact is a resolved third-party dependency archive.
// It is immutable once resolved.
type Artifact struct {
	Coordinate Coordinate

	// Path is the location of the archive on disk.
	Path string

	// ModTime is the last modification time of the archive.
	ModTime time.Time
}

package github

import (
	"fmt"
	"strings"

	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// Scheme is the origin scheme served by this package.
const Scheme = "github"

// Location identifies one file in a repository.
type Location struct {
	Owner string
	Repo  string
	Path  string
	Ref   string
}

// ParseOrigin splits github://owner/repo/path[@ref].
func ParseOrigin(origin string) (Location, error) {
	rest, ok := strings.CutPrefix(origin, Scheme+"://")
	if !ok {
		return Location{}, fmt.Errorf("parse %q: missing %s:// prefix: %w", origin, Scheme, domain.ErrInvalidInput)
	}

	var loc Location
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		loc.Ref = rest[i+1:]
		rest = rest[:i]
	}

	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Location{}, fmt.Errorf("parse %q: expected owner/repo: %w", origin, domain.ErrInvalidInput)
	}
	loc.Owner, loc.Repo = parts[0], parts[1]
	if len(parts) == 3 {
		loc.Path = parts[2]
	}
	return loc, nil
}

// Origin formats a location back into an origin string.
func (l Location) Origin() string {
	s := fmt.Sprintf("%s://%s/%s", Scheme, l.Owner, l.Repo)
	if l.Path != "" {
		s += "/" + l.Path
	}
	if l.Ref != "" {
		s += "@" + l.Ref
	}
	return s
}

// WebURL returns the github.com page for the location.
func (l Location) WebURL() string {
	ref := l.Ref
	if ref == "" {
		ref = "HEAD"
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s", l.Owner, l.Repo, ref, l.Path)
}

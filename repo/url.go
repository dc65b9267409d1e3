package repo

import (
	"fmt"
	"regexp"
	"strings"
)

// Ref identifies a remote repository by host, owner and name.
type Ref struct {
	Host  string
	Owner string
	Name  string
}

// Key returns the namespace key for this reference.
func (r Ref) Key() string {
	return r.Owner + "/" + r.Name
}

// CloneURL returns the HTTPS clone URL for this reference.
func (r Ref) CloneURL() string {
	return fmt.Sprintf("https://%s/%s/%s.git", r.Host, r.Owner, r.Name)
}

var refPattern = regexp.MustCompile(`^([a-zA-Z0-9][a-zA-Z0-9.-]*\.[a-zA-Z]{2,})/([a-zA-Z0-9][a-zA-Z0-9._-]*)/([a-zA-Z0-9][a-zA-Z0-9._-]*)$`)

// ParseRepoURL extracts host, owner and name from a repository URL.
// Accepted forms: "https://host/owner/name", "host/owner/name", with an
// optional ".git" suffix and trailing slash. Parsing is idempotent and
// performs no network access; malformed input fails with
// ErrInvalidReference.
func ParseRepoURL(rawURL string) (Ref, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return Ref{}, fmt.Errorf("%w: empty URL", ErrInvalidReference)
	}

	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")

	matches := refPattern.FindStringSubmatch(s)
	if matches == nil {
		return Ref{}, fmt.Errorf("%w: %q (expected host/owner/name)", ErrInvalidReference, rawURL)
	}

	return Ref{
		Host:  matches[1],
		Owner: matches[2],
		Name:  matches[3],
	}, nil
}

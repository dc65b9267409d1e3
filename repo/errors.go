package repo

import "errors"

var (
	// ErrInvalidReference indicates a repository URL that failed
	// validation before any network call.
	ErrInvalidReference = errors.New("invalid repository reference")

	// ErrNotFound indicates a path that does not exist in the cloned
	// namespace. Callers may treat this as "new file".
	ErrNotFound = errors.New("file not found")

	// ErrNoRepository indicates an operation that requires a cloned
	// repository before one was loaded.
	ErrNoRepository = errors.New("no repository loaded")

	// ErrUnsupported indicates the build target omits the virtual
	// filesystem clone implementation.
	ErrUnsupported = errors.New("repository cloning is not supported in this build")
)

// CloneError wraps an I/O failure during clone, keeping the URL that
// was being fetched.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return "failed to clone " + e.URL + ": " + e.Err.Error()
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

package transcode

import "fmt"

// Error reports a conversion failure attributable to the codec layer: no
// suitable backend, a missing external program, or a failed conversion
// process. Filesystem problems are returned as plain errors instead so that
// callers can tell the two classes apart with errors.As.
type Error struct {
	Path   string // source or target path the failure relates to
	Format string // file extension involved, without the dot
	Msg    string
	Err    error // underlying error, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errNoDecoder(path, format string) *Error {
	return &Error{
		Path:   path,
		Format: format,
		Msg:    fmt.Sprintf("no available decoder for .%s", format),
	}
}

func errNoEncoder(path, format string) *Error {
	return &Error{
		Path:   path,
		Format: format,
		Msg:    fmt.Sprintf("no available encoder for .%s", format),
	}
}

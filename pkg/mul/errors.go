package mul

import "errors"

var (
	ErrTruncatedData   = errors.New("truncated file data")
	ErrInvalidHeader   = errors.New("invalid MUL header")
	ErrCorruptRecord   = errors.New("corrupt MUL record")
	ErrMissingFile     = errors.New("missing referenced file")
	ErrUnsupportedFile = errors.New("unsupported file extension")
)

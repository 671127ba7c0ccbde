package receipt

import "errors"

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file exceeds size limit")
	ErrInvalidMimeType = errors.New("unsupported file type")
	ErrNotFound        = errors.New("receipt not found")
)

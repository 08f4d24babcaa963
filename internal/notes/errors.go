package notes

import "errors"

var (
	ErrNoteNotFound = errors.New("note not found")
	ErrUnknownColor = errors.New("unknown color")
)

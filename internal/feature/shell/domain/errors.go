// Package domain defines errors for the navigation shell.
package domain

import "errors"

var (
	ErrUnknownScreen   = errors.New("unknown screen")
	ErrDuplicateScreen = errors.New("screen already added")
	ErrInvalidScreen   = errors.New("invalid screen description")
	ErrFontNotFound    = errors.New("font not registered")
	ErrUnknownCommand  = errors.New("unknown command")
)

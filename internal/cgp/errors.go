package cgp

import "errors"

var (
	ErrInvalidFunction   = errors.New("invalid cgp function")
	ErrInvalidConnection = errors.New("invalid cgp connection")
	ErrGeneCount         = errors.New("cgp gene count mismatch")
)

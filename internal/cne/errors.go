package cne

import "errors"

var (
	ErrLayerShape = errors.New("cne layer shape mismatch")
	ErrGateShape  = errors.New("cne gate weights shape mismatch")
)

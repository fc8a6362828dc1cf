package prompt

import "errors"

// Sentinel kinds for prompt rendering.
var (
	ErrUnknownUseCase = errors.New("unknown use case")
	ErrInputType      = errors.New("wrong prompt input type")
	ErrRender         = errors.New("render prompt failed")
)

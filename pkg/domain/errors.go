package domain

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrUnknownTool = errors.New("unknown tool")
)

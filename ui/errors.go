package ui

import "github.com/rotisserie/eris"

var (
	// ErrInvalidWidget is returned for a widget that does not set exactly
	// one variant.
	ErrInvalidWidget = eris.New("ui: widget must set exactly one variant")

	// ErrExpand wraps failures of a custom widget expansion.
	ErrExpand = eris.New("ui: custom widget expansion failed")
)

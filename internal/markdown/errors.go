package markdown

import "errors"

var errRendererPanicked = errors.New("markdown renderer panicked")

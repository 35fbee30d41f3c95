package ingredient

import "errors"

// ErrEmptyName indicates a blank canonical name
var ErrEmptyName = errors.New("canonical name must not be empty")

package domain

import "github.com/pkg/errors"

// ErrInvalidInput reports an empty or malformed series, or an argument the chart engine
// cannot work with. Callers wrap it with detail and compare with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

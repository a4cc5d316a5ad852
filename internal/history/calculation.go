// Package history persists applied calculations and serves them back in the
// order they were made.
package history

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("calculation not found")
	ErrClosed   = errors.New("history log closed")
)

// Calculation is one applied expression and the result it produced.
// Records are immutable once inserted.
type Calculation struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"created_at"`
}

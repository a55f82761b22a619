package review

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEngineClosed is returned by Submit after Shutdown has started.
var ErrEngineClosed = errors.New("review engine is closed")

// InvalidRequestError reports every validation violation found in a
// submitted request.
type InvalidRequestError struct {
	Violations []string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid review request: %s", strings.Join(e.Violations, "; "))
}

// NotFoundError indicates that a request id is unknown to the active
// table, the history, and the archive.
type NotFoundError struct {
	RequestID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("review %q not found", e.RequestID)
}

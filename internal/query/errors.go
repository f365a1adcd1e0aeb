package query

import (
	"errors"
	"fmt"
)

// ErrTaskAborted is matched by the error a Query fails with when its job
// ended without producing an outcome.
var ErrTaskAborted = errors.New("task aborted")

// AbortedError carries the value the job panicked with.
// Reason is nil when the job left its goroutine through runtime.Goexit.
type AbortedError struct {
	Reason any
}

func (e *AbortedError) Error() string {
	if e.Reason == nil {
		return ErrTaskAborted.Error()
	}
	return fmt.Sprintf("%s: %v", ErrTaskAborted, e.Reason)
}

func (e *AbortedError) Is(target error) bool {
	return target == ErrTaskAborted
}

func (e *AbortedError) Unwrap() error {
	if err, ok := e.Reason.(error); ok {
		return err
	}
	return nil
}

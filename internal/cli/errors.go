package cli

import "fmt"

// ExitCodeUnavailable is returned when at least one requested asset redirected to the root.
const ExitCodeUnavailable = 2

// ExitError asks main to exit with Code after printing Reason.
type ExitError struct {
	Code   int
	Reason string
}

func (e *ExitError) Error() string {
	return e.Reason
}

func unavailableError(n int) *ExitError {
	noun := "asset"
	if n != 1 {
		noun = "assets"
	}
	return &ExitError{
		Code:   ExitCodeUnavailable,
		Reason: fmt.Sprintf("%d %s unavailable", n, noun),
	}
}

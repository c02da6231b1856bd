package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/mrlokans/calibre-xmnote/internal/services"
)

// reportedError marks an error whose dialog was already printed, so the
// caller only has to set the exit code.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether err was already shown to the user.
func IsReported(err error) bool {
	var reported *reportedError
	return errors.As(err, &reported)
}

// reportError prints the dialog text for err and marks it as shown.
func reportError(out io.Writer, err error) error {
	msg := services.ErrorMessage(err)
	fmt.Fprintf(out, "❌ %s\n%s\n", msg.Title, msg.Body)
	return &reportedError{err: err}
}

package erp

import "fmt"

// maxBodyLen bounds the remote response text carried on a StepError
const maxBodyLen = 500

// StepError reports a failed remote call. Step is the remote operation
// name, Status the transport status (0 when the failure happened before a
// response), Body the truncated remote response text.
type StepError struct {
	Step   string
	Status int
	Body   string
	Err    error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("%s failed: %d - %s", e.Step, e.Status, e.Body)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// NewStepError builds a StepError with the response body truncated
func NewStepError(step string, status int, body string) *StepError {
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen]
	}
	return &StepError{Step: step, Status: status, Body: body}
}

// WrapStep wraps a transport-level error with the failing step name
func WrapStep(step string, err error) *StepError {
	return &StepError{Step: step, Err: err}
}

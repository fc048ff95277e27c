package application

import "fmt"

// ErrorKind classifies a deployment step failure.
type ErrorKind string

const (
	// KindStoreWrite is a page create/update rejected by the store. The run continues.
	KindStoreWrite ErrorKind = "store_write"
	// KindConfigMutation is a failed site setting or menu location write. Reported as a warning.
	KindConfigMutation ErrorKind = "config_mutation"
	// KindMenuCreation is a failed menu bootstrap. The store rolls the menu back.
	KindMenuCreation ErrorKind = "menu_creation"
	// KindStoreUnavailable means the store could not be reached; nothing was attempted.
	KindStoreUnavailable ErrorKind = "store_unavailable"
)

// StepError wraps the error of one deployment step with its classification.
type StepError struct {
	Kind ErrorKind
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

func stepError(kind ErrorKind, step string, err error) *StepError {
	return &StepError{Kind: kind, Step: step, Err: err}
}

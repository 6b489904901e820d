package ui

// ActionableError carries a message safe to show the player. Scenes fall
// back to a generic message for any other error type.
type ActionableError struct {
	Message string
}

func (e *ActionableError) Error() string {
	return e.Message
}

// NewActionableError returns an error whose message can be shown as-is.
func NewActionableError(message string) *ActionableError {
	return &ActionableError{Message: message}
}

package service

// ValidationError reports a request precondition failure. Handlers map it to
// a 400 response carrying the message verbatim.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func validationError(message string) error {
	return ValidationError{Message: message}
}

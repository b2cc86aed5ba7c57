package rules

// Outcome is the result of validating one field. A failed Outcome is an
// ordinary result, not an error.
type Outcome struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field"`
}

// Success returns a passing outcome for field.
func Success(field string) Outcome {
	return Outcome{Valid: true, Field: field}
}

// Failure returns a failing outcome for field carrying message.
func Failure(field, message string) Outcome {
	return Outcome{Field: field, Message: message}
}

// Failed reports whether the outcome is a validation failure.
func (o Outcome) Failed() bool {
	return !o.Valid
}

func (o Outcome) String() string {
	if o.Valid {
		return o.Field + ": ok"
	}
	return o.Field + ": " + o.Message
}

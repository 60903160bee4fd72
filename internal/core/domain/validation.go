package domain

import "encoding/json"

// MessageValid is the message attached to every accepted location.
const MessageValid = "Location is valid"

// ValidationResult is the verdict of a location check: either valid or invalid with a reason.
// The zero value is an invalid result with an empty reason; use Valid or Invalid.
type ValidationResult struct {
	valid   bool
	message string
}

// Valid returns an accepting verdict.
func Valid() ValidationResult {
	return ValidationResult{valid: true, message: MessageValid}
}

// Invalid returns a rejecting verdict with a human-readable reason.
func Invalid(reason string) ValidationResult {
	return ValidationResult{message: reason}
}

func (r ValidationResult) IsValid() bool   { return r.valid }
func (r ValidationResult) Message() string { return r.message }

type validationResultJSON struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`
}

func (r ValidationResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(validationResultJSON{IsValid: r.valid, Message: r.message})
}

func (r *ValidationResult) UnmarshalJSON(data []byte) error {
	var v validationResultJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.valid, r.message = v.IsValid, v.Message
	return nil
}

package dto

// IntentResponseDTO is the API shape of an intent response.
type IntentResponseDTO struct {
	ID      *int64           `json:"id,omitempty"`
	Message Optional[string] `json:"message,omitzero"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *IntentResponseDTO) GetID() *int64 { return d.ID }

// Validate checks the intent response constraints. With partial set, absent fields are skipped.
func (d *IntentResponseDTO) Validate(partial bool) error {
	v := newValidator("intentResponse", partial)
	v.notNullString("message", d.Message)
	return v.result()
}

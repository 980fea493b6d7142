package dto

// UtteranceDTO is the API shape of an utterance.
type UtteranceDTO struct {
	ID       *int64              `json:"id,omitempty"`
	Text     Optional[string]    `json:"text,omitzero"`
	Language Optional[string]    `json:"language,omitzero"`
	Intent   Optional[IntentRef] `json:"intent,omitzero"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *UtteranceDTO) GetID() *int64 { return d.ID }

// Validate checks the utterance constraints. With partial set, absent fields are skipped.
func (d *UtteranceDTO) Validate(partial bool) error {
	v := newValidator("utterance", partial)
	v.notNullString("text", d.Text)
	return v.result()
}

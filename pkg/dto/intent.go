package dto

// IntentDTO is the API shape of an intent.
type IntentDTO struct {
	ID          *int64                      `json:"id,omitempty"`
	Name        Optional[string]            `json:"name,omitzero"`
	Description Optional[string]            `json:"description,omitzero"`
	Response    Optional[IntentResponseRef] `json:"response,omitzero"`
	Bot         Optional[BotRef]            `json:"bot,omitzero"`
	Entities    Optional[[]IntentEntityRef] `json:"entities,omitzero"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *IntentDTO) GetID() *int64 { return d.ID }

// Validate checks the intent constraints. With partial set, absent fields are skipped.
func (d *IntentDTO) Validate(partial bool) error {
	v := newValidator("intent", partial)
	v.notNullString("name", d.Name)
	return v.result()
}

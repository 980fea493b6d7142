package dto

// IntentEntityDTO is the API shape of an intent entity.
// Intents is output only; membership is edited from the intent side.
type IntentEntityDTO struct {
	ID       *int64           `json:"id,omitempty"`
	Name     Optional[string] `json:"name,omitzero"`
	Optional Optional[bool]   `json:"optional,omitzero"`
	Intents  []IntentIDRef    `json:"intents,omitempty"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *IntentEntityDTO) GetID() *int64 { return d.ID }

// Validate checks the intent entity constraints. With partial set, absent fields are skipped.
func (d *IntentEntityDTO) Validate(partial bool) error {
	v := newValidator("intentEntity", partial)
	v.notNullString("name", d.Name)
	return v.result()
}

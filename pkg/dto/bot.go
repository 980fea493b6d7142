package dto

// BotDTO is the API shape of a bot.
type BotDTO struct {
	ID          *int64           `json:"id,omitempty"`
	Name        Optional[string] `json:"name,omitzero"`
	Description Optional[string] `json:"description,omitzero"`
	Active      Optional[bool]   `json:"active,omitzero"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *BotDTO) GetID() *int64 { return d.ID }

// Validate checks the bot constraints. With partial set, absent fields are skipped.
func (d *BotDTO) Validate(partial bool) error {
	v := newValidator("bot", partial)
	v.notNullString("name", d.Name)
	v.sizeString("name", d.Name, 3, 50)
	return v.result()
}

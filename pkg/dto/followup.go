package dto

// FollowupDTO is the API shape of a follow-up question.
type FollowupDTO struct {
	ID           *int64              `json:"id,omitempty"`
	Question     Optional[string]    `json:"question,omitzero"`
	TargetEntity Optional[string]    `json:"targetEntity,omitzero"`
	Order        Optional[int32]     `json:"order,omitzero"`
	Intent       Optional[IntentRef] `json:"intent,omitzero"`
}

// GetID returns the identifier carried by the body, or nil.
func (d *FollowupDTO) GetID() *int64 { return d.ID }

// Validate checks the follow-up constraints. With partial set, absent fields are skipped.
func (d *FollowupDTO) Validate(partial bool) error {
	v := newValidator("followup", partial)
	v.notNullString("question", d.Question)
	v.notNullString("targetEntity", d.TargetEntity)
	return v.result()
}

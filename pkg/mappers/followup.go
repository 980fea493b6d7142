package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToFollowupDTO maps a follow-up record to its DTO.
func ToFollowupDTO(f *models.Followup) *dto.FollowupDTO {
	if f == nil {
		return nil
	}
	return &dto.FollowupDTO{
		ID:           idPtr(f.ID),
		Question:     dto.Some(f.Question),
		TargetEntity: dto.Some(f.TargetEntity),
		Order:        dto.FromPtr(f.Order),
		Intent:       ToIntentRef(f.Intent()),
	}
}

// ToFollowupEntity maps a follow-up DTO to a detached record.
func ToFollowupEntity(d *dto.FollowupDTO) *models.Followup {
	if d == nil {
		return nil
	}
	f := &models.Followup{
		ID:           idValue(d.ID),
		Question:     d.Question.Get(),
		TargetEntity: d.TargetEntity.Get(),
		Order:        d.Order.Ptr(),
	}
	f.SetIntent(intentFromRef(d.Intent))
	return f
}

// PartialUpdateFollowup copies the fields present in d onto f.
func PartialUpdateFollowup(f *models.Followup, d *dto.FollowupDTO) {
	if f == nil || d == nil {
		return
	}
	if d.Question.Set {
		f.Question = d.Question.Get()
	}
	if d.TargetEntity.Set {
		f.TargetEntity = d.TargetEntity.Get()
	}
	if d.Order.Set {
		f.Order = d.Order.Ptr()
	}
	if d.Intent.Set {
		f.SetIntent(intentFromRef(d.Intent))
	}
}

package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToIntentEntityDTO maps an entity record to its DTO, listing the ids of the
// intents it is linked to when those were loaded.
func ToIntentEntityDTO(e *models.IntentEntity) *dto.IntentEntityDTO {
	if e == nil {
		return nil
	}
	out := &dto.IntentEntityDTO{
		ID:       idPtr(e.ID),
		Name:     dto.Some(e.Name),
		Optional: dto.FromPtr(e.Optional),
	}
	for _, i := range e.Intents() {
		out.Intents = append(out.Intents, dto.IntentIDRef{ID: i.ID})
	}
	return out
}

// ToIntentEntityEntity maps an entity DTO to a detached record.
// Intent membership is ignored; it is owned by the intent side.
func ToIntentEntityEntity(d *dto.IntentEntityDTO) *models.IntentEntity {
	if d == nil {
		return nil
	}
	return &models.IntentEntity{
		ID:       idValue(d.ID),
		Name:     d.Name.Get(),
		Optional: d.Optional.Ptr(),
	}
}

// PartialUpdateIntentEntity copies the fields present in d onto e.
func PartialUpdateIntentEntity(e *models.IntentEntity, d *dto.IntentEntityDTO) {
	if e == nil || d == nil {
		return
	}
	if d.Name.Set {
		e.Name = d.Name.Get()
	}
	if d.Optional.Set {
		e.Optional = d.Optional.Ptr()
	}
}

package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToIntentDTO maps an intent record to its DTO. The bot becomes {id,name},
// the response {id}, and each entity {id,name}.
func ToIntentDTO(i *models.Intent) *dto.IntentDTO {
	if i == nil {
		return nil
	}
	entities := make([]dto.IntentEntityRef, 0, len(i.Entities()))
	for _, e := range i.Entities() {
		entities = append(entities, dto.IntentEntityRef{ID: e.ID, Name: e.Name})
	}

	response := dto.Null[dto.IntentResponseRef]()
	if r := i.Response(); r != nil {
		response = dto.Some(dto.IntentResponseRef{ID: r.ID})
	}

	return &dto.IntentDTO{
		ID:          idPtr(i.ID),
		Name:        dto.Some(i.Name),
		Description: dto.FromPtr(i.Description),
		Response:    response,
		Bot:         ToBotRef(i.Bot),
		Entities:    dto.Some(entities),
	}
}

// ToIntentEntity maps an intent DTO to a detached record. Referenced rows
// are represented by id-only records.
func ToIntentEntity(d *dto.IntentDTO) *models.Intent {
	if d == nil {
		return nil
	}
	i := &models.Intent{
		ID:          idValue(d.ID),
		Name:        d.Name.Get(),
		Description: d.Description.Ptr(),
	}
	applyIntentRelations(i, d)
	return i
}

// PartialUpdateIntent copies the fields present in d onto i. A present
// relationship replaces the current one, an explicit null clears it, and an
// absent one is left alone. A present entities list replaces the whole set.
func PartialUpdateIntent(i *models.Intent, d *dto.IntentDTO) {
	if i == nil || d == nil {
		return
	}
	if d.Name.Set {
		i.Name = d.Name.Get()
	}
	if d.Description.Set {
		i.Description = d.Description.Ptr()
	}
	applyIntentRelations(i, d)
}

func applyIntentRelations(i *models.Intent, d *dto.IntentDTO) {
	if d.Bot.Set {
		i.Bot = nil
		if d.Bot.Valid {
			i.Bot = &models.Bot{ID: d.Bot.Value.ID, Name: d.Bot.Value.Name}
		}
	}
	if d.Response.Set {
		var response *models.IntentResponse
		if d.Response.Valid {
			response = &models.IntentResponse{ID: d.Response.Value.ID}
		}
		i.SetResponse(response)
	}
	if d.Entities.Set {
		entities := make([]*models.IntentEntity, 0, len(d.Entities.Value))
		for _, ref := range d.Entities.Value {
			entities = append(entities, &models.IntentEntity{ID: ref.ID, Name: ref.Name})
		}
		i.SetEntities(entities)
	}
}

// ToIntentRef projects an intent to its id and name.
func ToIntentRef(i *models.Intent) dto.Optional[dto.IntentRef] {
	if i == nil {
		return dto.Null[dto.IntentRef]()
	}
	return dto.Some(dto.IntentRef{ID: i.ID, Name: i.Name})
}

func intentFromRef(ref dto.Optional[dto.IntentRef]) *models.Intent {
	if !ref.Valid {
		return nil
	}
	return &models.Intent{ID: ref.Value.ID, Name: ref.Value.Name}
}

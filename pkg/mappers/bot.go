// Package mappers converts between entity records and API DTOs.
//
// ToXxxDTO projects related records into their reference shapes,
// ToXxxEntity builds a detached record from a request body, and
// PartialUpdateXxx copies only the fields present in the body onto an
// existing record. Related records produced by ToXxxEntity carry only an
// identifier; repositories persist the link, not the referenced row.
package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToBotDTO maps a bot record to its DTO.
func ToBotDTO(b *models.Bot) *dto.BotDTO {
	if b == nil {
		return nil
	}
	return &dto.BotDTO{
		ID:          idPtr(b.ID),
		Name:        dto.Some(b.Name),
		Description: dto.FromPtr(b.Description),
		Active:      dto.FromPtr(b.Active),
	}
}

// ToBotEntity maps a bot DTO to a detached record.
func ToBotEntity(d *dto.BotDTO) *models.Bot {
	if d == nil {
		return nil
	}
	return &models.Bot{
		ID:          idValue(d.ID),
		Name:        d.Name.Get(),
		Description: d.Description.Ptr(),
		Active:      d.Active.Ptr(),
	}
}

// PartialUpdateBot copies the fields present in d onto b.
func PartialUpdateBot(b *models.Bot, d *dto.BotDTO) {
	if b == nil || d == nil {
		return
	}
	if d.Name.Set {
		b.Name = d.Name.Get()
	}
	if d.Description.Set {
		b.Description = d.Description.Ptr()
	}
	if d.Active.Set {
		b.Active = d.Active.Ptr()
	}
}

// ToBotRef projects a bot to its id and name.
func ToBotRef(b *models.Bot) dto.Optional[dto.BotRef] {
	if b == nil {
		return dto.Null[dto.BotRef]()
	}
	return dto.Some(dto.BotRef{ID: b.ID, Name: b.Name})
}

func idPtr(id int64) *int64 {
	if id == 0 {
		return nil
	}
	return &id
}

func idValue(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}

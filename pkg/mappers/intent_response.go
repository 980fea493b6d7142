package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToIntentResponseDTO maps a response record to its DTO.
func ToIntentResponseDTO(r *models.IntentResponse) *dto.IntentResponseDTO {
	if r == nil {
		return nil
	}
	return &dto.IntentResponseDTO{
		ID:      idPtr(r.ID),
		Message: dto.Some(r.Message),
	}
}

// ToIntentResponseEntity maps a response DTO to a detached record.
func ToIntentResponseEntity(d *dto.IntentResponseDTO) *models.IntentResponse {
	if d == nil {
		return nil
	}
	return &models.IntentResponse{
		ID:      idValue(d.ID),
		Message: d.Message.Get(),
	}
}

// PartialUpdateIntentResponse copies the fields present in d onto r.
func PartialUpdateIntentResponse(r *models.IntentResponse, d *dto.IntentResponseDTO) {
	if r == nil || d == nil {
		return
	}
	if d.Message.Set {
		r.Message = d.Message.Get()
	}
}

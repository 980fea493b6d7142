package mappers

import (
	"github.com/ekaya-inc/chatbot-admin/pkg/dto"
	"github.com/ekaya-inc/chatbot-admin/pkg/models"
)

// ToUtteranceDTO maps an utterance record to its DTO.
func ToUtteranceDTO(u *models.Utterance) *dto.UtteranceDTO {
	if u == nil {
		return nil
	}
	return &dto.UtteranceDTO{
		ID:       idPtr(u.ID),
		Text:     dto.Some(u.Text),
		Language: dto.FromPtr(u.Language),
		Intent:   ToIntentRef(u.Intent()),
	}
}

// ToUtteranceEntity maps an utterance DTO to a detached record.
func ToUtteranceEntity(d *dto.UtteranceDTO) *models.Utterance {
	if d == nil {
		return nil
	}
	u := &models.Utterance{
		ID:       idValue(d.ID),
		Text:     d.Text.Get(),
		Language: d.Language.Ptr(),
	}
	u.SetIntent(intentFromRef(d.Intent))
	return u
}

// PartialUpdateUtterance copies the fields present in d onto u.
func PartialUpdateUtterance(u *models.Utterance, d *dto.UtteranceDTO) {
	if u == nil || d == nil {
		return
	}
	if d.Text.Set {
		u.Text = d.Text.Get()
	}
	if d.Language.Set {
		u.Language = d.Language.Ptr()
	}
	if d.Intent.Set {
		u.SetIntent(intentFromRef(d.Intent))
	}
}

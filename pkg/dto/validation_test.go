package dto

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) []FieldError {
	t.Helper()
	var ve *ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	return ve.Errors
}

func TestBotDTO_Validate(t *testing.T) {
	tests := []struct {
		name    string
		dto     BotDTO
		partial bool
		want    []FieldError
	}{
		{name: "valid", dto: BotDTO{Name: Some("Greeter")}},
		{name: "missing name", dto: BotDTO{}, want: []FieldError{{"bot", "name", "NotNull"}}},
		{name: "too short", dto: BotDTO{Name: Some("ab")}, want: []FieldError{{"bot", "name", "Size"}}},
		{name: "too long", dto: BotDTO{Name: Some(strings.Repeat("a", 51))}, want: []FieldError{{"bot", "name", "Size"}}},
		{name: "partial without name", dto: BotDTO{Description: Some("d")}, partial: true},
		{name: "partial explicit null name", dto: BotDTO{Name: Null[string]()}, partial: true, want: []FieldError{{"bot", "name", "NotNull"}}},
		{name: "partial short name", dto: BotDTO{Name: Some("x")}, partial: true, want: []FieldError{{"bot", "name", "Size"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.dto.Validate(tt.partial)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, fieldErrors(t, err))
		})
	}
}

func TestFollowupDTO_Validate_ReportsEveryMissingField(t *testing.T) {
	d := FollowupDTO{Question: Null[string]()}
	errs := fieldErrors(t, d.Validate(false))

	assert.Equal(t, []FieldError{
		{ObjectName: "followup", Field: "question", Message: "NotNull"},
		{ObjectName: "followup", Field: "targetEntity", Message: "NotNull"},
	}, errs)
}

func TestRequiredFields(t *testing.T) {
	assert.Error(t, (&IntentDTO{}).Validate(false))
	assert.NoError(t, (&IntentDTO{Name: Some("greet")}).Validate(false))
	assert.Error(t, (&IntentEntityDTO{}).Validate(false))
	assert.Error(t, (&IntentResponseDTO{}).Validate(false))
	assert.Error(t, (&UtteranceDTO{}).Validate(false))
	assert.NoError(t, (&UtteranceDTO{}).Validate(true))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{"bot", "name", "Size"}}}
	assert.Equal(t, "validation failed: bot.name: Size", err.Error())
}

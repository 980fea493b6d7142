package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptional_Unmarshal_DistinguishesAbsentNullAndValue(t *testing.T) {
	var body BotDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"description":null,"active":true}`), &body))

	assert.False(t, body.Name.Set, "absent key")
	assert.False(t, body.Name.Valid)

	assert.True(t, body.Description.Set, "explicit null is present")
	assert.False(t, body.Description.Valid)
	assert.Nil(t, body.Description.Ptr())

	assert.True(t, body.Active.Set)
	assert.True(t, body.Active.Valid)
	assert.True(t, body.Active.Get())

	require.NotNil(t, body.ID)
	assert.Equal(t, int64(3), *body.ID)
}

func TestOptional_Marshal_OmitsAbsentKeepsNull(t *testing.T) {
	id := int64(1)
	body := BotDTO{
		ID:          &id,
		Name:        Some("Greeter"),
		Description: Null[string](),
	}

	data, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Greeter","description":null}`, string(data))
}

func TestOptional_FromPtr(t *testing.T) {
	s := "x"
	assert.Equal(t, Some("x"), FromPtr(&s))
	assert.Equal(t, Null[string](), FromPtr[string](nil))
}

func TestOptional_NestedReference(t *testing.T) {
	var body FollowupDTO
	require.NoError(t, json.Unmarshal([]byte(`{"question":"When?","intent":{"id":4,"name":"book"}}`), &body))

	require.True(t, body.Intent.Valid)
	assert.Equal(t, IntentRef{ID: 4, Name: "book"}, body.Intent.Value)

	body = FollowupDTO{}
	require.NoError(t, json.Unmarshal([]byte(`{"intent":null}`), &body))
	assert.True(t, body.Intent.Set)
	assert.False(t, body.Intent.Valid)
}

func TestOptional_InvalidValue(t *testing.T) {
	var body BotDTO
	err := json.Unmarshal([]byte(`{"active":"yes"}`), &body)
	assert.Error(t, err)
}

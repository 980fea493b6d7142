package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckParameterForInjection(t *testing.T) {
	tests := []struct {
		name            string
		value           string
		expectInjection bool
	}{
		{name: "plain property", value: "name", expectInjection: false},
		{name: "property with direction", value: "name,desc", expectInjection: false},
		{name: "id ascending", value: "id,asc", expectInjection: false},
		{name: "empty", value: "", expectInjection: false},
		{name: "stacked query", value: "name'; DROP TABLE intent--", expectInjection: true},
		{name: "tautology", value: "1' OR '1'='1", expectInjection: true},
		{name: "union select", value: "1 UNION SELECT password FROM users", expectInjection: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckParameterForInjection("sort", tt.value)
			if !tt.expectInjection {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.True(t, result.IsSQLi)
			assert.NotEmpty(t, result.Fingerprint)
			assert.Equal(t, "sort", result.ParamName)
			assert.Equal(t, tt.value, result.ParamValue)
		})
	}
}

func TestCheckAllValues(t *testing.T) {
	assert.Nil(t, CheckAllValues("sort", []string{"name,asc", "id,desc"}))
	assert.Nil(t, CheckAllValues("sort", nil))

	result := CheckAllValues("sort", []string{"name,asc", "1' OR '1'='1"})
	require.NotNil(t, result)
	assert.Equal(t, "1' OR '1'='1", result.ParamValue)
}

package shared

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeError(t *testing.T) {
	assert.Nil(t, NormalizeError(nil))

	pe := &ProviderError{Code: ErrRateLimited, Message: "slow down"}
	assert.Same(t, pe, NormalizeError(pe))

	norm := NormalizeError(errors.New("boom"))
	require.NotNil(t, norm)
	assert.Equal(t, ErrUnknown, norm.Code)
	assert.Equal(t, "boom", norm.Message)
}

func TestValidateCompletionRequest(t *testing.T) {
	valid := &CompletionRequest{
		Messages: []Message{
			{Role: RoleSystem, Content: "be terse"},
			{Role: RoleUser, Content: "hello"},
		},
		Options: CompletionOptions{Model: "gpt-4"},
	}
	assert.NoError(t, ValidateCompletionRequest(valid))

	tests := []struct {
		name string
		req  *CompletionRequest
	}{
		{"nil request", nil},
		{"no messages", &CompletionRequest{Options: CompletionOptions{Model: "gpt-4"}}},
		{"empty role", &CompletionRequest{
			Messages: []Message{{Content: "x"}},
			Options:  CompletionOptions{Model: "gpt-4"},
		}},
		{"invalid role", &CompletionRequest{
			Messages: []Message{{Role: "robot", Content: "x"}},
			Options:  CompletionOptions{Model: "gpt-4"},
		}},
		{"missing model", &CompletionRequest{
			Messages: []Message{{Role: RoleUser, Content: "x"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCompletionRequest(tt.req)
			require.Error(t, err)

			var pe *ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, ErrInvalidRequest, pe.Code)
		})
	}
}

package validation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		problems map[string]string
		path     []string
		wantMsg  string
	}{
		{
			name: "single problem",
			problems: map[string]string{
				"addr": "port is required",
			},
			path:    []string{"config"},
			wantMsg: "validation errors found in 'config'",
		},
		{
			name: "multiple problems",
			problems: map[string]string{
				"addr":      "port is required",
				"log_level": "unknown level",
			},
			path:    []string{"config"},
			wantMsg: "validation errors found in 'config'",
		},
		{
			name:     "empty problems",
			problems: map[string]string{},
			path:     []string{"config"},
			wantMsg:  "validation errors found in 'config'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.problems, tt.path...)
			require.NotNil(t, err)

			msg := err.Error()
			assert.Contains(t, msg, tt.wantMsg)
			for field, problem := range tt.problems {
				assert.Contains(t, msg, field)
				assert.Contains(t, msg, problem)
			}
		})
	}
}

func TestValidationError_SortedFields(t *testing.T) {
	err := NewValidationError(map[string]string{
		"log_level": "bad level",
		"addr":      "bad addr",
		"format":    "bad format",
	}, "config")

	msg := err.Error()
	addr := strings.Index(msg, "addr")
	format := strings.Index(msg, "format")
	level := strings.Index(msg, "log_level")
	assert.Less(t, addr, format)
	assert.Less(t, format, level)
}

func TestValidationError_Is(t *testing.T) {
	err1 := NewValidationError(map[string]string{"addr": "required"}, "config")
	err2 := NewValidationError(map[string]string{"log_level": "unknown"}, "config")
	var validationErr *ValidationError

	assert.True(t, errors.Is(err1, err2))
	assert.True(t, errors.As(err1, &validationErr))
}

func TestValidationError_PrependPath(t *testing.T) {
	err := NewValidationError(map[string]string{"addr": "required"}, "listener")
	err = err.PrependPath("agent")
	assert.Contains(t, err.Error(), "agent.listener")

	bare := NewValidationError(map[string]string{"addr": "required"})
	bare = bare.PrependPath("agent")
	assert.Equal(t, "agent", bare.Path)
}

type stubValidator map[string]string

func (s stubValidator) Valid(ctx context.Context) map[string]string {
	return s
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(context.Background(), stubValidator(nil), "config"))

	err := Check(context.Background(), stubValidator{"addr": "bad"}, "config")
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "config", validationErr.Path)
	assert.Equal(t, "bad", validationErr.Problems["addr"])
}

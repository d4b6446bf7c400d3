package moderation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilter_Contains(t *testing.T) {
	f := NewFilter([]string{"Spam", " scam ", ""})

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"clean text", "Morning yoga in the park", false},
		{"exact word", "spam", true},
		{"case insensitive", "Free SPAM here", true},
		{"punctuation around word", "this is a scam!", true},
		{"substring is not a word", "spammer meeting", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Contains(tt.text))
		})
	}
	assert.Equal(t, 2, f.Len())
}

func TestFilter_EmptyAllowsEverything(t *testing.T) {
	assert.False(t, NewFilter(nil).Contains("anything at all"))
}

type form struct {
	Title *string `validate:"omitempty,clean"`
	Body  string  `validate:"clean"`
}

func TestNewValidator_CleanTag(t *testing.T) {
	v, err := NewValidator(NewFilter([]string{"scam"}), zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, v.Struct(form{Body: "hello"}))

	bad := "total scam"
	err = v.Struct(form{Title: &bad, Body: "hello"})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, Tag, fieldErrs[0].Tag())
	assert.Equal(t, "Title", fieldErrs[0].Field())

	assert.Error(t, v.Struct(form{Body: "Scam"}))
}

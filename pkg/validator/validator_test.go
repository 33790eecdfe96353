package validator

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/hospital-api/internal/model"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, Configure(v))
	return v
}

func TestConfigure_GenderTag(t *testing.T) {
	v := newValidate(t)

	tests := []struct {
		gender model.Gender
		valid  bool
	}{
		{model.GenderMale, true},
		{model.GenderFemale, true},
		{model.GenderOther, true},
		{"X", false},
		{"m", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.gender), func(t *testing.T) {
			err := v.Struct(model.PatientRequest{
				Name:   "Ann",
				Email:  "ann@example.com",
				Gender: tt.gender,
			})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestMessage_UsesJSONFieldNames(t *testing.T) {
	v := newValidate(t)

	err := v.Struct(model.PatientRequest{Email: "not-an-email", Gender: "Z"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "email must be a valid email address")
	assert.Contains(t, msg, "gender must be one of M, F, O")
}

func TestMessage_PlainError(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
}

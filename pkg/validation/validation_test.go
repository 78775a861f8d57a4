package validation

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Subject string `validate:"required,no_emoji"`
	Plan    string `validate:"valid_plan"`
	Tier    string `validate:"valid_tier"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	assert.NoError(t, v.Struct(sample{Subject: "Follow up", Plan: "max", Tier: "pro"}))
	assert.NoError(t, v.Struct(sample{Subject: "Follow up"}))

	err := v.Struct(sample{Subject: "Hi 🎉", Plan: "gold", Tier: "vip"})
	assert.Error(t, err)
	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, "Subject must not contain emoji or special symbols")
	assert.Contains(t, msgs, "Plan must be pro or max")
	assert.Contains(t, msgs, "Tier must be free, pro or max")
}

func TestMessageFallsBackForOtherErrors(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))

	v := validator.New()
	err := v.Struct(struct {
		ResumeText string `validate:"required"`
	}{})
	assert.Equal(t, "Resume text is required", Message(err))
}

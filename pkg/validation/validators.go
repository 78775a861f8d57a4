package validation

import (
	"unicode"

	"resumeai-backend/internal/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("valid_tier", ValidTier)
	_ = v.RegisterValidation("valid_plan", ValidPlan)
}

// RegisterGinValidators installs the custom tags on gin's binding engine.
func RegisterGinValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterValidators(v)
	}
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// Supplementary planes are mostly emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ValidTier accepts free, pro and max. Empty is left to `required`.
func ValidTier(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.Tier(val) {
	case domain.TierFree, domain.TierPro, domain.TierMax:
		return true
	}
	return false
}

// ValidPlan accepts the purchasable plans.
func ValidPlan(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	switch domain.Plan(val) {
	case domain.PlanPro, domain.PlanMax:
		return true
	}
	return false
}

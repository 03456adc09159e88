package utils

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()

	// Custom validations
	v.RegisterValidation("date", validateDate)

	return &Validator{
		validate: v,
	}
}

func (v *Validator) Struct(s interface{}) error {
	return v.validate.Struct(s)
}

// Doğum günü alanları için YYYY-MM-DD formatını kontrol et
func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}

package config

import (
	"ProjectFinance/internal/entity"
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

// NewValidator returns a validator with the finance enum tags registered and
// English messages for every tag it knows.
func NewValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	if err := validate.RegisterValidation("record_type", func(fl validator.FieldLevel) bool {
		return entity.RecordType(fl.Field().String()).IsValid()
	}); err != nil {
		return nil, nil, err
	}

	if err := validate.RegisterValidation("record_category", func(fl validator.FieldLevel) bool {
		return entity.Category(fl.Field().String()).IsValid()
	}); err != nil {
		return nil, nil, err
	}

	eng := en.New()
	uni := ut.New(eng, eng)
	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, nil, fmt.Errorf("translator not found")
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, nil, err
	}

	custom := map[string]string{
		"record_type":     "{0} must be income or expense",
		"record_category": "{0} must be a known category",
	}
	for tag, message := range custom {
		if err := registerTranslation(validate, translator, tag, message); err != nil {
			return nil, nil, err
		}
	}

	return validate, translator, nil
}

func registerTranslation(validate *validator.Validate, translator ut.Translator, tag string, message string) error {
	return validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error {
			return t.Add(tag, message, true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

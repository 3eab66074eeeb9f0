package config

import (
	"ProjectFinance/internal/api/finance"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidator(t *testing.T) {
	validate, translator, err := NewValidator()
	require.NoError(t, err)

	amount := decimal.NewFromInt(10)
	ok := finance.CreateRecordRequest{Title: "rent", Amount: &amount, Type: "expense", Category: "utilities"}
	assert.NoError(t, validate.Struct(ok))

	bad := finance.CreateRecordRequest{Title: "rent", Type: "loan", Category: "crypto"}
	err = validate.Struct(bad)
	require.Error(t, err)

	messages := map[string]string{}
	for _, fe := range err.(validator.ValidationErrors) {
		messages[fe.Field()] = fe.Translate(translator)
	}
	assert.Equal(t, "Amount is a required field", messages["Amount"])
	assert.Equal(t, "Type must be income or expense", messages["Type"])
	assert.Equal(t, "Category must be a known category", messages["Category"])

	title := ""
	assert.Error(t, validate.Struct(finance.UpdateRecordRequest{Title: &title}))
	assert.NoError(t, validate.Struct(finance.UpdateRecordRequest{}))
}

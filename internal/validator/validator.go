// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/shopspring/decimal"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("transaction_source", validateTransactionSource)
		_ = v.RegisterValidation("period", validatePeriod)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	}
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateTransactionSource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "line", "web":
		return true
	}
	return false
}

func validatePeriod(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "today", "week", "month", "all":
		return true
	}
	return false
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}

package http

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"p2p-lending-backend/internal/domain/money"
	"p2p-lending-backend/pkg/id"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// Money and decimal fields validate as numbers, so gt/lte/required apply to them.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		switch x := f.Interface().(type) {
		case money.Money:
			return x.Decimal().InexactFloat64()
		case decimal.Decimal:
			return x.InexactFloat64()
		}
		return nil
	}, money.Money{}, decimal.Decimal{})

	// public ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return id.Valid(fl.Field().String())
	})
	// max 2 decimal places
	_ = v.RegisterValidation("dec2", hasTwoDecimals)

	return &CustomValidator{v: v}
}

// hasTwoDecimals checks Money and decimal fields on their exact value; the
// custom type func above only hands validators a float64 copy.
func hasTwoDecimals(fl validator.FieldLevel) bool {
	if parent := reflect.Indirect(fl.Parent()); parent.Kind() == reflect.Struct {
		if orig := parent.FieldByName(fl.StructFieldName()); orig.IsValid() && orig.CanInterface() {
			switch x := orig.Interface().(type) {
			case money.Money:
				return !x.HasSubCents()
			case decimal.Decimal:
				return x.Equal(x.Round(2))
			}
		}
	}
	d := decimal.NewFromFloat(fl.Field().Float())
	return d.Equal(d.Round(2))
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "dec2":
			out = append(out, FieldError{Field: field, Message: "must have at most 2 decimal places"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}

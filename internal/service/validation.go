package service

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/models"
)

var (
	phonePattern    = regexp.MustCompile(`^[0-9\s]{10}$`)
	quantityPattern = regexp.MustCompile(`^[0-9\s]*$`)
)

const (
	tagProvince   = "province"
	tagPhone      = "phone"
	tagQuantity   = "quantity"
	tagAtLeastOne = "atleastone"
)

var fieldMessages = map[string]string{
	"name":           "Please enter a name",
	"address":        "Please enter an address",
	"city":           "Please enter a city",
	"province":       "Please select a province",
	"phone":          "Please enter a valid phone",
	"email":          "Please enter a valid email",
	"darkChocolate":  "Please enter a valid Dark Chocolate quantity",
	"milkChocolate":  "Please enter a valid Milk Chocolate quantity",
	"truffle":        "Please enter a valid Truffle quantity",
	"whiteChocolate": "Please enter a valid White Chocolate quantity",
}

var tagMessages = map[string]string{
	tagProvince:   "Please select a valid province",
	tagAtLeastOne: "You must enter at least one product",
}

// ValidationError is a problem with a single form field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors lists every rule a submission broke, in rule order.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// For returns the messages attached to field.
func (e ValidationErrors) For(field string) []string {
	var out []string
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe.Message)
		}
	}
	return out
}

// orderForm carries the validation rules. Field order is rule order.
type orderForm struct {
	Name           string `form:"name" validate:"required"`
	Address        string `form:"address" validate:"required"`
	City           string `form:"city" validate:"required"`
	Province       string `form:"province" validate:"required,province"`
	Phone          string `form:"phone" validate:"phone"`
	Email          string `form:"email" validate:"email"`
	DarkChocolate  string `form:"darkChocolate" validate:"quantity"`
	MilkChocolate  string `form:"milkChocolate" validate:"quantity"`
	Truffle        string `form:"truffle" validate:"quantity"`
	WhiteChocolate string `form:"whiteChocolate" validate:"quantity"`
}

// OrderValidator checks order form submissions.
type OrderValidator struct {
	validate *validatorv10.Validate
}

// NewOrderValidator returns a validator with the storefront rules registered.
func NewOrderValidator() *OrderValidator {
	v := validatorv10.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(tagProvince, func(fl validatorv10.FieldLevel) bool {
		return IsKnownProvince(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPhone, func(fl validatorv10.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagQuantity, func(fl validatorv10.FieldLevel) bool {
		return isQuantity(fl.Field().String())
	})

	v.RegisterStructValidation(atLeastOneProduct, orderForm{})

	return &OrderValidator{validate: v}
}

// atLeastOneProduct reports on the last product field when nothing was ordered.
// A malformed quantity already has its own error and counts as an attempt to order.
func atLeastOneProduct(sl validatorv10.StructLevel) {
	form := sl.Current().Interface().(orderForm)
	for _, q := range []string{form.DarkChocolate, form.MilkChocolate, form.Truffle, form.WhiteChocolate} {
		if !isQuantity(q) {
			return
		}
	}
	if form.quantities().Any() {
		return
	}
	sl.ReportError(form.WhiteChocolate, "whiteChocolate", "WhiteChocolate", tagAtLeastOne, "")
}

// Validate checks every rule and returns the coerced input, or all the violations.
func (v *OrderValidator) Validate(in models.OrderInput) (models.ValidInput, ValidationErrors) {
	form := orderForm{
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		City:           strings.TrimSpace(in.City),
		Province:       strings.TrimSpace(in.Province),
		Phone:          in.Phone,
		Email:          strings.TrimSpace(in.Email),
		DarkChocolate:  in.DarkChocolate,
		MilkChocolate:  in.MilkChocolate,
		Truffle:        in.Truffle,
		WhiteChocolate: in.WhiteChocolate,
	}

	if err := v.validate.Struct(form); err != nil {
		return models.ValidInput{}, toValidationErrors(err)
	}

	province, _ := NormalizeProvince(form.Province)
	return models.ValidInput{
		Name:       form.Name,
		Address:    form.Address,
		City:       form.City,
		Province:   string(province),
		Phone:      form.Phone,
		Email:      form.Email,
		Quantities: form.quantities(),
	}, nil
}

func (f orderForm) quantities() models.Quantities {
	// Malformed values count as zero here; the quantity rule reports them.
	dark, _ := parseQuantity(f.DarkChocolate)
	milk, _ := parseQuantity(f.MilkChocolate)
	truffle, _ := parseQuantity(f.Truffle)
	white, _ := parseQuantity(f.WhiteChocolate)
	return models.Quantities{Dark: dark, Milk: milk, Truffle: truffle, White: white}
}

func isQuantity(s string) bool {
	if !quantityPattern.MatchString(s) {
		return false
	}
	_, err := parseQuantity(s)
	return err == nil
}

// parseQuantity drops whitespace and reads the remaining digits. Blank is zero.
func parseQuantity(s string) (int64, error) {
	digits := strings.Join(strings.Fields(s), "")
	if digits == "" {
		return 0, nil
	}
	return strconv.ParseInt(digits, 10, 64)
}

func toValidationErrors(err error) ValidationErrors {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return ValidationErrors{{Message: err.Error()}}
	}

	out := make(ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		msg, ok := tagMessages[fe.Tag()]
		if !ok {
			msg = fieldMessages[fe.Field()]
		}
		out = append(out, ValidationError{Field: fe.Field(), Message: msg})
	}
	return out
}

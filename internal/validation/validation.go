// Package validation checks student payloads before they reach storage.
//
// go-playground/validator is used one rule at a time (validate.Var) rather
// than through struct tags. Struct validation stops at the first failing tag
// of each field, while the API contract is to report every failing rule, in
// declaration order, so a client can fix a payload in one round trip.
package validation

import (
	"fmt"
	"regexp"

	"github.com/aanand-mishra/student-records/internal/types"
	"github.com/go-playground/validator/v10"
)

var (
	nameFormat    = regexp.MustCompile(`^[A-Z][a-zA-Z\s]*$`)
	addressFormat = regexp.MustCompile(`^[A-Za-z0-9\s,.\-]+$`)
	digitsFormat  = regexp.MustCompile(`^\d+$`)
	mobileFormat  = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// Rule pairs a validator tag with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field is the ordered rule list for one attribute of a StudentInput.
type Field struct {
	Name  string
	Value func(types.StudentInput) string
	Rules []Rule
}

// StudentFields lists the rules for every StudentInput attribute. Order
// matters: it is the order messages are reported in.
var StudentFields = []Field{
	{
		Name:  "name",
		Value: func(in types.StudentInput) string { return in.Name },
		Rules: []Rule{
			{Tag: "required", Message: "Name is required"},
			{Tag: "min=3", Message: "Minimum length required is 3"},
			{Tag: "name_format", Message: "Name must start with a capital letter and contain only letters and spaces"},
		},
	},
	{
		Name:  "address",
		Value: func(in types.StudentInput) string { return in.Address },
		Rules: []Rule{
			{Tag: "required", Message: "Address is required"},
			{Tag: "min=5", Message: "Minimum length required is 5"},
			{Tag: "max=200", Message: "Maximum length allowed is 200"},
			{Tag: "address_format", Message: "Address contains invalid characters"},
		},
	},
	{
		Name:  "phone",
		Value: func(in types.StudentInput) string { return in.Phone },
		Rules: []Rule{
			{Tag: "required", Message: "Phone is required"},
			{Tag: "len=10", Message: "Phone must be exactly 10 digits"},
			{Tag: "digits", Message: "Only numbers are allowed in phone number"},
			{Tag: "mobile_prefix", Message: "Phone must start with digits between 6-9"},
		},
	},
}

// validate is shared by all requests. A *validator.Validate is safe for
// concurrent use once its custom validations are registered.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	custom := map[string]*regexp.Regexp{
		"name_format":    nameFormat,
		"address_format": addressFormat,
		"digits":         digitsFormat,
		"mobile_prefix":  mobileFormat,
	}
	for tag, re := range custom {
		if err := v.RegisterValidation(tag, matches(re)); err != nil {
			panic(fmt.Sprintf("validation: register %q: %v", tag, err))
		}
	}

	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// Student runs every rule of every field against in and returns the
// messages of the rules that failed, in declaration order. A nil result
// means the input is valid.
func Student(in types.StudentInput) []string {
	var messages []string

	for _, field := range StudentFields {
		value := field.Value(in)
		for _, rule := range field.Rules {
			if err := validate.Var(value, rule.Tag); err != nil {
				messages = append(messages, rule.Message)
			}
		}
	}

	return messages
}

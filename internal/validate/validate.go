// Package validate wraps go-playground/validator for form payloads. Fields
// carry their user-facing messages in a `msg` tag:
//
//	Title string `form:"title" validate:"required,max=100" msg:"required=Title is required;max=Title is too long"`
//
// `{param}` inside a message is replaced by the failing rule's parameter.
package validate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/Hossain-Anas/UniVerse/internal/auth"
)

type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

type Errors struct {
	Fields []FieldError
}

func (e *Errors) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// First is the message of the earliest failing field in declaration order.
func (e *Errors) First() string {
	if e == nil || len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Message
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "bracu_email", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || auth.IsValidEmail(value)
	})
	mustRegister(v, "campus_password", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || auth.IsValidPassword(value)
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// RegisterStructRule adds a cross-field rule. Rules report failures with
// StructLevel.ReportError; the tag and param feed the field's msg lookup.
func (v *Validator) RegisterStructRule(fn validator.StructLevelFunc, types ...interface{}) {
	v.validate.RegisterStructValidation(fn, types...)
}

// Struct validates i and returns *Errors ordered by field declaration.
func (v *Validator) Struct(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	typ := reflect.TypeOf(i)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	type indexed struct {
		index int
		err   FieldError
	}
	collected := make([]indexed, 0, len(validationErrors))
	for _, fe := range validationErrors {
		index := len(collected) + 1000
		var tag reflect.StructTag
		if sf, ok := typ.FieldByName(fe.StructField()); ok {
			index = sf.Index[0]
			tag = sf.Tag
		}
		collected = append(collected, indexed{
			index: index,
			err: FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: message(tag, fe),
			},
		})
	}
	sort.SliceStable(collected, func(a, b int) bool { return collected[a].index < collected[b].index })

	out := &Errors{Fields: make([]FieldError, 0, len(collected))}
	for _, c := range collected {
		out.Fields = append(out.Fields, c.err)
	}
	return out
}

func message(tag reflect.StructTag, fe validator.FieldError) string {
	for _, part := range strings.Split(tag.Get("msg"), ";") {
		key, text, found := strings.Cut(part, "=")
		if found && strings.TrimSpace(key) == fe.Tag() {
			return strings.ReplaceAll(strings.TrimSpace(text), "{param}", fe.Param())
		}
	}
	switch fe.Tag() {
	case "required", "required_if", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `form:"email" validate:"required,bracu_email" msg:"required=Email is required;bracu_email=Use your campus email"`
	Password string `form:"password" validate:"required,min=6" msg:"min=Password needs {param} characters"`
	Kind     string `form:"kind" validate:"oneof=student staff"`
	Seats    int    `form:"seats"`
}

func TestStructOrdersErrorsByDeclaration(t *testing.T) {
	v := New()
	err := v.Struct(signupForm{Email: "x@gmail.com", Password: "123", Kind: "guest"})

	var verrs *Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs.Fields, 3)
	assert.Equal(t, "Use your campus email", verrs.First())
	assert.Equal(t, "Password needs 6 characters", verrs.Fields[1].Message)
	assert.Equal(t, "kind must be one of: student, staff", verrs.Fields[2].Message)
	assert.Contains(t, verrs.Error(), "email: Use your campus email")
}

func TestStructPassesValidForm(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(&signupForm{Email: "x@g.bracu.ac.bd", Password: "123456", Kind: "staff"}))
}

func TestStructRuleReportsThroughMsgTag(t *testing.T) {
	type form struct {
		Kind  string `form:"kind" validate:"required"`
		Seats int    `form:"seats" msg:"seats_range=Seats must be at most {param}"`
	}
	v := New()
	v.RegisterStructRule(func(sl validator.StructLevel) {
		f := sl.Current().Interface().(form)
		if f.Seats > 10 {
			sl.ReportError(f.Seats, "seats", "Seats", "seats_range", "10")
		}
	}, form{})

	err := v.Struct(form{Seats: 11})
	var verrs *Errors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs.Fields, 2)
	assert.Equal(t, "kind is required", verrs.Fields[0].Message)
	assert.Equal(t, "Seats must be at most 10", verrs.Fields[1].Message)
}

func TestFirstOnNil(t *testing.T) {
	var e *Errors
	assert.Equal(t, "", e.First())
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	type form struct {
		Title string `form:"title" validate:"notblank" msg:"notblank=Title is required"`
	}
	err := New().Struct(form{Title: "   "})
	var verrs *Errors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "Title is required", verrs.First())
	assert.NoError(t, New().Struct(form{Title: " x "}))
}

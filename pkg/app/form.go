package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString joins every message for the details line
func (v ValidErrors) ErrorsToString() string {
	return strings.Join(v.Errors(), ", ")
}

// MapsToString returns field → message, the field-keyed error list sent back to clients
func (v ValidErrors) MapsToString() map[string]string {
	out := make(map[string]string, len(v))
	for _, err := range v {
		if _, ok := out[err.Key]; !ok {
			out[err.Key] = err.Message
		}
	}
	return out
}

// BindAndValid binds the request (query, form or json, by method and content type) into v
// and runs the validator, translating messages with the translator set by the lang middleware.
// BindAndValid 绑定并校验参数
func BindAndValid(c *gin.Context, v interface{}) (bool, ValidErrors) {
	var errs ValidErrors

	if err := c.ShouldBind(v); err != nil {
		return false, toValidErrors(c, err)
	}

	return true, errs
}

func toValidErrors(c *gin.Context, err error) ValidErrors {
	var errs ValidErrors

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return errs
	}

	var trans ut.Translator
	if v, exists := c.Get("trans"); exists {
		trans, _ = v.(ut.Translator)
	}

	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: fieldKey(e), Message: msg})
	}
	return errs
}

// fieldKey prefers the json/form tag name registered on the validator, lowercasing the struct field as a last resort.
func fieldKey(e validator.FieldError) string {
	if f := e.Field(); f != "" && f != e.StructField() {
		return f
	}
	return strings.ToLower(e.StructField())
}

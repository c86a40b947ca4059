// Package validator wires go-playground/validator into gin with en/zh translations.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator implements gin's binding.StructValidator.
type CustomValidator struct {
	once     sync.Once
	Validate *validator.Validate
}

func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj interface{}) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.Validate.Struct(obj)
}

func (v *CustomValidator) Engine() interface{} {
	v.lazyinit()
	return v.Validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.Validate = validator.New()
		v.Validate.SetTagName("binding")
		v.Validate.RegisterTagNameFunc(tagName)
		registerCustom(v.Validate)
	})
}

func kindOfData(data interface{}) reflect.Kind {
	value := reflect.ValueOf(data)
	valueType := value.Kind()
	if valueType == reflect.Ptr {
		valueType = value.Elem().Kind()
	}
	return valueType
}

// tagName reports fields under their json name, or form name for form-only structs.
func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

// registerCustom 注册自定义校验
func registerCustom(v *validator.Validate) {
	// notblank: string has something other than whitespace
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

// Enum is a closed set of strings checked under its own tag, e.g. locket_category.
type Enum struct {
	Tag    string
	Values []string
}

func registerEnum(v *validator.Validate, e Enum) error {
	allowed := make(map[string]struct{}, len(e.Values))
	for _, value := range e.Values {
		allowed[value] = struct{}{}
	}
	return v.RegisterValidation(e.Tag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, ok := allowed[s]
		return ok
	})
}

// Install replaces gin's validator and returns a translator set with en and zh registered.
// Empty strings pass an enum tag; pair it with required when the field is mandatory.
func Install(enums ...Enum) (*ut.UniversalTranslator, error) {
	customValidator := NewCustomValidator()
	binding.Validator = customValidator

	validate := customValidator.Engine().(*validator.Validate)
	for _, e := range enums {
		if err := registerEnum(validate, e); err != nil {
			return nil, err
		}
	}

	uni := ut.New(en.New(), en.New(), zh.New())
	enTran, _ := uni.GetTranslator("en")
	zhTran, _ := uni.GetTranslator("zh")

	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}
	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}

	for _, t := range []struct {
		trans ut.Translator
		text  string
	}{
		{enTran, "{0} must not be blank"},
		{zhTran, "{0}不能为空白"},
	} {
		text := t.text
		err := validate.RegisterTranslation("notblank", t.trans, func(ut ut.Translator) error {
			return ut.Add("notblank", text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("notblank", fe.Field())
			return msg
		})
		if err != nil {
			return nil, err
		}
	}

	for _, e := range enums {
		values := strings.Join(e.Values, " ")
		for _, t := range []struct {
			trans ut.Translator
			text  string
		}{
			{enTran, "{0} must be one of [{1}]"},
			{zhTran, "{0}必须是[{1}]中的一个"},
		} {
			text, tag := t.text, e.Tag
			err := validate.RegisterTranslation(tag, t.trans, func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			}, func(ut ut.Translator, fe validator.FieldError) string {
				msg, _ := ut.T(tag, fe.Field(), values)
				return msg
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return uni, nil
}

package validator

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	URL  string `json:"url" binding:"required,url,max=2048"`
	Note string `form:"note" binding:"required,notblank,max=10"`
}

func TestCustomValidator_FieldNamesAndNotBlank(t *testing.T) {
	v := NewCustomValidator()

	err := v.ValidateStruct(&sample{URL: "not a url", Note: "   "})
	require.Error(t, err)

	verrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, "url", fields["url"])
	assert.Equal(t, "notblank", fields["note"])

	assert.NoError(t, v.ValidateStruct(&sample{URL: "https://example.com", Note: "ok"}))
	assert.NoError(t, v.ValidateStruct("not a struct"))
}

func TestInstall_TranslatesCustomTag(t *testing.T) {
	uni, err := Install()
	require.NoError(t, err)

	trans, found := uni.GetTranslator("en")
	require.True(t, found)

	err = binding.Validator.ValidateStruct(&sample{URL: "https://example.com", Note: " "})
	require.Error(t, err)
	for _, fe := range err.(validator.ValidationErrors) {
		assert.Equal(t, "note must not be blank", fe.Translate(trans))
	}
}

type enumSample struct {
	Category string `json:"category" binding:"omitempty,locket_category"`
}

func TestInstall_EnumTag(t *testing.T) {
	uni, err := Install(Enum{Tag: "locket_category", Values: []string{"read", "tools"}})
	require.NoError(t, err)
	trans, _ := uni.GetTranslator("en")

	assert.NoError(t, binding.Validator.ValidateStruct(&enumSample{Category: "tools"}))
	assert.NoError(t, binding.Validator.ValidateStruct(&enumSample{}))

	err = binding.Validator.ValidateStruct(&enumSample{Category: "music"})
	require.Error(t, err)
	for _, fe := range err.(validator.ValidationErrors) {
		assert.Equal(t, "category must be one of [read tools]", fe.Translate(trans))
	}
}

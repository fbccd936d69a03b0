package validation

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/voicenote/errors"
)

var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(configKey)
	return v
})

// configKey names a field by the key it is configured under, so messages
// read "whisper.api_url" style keys rather than Go names.
func configKey(f reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "yaml", "json"} {
		if name, _, _ := strings.Cut(f.Tag.Get(tag), ","); name != "" && name != "-" {
			return name
		}
	}
	return snakeCase(f.Name)
}

// ValidateStruct checks `validate` tags on s and returns an INVALID_INPUT
// AppError listing every failing field.
func ValidateStruct(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors) //nolint:errorlint // validator returns it unwrapped
	if !ok {
		return errors.Validation("validation failed").WithCause(err)
	}
	fields := make([]FieldError, len(verrs))
	for i, e := range verrs {
		fields[i] = FieldError{Field: e.Field(), Message: describe(e)}
	}
	return failure(fields)
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be " + e.Param() + " or more"
	case "lte":
		return "must be " + e.Param() + " or less"
	case "url", "http_url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "is invalid"
}

// snakeCase lowercases a Go identifier, keeping acronyms together:
// APIURL becomes apiurl and SaveAudio becomes save_audio.
func snakeCase(s string) string {
	r := []rune(s)
	var b strings.Builder
	for i, c := range r {
		if i > 0 && unicode.IsUpper(c) && unicode.IsLower(r[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(c))
	}
	return b.String()
}

package middleware

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

var setupValidatorOnce sync.Once

// SetupValidator makes gin's validator name fields after their json (or
// form) tag, so details read "option_ids[1]" rather than "OptionIDs[1]".
func SetupValidator() {
	setupValidatorOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(tagName)
	})
}

func tagName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		switch name {
		case "-":
			return ""
		case "":
			continue
		default:
			return name
		}
	}
	return ""
}

// ValidationDetails turns a binding error into one detail per invalid field.
// It reports false when err is not a validation failure.
func ValidationDetails(err error) ([]dto.ValidationDetail, bool) {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, false
	}

	details := make([]dto.ValidationDetail, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = dto.ValidationDetail{Field: fieldPath(fe), Message: describe(fe)}
	}
	return details, true
}

// fieldPath strips the request struct name: "AddItemBody.option_ids[0]"
// becomes "option_ids[0]"
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}
	return fe.Field()
}

var ruleMessages = map[string]string{
	"required": "This field is required",
	"uuid":     "Invalid UUID format",
	"min":      "Must be at least ",
	"max":      "Must be at most ",
	"gte":      "Must be greater than or equal to ",
	"gt":       "Must be greater than ",
}

func describe(fe validator.FieldError) string {
	msg, ok := ruleMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.HasSuffix(msg, " ") {
		return msg + fe.Param()
	}
	return msg
}

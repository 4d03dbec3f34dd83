package console

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/linesmerrill/dispatch-console/models"
)

// ValidationError lists the form fields that failed validation
type ValidationError struct {
	Message string   `json:"message"`
	Fields  []string `json:"fields"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type formValidator struct {
	v *validator.Validate
}

func newFormValidator() *formValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	err := v.RegisterValidation("tencode", func(fl validator.FieldLevel) bool {
		return models.IsStatusCode(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("console: register tencode validation: %v", err))
	}
	return &formValidator{v: v}
}

// check validates form. Missing required fields are reported with
// requiredMessage; any other failure names the offending fields.
func (f *formValidator) check(form interface{}, requiredMessage string) error {
	err := f.v.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := &ValidationError{}
	missing := false
	for _, fe := range verrs {
		out.Fields = append(out.Fields, fe.Field())
		if fe.Tag() == "required" {
			missing = true
		}
	}
	if missing {
		out.Message = requiredMessage
	} else {
		out.Message = "Invalid value for " + strings.Join(out.Fields, ", ") + "."
	}
	return out
}

var strict = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding are peeled
const maxSanitizePasses = 8

// sanitize strips markup and surrounding space from submitted text.
// Entities are decoded and the result filtered again until nothing changes,
// so encoded tags cannot survive as markup.
func sanitize(s string) string {
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(strict.Sanitize(s))
		if next == s {
			return strings.TrimSpace(s)
		}
		s = next
	}
	// still nested deeper than we are willing to peel
	return ""
}

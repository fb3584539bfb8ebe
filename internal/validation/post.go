// Package validation checks client input at the HTTP boundary.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"portfolio/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidatePostCreate validates the fields of a new post. A non-blank title is required.
func ValidatePostCreate(f models.PostFields) error {
	if f.Title == nil || strings.TrimSpace(*f.Title) == "" {
		return errors.New("title is required")
	}
	return validateFields(f)
}

// ValidatePostUpdate validates a partial edit. At least one field must be supplied
// and supplied fields follow the create rules; the title may be omitted but not blanked.
func ValidatePostUpdate(f models.PostFields) error {
	if f.Empty() {
		return errors.New("post must include at least one field")
	}
	if f.Title != nil && strings.TrimSpace(*f.Title) == "" {
		return errors.New("title cannot be blank")
	}
	return validateFields(f)
}

// ValidateUpload checks the upload variant of a create request.
func ValidateUpload(data, filename string) error {
	if strings.TrimSpace(data) == "" {
		return errors.New("data is required for an image upload")
	}
	if strings.TrimSpace(filename) == "" {
		return errors.New("filename is required for an image upload")
	}
	if len(filename) > 255 {
		return errors.New("filename must be at most 255 characters")
	}
	return nil
}

func validateFields(f models.PostFields) error {
	err := validate.Struct(withoutBlankLinks(f))
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// withoutBlankLinks drops blank link and picture values so they skip the URL
// checks. An empty string still clears the stored value.
func withoutBlankLinks(f models.PostFields) models.PostFields {
	if f.Link != nil && strings.TrimSpace(*f.Link) == "" {
		f.Link = nil
	}
	if f.PictureURI != nil && strings.TrimSpace(*f.PictureURI) == "" {
		f.PictureURI = nil
	}
	return f
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url", "uri":
		return fmt.Sprintf("%s must be a valid URL", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

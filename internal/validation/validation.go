package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"

	requiredText = "{0} is required"
)

// Error is a validation failure on a single field. The message is safe to
// show to the user.
type Error struct {
	Field   string
	Message string
}

func (e Error) Error() string {
	return e.Message
}

// IsValidationError reports whether err wraps a validation Error
func IsValidationError(err error) bool {
	var verr Error
	return errors.As(err, &verr)
}

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	registerTranslation(notBlankTag, notBlankText, false)
	registerTranslation("required", requiredText, true)
}

// registerTranslation registers the message for a validation tag
func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// Struct validates v against its `validate` tags and returns the first
// failure as an Error.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return Error{Field: fe.Field(), Message: fe.Translate(translator)}
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	return Struct(struct {
		Email string `json:"email" validate:"required,email"`
	}{strings.TrimSpace(email)})
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	return Struct(struct {
		Password string `json:"password" validate:"required,min=8"`
	}{password})
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	return Struct(struct {
		Name string `json:"name" validate:"required,notblank,min=2"`
	}{strings.TrimSpace(name)})
}

// ValidateAge checks the participant age range
func ValidateAge(age int) error {
	return Struct(struct {
		Age int `json:"age" validate:"gte=3,lte=18"`
	}{age})
}

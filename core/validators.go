package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	"github.com/pkg/errors"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "este campo no puede estar vacío"

	institutionalTag = "institutional"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "este campo es obligatorio"
)

// Instantiate the validator for use.
func init() {
	Validate = validator.New()

	// Register the spanish error messages for validation errors.
	_es := es.New()
	uni := ut.New(_es, _es)
	Translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use form (or JSON) tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("form")
		if tag == "" || tag == "-" {
			tag = fld.Tag.Get("json")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, notBlankText)

	_ = Validate.RegisterValidation(institutionalTag, institutionalValidation)
	_ = Validate.RegisterTranslation(
		institutionalTag, Translator,
		func(t ut.Translator) error { return t.Add(institutionalTag, "Usa tu correo institucional @{0}", false) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(institutionalTag, Conf.InstitutionalDomain)
			return s
		},
	)

	RegisterCustomTranslation(requiredTag, requiredText, true)
	RegisterCustomTranslation(requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// ValidateStruct runs struct validation and converts failures into a *ValidationError
// carrying translated messages, in field declaration order.
// messages optionally overrides the text reported for a given field.
func ValidateStruct(s interface{}, messages ...map[string]string) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Wrap(err, "validating struct")
	}

	var overrides map[string]string
	if len(messages) > 0 {
		overrides = messages[0]
	}
	flds := make([]FieldError, 0, len(vErrs))
	seen := make(map[string]bool, len(vErrs))
	for _, vErr := range vErrs {
		if seen[vErr.Field()] {
			continue
		}
		seen[vErr.Field()] = true
		msg := vErr.Translate(Translator)
		if m, ok := overrides[vErr.Field()]; ok {
			msg = m
		}
		flds = append(flds, FieldError{Field: vErr.Field(), Error: msg})
	}
	return NewValidationError(errors.New(flds[0].Error), flds...)
}

// Custom Global Validators

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

// institutionalValidation only allows addresses under the configured institutional domain.
func institutionalValidation(fl validator.FieldLevel) bool {
	return IsInstitutionalEmail(fl.Field().String())
}

func IsInstitutionalEmail(email string) bool {
	email = CleanString(email, true /* lower */)
	return Conf.InstitutionalDomain != "" && strings.HasSuffix(email, "@"+Conf.InstitutionalDomain)
}

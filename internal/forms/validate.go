// Package forms validates and submits the login, registration, and school
// management forms. Messages are in Spanish.
package forms

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

var (
	validate   *validator.Validate
	translator ut.Translator
)

// custom validation tags
const (
	dniTag            = "dni"
	passwordMinTag    = "password_min"
	passwordUpperTag  = "password_upper"
	passwordDigitTag  = "password_digit"
	passwordSymbolTag = "password_symbol"
	passwordMatchTag  = "password_match"
	endAfterStartTag  = "end_after_start"
	endTimeTag        = "end_time_after_start"
)

// PasswordMinLength is the shortest accepted password.
const PasswordMinLength = 8

var customMessages = map[string]string{
	"required":        "Este campo es obligatorio",
	"email":           "Ingresa un correo electrónico válido",
	"url":             "Ingresa un enlace válido",
	"datetime":        "Formato de fecha u hora inválido",
	"oneof":           "Selecciona una opción válida",
	dniTag:            "El DNI debe tener exactamente 8 dígitos",
	passwordMinTag:    "La contraseña debe tener al menos 8 caracteres",
	passwordUpperTag:  "La contraseña debe incluir al menos una letra mayúscula",
	passwordDigitTag:  "La contraseña debe incluir al menos un número",
	passwordSymbolTag: "La contraseña debe incluir al menos un carácter especial",
	passwordMatchTag:  "Las contraseñas no coinciden",
	endAfterStartTag:  "La fecha de fin debe ser posterior a la de inicio",
	endTimeTag:        "La hora de fin debe ser posterior a la de inicio",
}

func init() {
	validate = validator.New()

	_es := es.New()
	uni := ut.New(_es, _es)
	translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(validate, translator)

	// Errors are keyed by the JSON field name the backend also uses.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(dniTag, dniValidation)
	validate.RegisterStructValidation(registerStructValidation, RegisterForm{})
	validate.RegisterStructValidation(groupStructValidation, GroupForm{})
	validate.RegisterStructValidation(classStructValidation, ClassForm{})

	for tag, text := range customMessages {
		registerMessage(tag, text)
	}
}

func registerMessage(tag, text string) {
	registerFn := func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}
	translateFn := func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T(fe.Tag())
		if err != nil {
			return fe.Error()
		}
		return msg
	}
	_ = validate.RegisterTranslation(tag, translator, registerFn, translateFn)
}

// FieldErrors maps a JSON field name to its messages.
type FieldErrors map[string][]string

// Add appends a message to field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// First returns the first message of field, or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Fields returns the field names in lexical order.
func (fe FieldErrors) Fields() []string {
	names := make([]string, 0, len(fe))
	for n := range fe {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, n := range fe.Fields() {
		parts = append(parts, n+": "+strings.Join(fe[n], ", "))
	}
	return strings.Join(parts, "; ")
}

// Validate checks a form struct and returns its field errors, or nil.
func Validate(form any) FieldErrors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"form": {err.Error()}}
	}
	fe := make(FieldErrors, len(verrs))
	for _, v := range verrs {
		fe.Add(v.Field(), v.Translate(translator))
	}
	return fe
}

// Custom Validators

func dniValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok || len(s) != 8 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PasswordProblems returns the tags of every password rule pw breaks.
func PasswordProblems(pw string) []string {
	var upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsLetter(r) && !unicode.IsSpace(r):
			symbol = true
		}
	}
	var out []string
	if utf8.RuneCountInString(pw) < PasswordMinLength {
		out = append(out, passwordMinTag)
	}
	if !upper {
		out = append(out, passwordUpperTag)
	}
	if !digit {
		out = append(out, passwordDigitTag)
	}
	if !symbol {
		out = append(out, passwordSymbolTag)
	}
	return out
}

// registerStructValidation reports each broken password rule separately.
func registerStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(RegisterForm)
	if !ok || f.Password == "" {
		return
	}
	for _, tag := range PasswordProblems(f.Password) {
		sl.ReportError(f.Password, "password", "Password", tag, "")
	}
	if f.PasswordConfirmation != f.Password {
		sl.ReportError(f.PasswordConfirmation, "password_confirmation", "PasswordConfirmation", passwordMatchTag, "")
	}
}

func groupStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(GroupForm)
	if !ok || f.StartDate == "" || f.EndDate == "" {
		return
	}
	// ISO dates compare lexically.
	if f.EndDate <= f.StartDate {
		sl.ReportError(f.EndDate, "end_date", "EndDate", endAfterStartTag, "")
	}
}

func classStructValidation(sl validator.StructLevel) {
	f, ok := sl.Current().Interface().(ClassForm)
	if !ok || f.StartTime == "" || f.EndTime == "" {
		return
	}
	start, err1 := time.Parse("15:04", f.StartTime)
	end, err2 := time.Parse("15:04", f.EndTime)
	if err1 != nil || err2 != nil {
		return
	}
	if !end.After(start) {
		sl.ReportError(f.EndTime, "end_time", "EndTime", endTimeTag, "")
	}
}

package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// FieldError una regla que no se cumplió, con el nombre JSON del campo.
type FieldError struct {
	Field string `json:"campo"`
	Tag   string `json:"regla"`
	Param string `json:"parametro,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Reportar el nombre del tag json (producto_id) y no el del campo Go.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = fld.Tag.Get("query")
		}
		return name
	})

	// uuid_string: texto vacío o UUID válido.
	_ = validate.RegisterValidation("uuid_string", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := uuid.Parse(s)
		return err == nil
	})
}

// ValidateStruct valida los tags `validate` del struct. Devuelve nil si no hay errores.
func ValidateStruct(data interface{}) []FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Tag: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.Field(), Tag: e.Tag(), Param: e.Param()})
	}
	return out
}

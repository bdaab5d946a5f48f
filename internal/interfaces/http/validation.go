package http

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(f.Tag.Get("query"), ",", 2)[0]
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validationError errores de validación por campo (ruta JSON → regla incumplida).
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for f, rule := range e.fields {
		parts = append(parts, f+": "+rule)
	}
	slices.Sort(parts)
	return "validación fallida: " + strings.Join(parts, "; ")
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &validationError{fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.fields[fieldPath(fe.Namespace())] = ruleMessage(fe)
	}
	return out
}

// fieldPath quita el nombre del struct raíz: "CreateFranchiseRequest.branches[0].name" → "branches[0].name".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "es requerido y no puede estar vacío"
	case "min":
		return "debe ser mayor o igual a " + fe.Param()
	case "max":
		return "excede el máximo de " + fe.Param()
	default:
		return "no cumple la regla " + fe.Tag()
	}
}

// bindJSON decodifica y valida el cuerpo. Devuelve la respuesta de error ya escrita si falla.
func bindJSON(c *fiber.Ctx, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, invalidBody(c)
	}
	if err := validateStruct(dst); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}

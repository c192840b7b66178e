package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	RegisterCustomValidations(validate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Fields lists the failing field/tag pairs of a validation error, for the
// error body. Nil when err is not a validation error.
func Fields(err error) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Namespace()] = fe.Tag()
	}
	return out
}

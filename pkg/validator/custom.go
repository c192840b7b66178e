package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"lapor/internal/domain"
)

func RegisterCustomValidations(validate *validator.Validate) {
	validate.RegisterValidation("lat", validateLat)
	validate.RegisterValidation("lng", validateLng)
	validate.RegisterValidation("notblank", validateNotBlank)
	validate.RegisterValidation("report_category", validateReportCategory)
	validate.RegisterValidation("suggestion_category", validateSuggestionCategory)
	validate.RegisterValidation("role", validateRole)
	validate.RegisterValidation("role_filter", validateRoleFilter)
	validate.RegisterValidation("phone", validatePhone)
}

func validateLat(fl validator.FieldLevel) bool {
	lat := fl.Field().Float()
	return lat >= -90.0 && lat <= 90.0
}

func validateLng(fl validator.FieldLevel) bool {
	lng := fl.Field().Float()
	return lng >= -180.0 && lng <= 180.0
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateReportCategory(fl validator.FieldLevel) bool {
	v := domain.ReportCategory(fl.Field().String())
	for _, c := range domain.ReportCategories {
		if c == v {
			return true
		}
	}
	return false
}

func validateSuggestionCategory(fl validator.FieldLevel) bool {
	v := domain.SuggestionCategory(fl.Field().String())
	for _, c := range domain.SuggestionCategories {
		if c == v {
			return true
		}
	}
	return false
}

func validateRole(fl validator.FieldLevel) bool {
	return domain.Role(fl.Field().String()).Valid()
}

func validateRoleFilter(fl validator.FieldLevel) bool {
	v := fl.Field().String()
	return v == domain.FilterAll || domain.Role(v).Valid()
}

// Indonesian mobile numbers: 08.., 628.. or +628.., spaces and dashes ignored.
var phonePattern = regexp.MustCompile(`^(0|\+?62)[0-9]{8,13}$`)

var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

func validatePhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(phoneSeparators.Replace(fl.Field().String()))
}

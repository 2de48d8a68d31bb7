package dto

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/trend-blog/internal/auth"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// Permissive on purpose; definitive uniqueness lives in the store.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("email_format", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password_complexity", func(fl validator.FieldLevel) bool {
		return auth.ValidPasswordComplexity(fl.Field().String())
	})
	return v
}

// Validate checks a request struct and maps the first violation to a
// localized ValidationError.
func Validate(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}

	switch verrs[0].Tag() {
	case "required":
		return apperrors.NewValidationError("필수 항목이 누락되었습니다.")
	case "email_format":
		return apperrors.NewValidationError("이메일 형식이 올바르지 않습니다.")
	case "password_complexity":
		return apperrors.NewValidationError("비밀번호는 8자 이상이며 대문자, 소문자, 숫자를 포함해야 합니다.")
	default:
		return apperrors.NewValidationError("요청 형식이 올바르지 않습니다.")
	}
}

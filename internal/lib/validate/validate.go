// Package validate настраивает валидатор входящих запросов
// с дополнительными правилами "phone" и "password".
package validate

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-tracker/internal/lib/password"
)

var phoneRe = regexp.MustCompile(`^\+?[\d\s\-]+$`)

// New возвращает валидатор с зарегистрированными правилами сервиса.
func New() *validator.Validate {
	v := validator.New()
	// В сообщениях об ошибках поля называются так же, как в JSON.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Ошибки регистрации возможны только при пустом имени тега.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return password.CheckComplexity(fl.Field().String()) == nil
	})
	return v
}

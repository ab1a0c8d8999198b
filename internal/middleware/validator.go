package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9가-힣_]+$`)

// RegisterValidations 向 gin 的 binding 校验器注册自定义规则
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	// nickname: 字母/数字/韩文/下划线
	return v.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
		return nicknamePattern.MatchString(fl.Field().String())
	})
}

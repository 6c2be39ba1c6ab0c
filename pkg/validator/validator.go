package validator

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

// gin binding校验器的本地化翻译

var (
	once  sync.Once
	trans ut.Translator
)

// LazyInitGinValidator 按配置语言初始化gin的校验错误翻译器
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		enLoc := en.New()
		zhLoc := zh.New()
		uni := ut.New(enLoc, enLoc, zhLoc)

		switch language {
		case "zh":
			trans, _ = uni.GetTranslator("zh")
			_ = zhTranslations.RegisterDefaultTranslations(v, trans)
		default:
			trans, _ = uni.GetTranslator("en")
			_ = enTranslations.RegisterDefaultTranslations(v, trans)
		}
	})
}

// Translate 把校验错误翻译成单行提示
func Translate(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Translate(trans))
	}
	return strings.Join(parts, "; ")
}

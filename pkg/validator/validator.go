package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
	"scrobblex/pkg/logger"
)

var (
	once  sync.Once
	trans ut.Translator
)

// LazyInitGinValidator 替换 gin 默认校验器的翻译和字段名，language 为 zh 或 en
func LazyInitGinValidator(language string) {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// 错误信息里使用 json tag 作为字段名
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("side", validateSide)

		uni := ut.New(en.New(), en.New(), zh.New())
		var found bool
		trans, found = uni.GetTranslator(language)
		if !found {
			trans, _ = uni.GetTranslator("en")
		}

		var err error
		switch language {
		case "zh":
			err = zhTranslations.RegisterDefaultTranslations(v, trans)
		default:
			err = enTranslations.RegisterDefaultTranslations(v, trans)
		}
		if err != nil {
			logger.Errorf("register validator translations: %v", err)
		}
	})
}

// 交易方向只接受 buy / sell
func validateSide(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "buy", "sell":
		return true
	}
	return false
}

// Translate 把校验错误翻译成一条可读的提示，非校验错误原样返回
func Translate(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || trans == nil {
		return err.Error()
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Translate(trans))
	}
	return strings.Join(msgs, "; ")
}

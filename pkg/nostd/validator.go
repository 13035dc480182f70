package nostd

import (
	"errors"

	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zhTranslations "github.com/go-playground/validator/v10/translations/zh"
)

// CustomValidator echo请求参数校验器，错误信息经过翻译
type CustomValidator struct {
	Validator *validator.Validate
	trans     ut.Translator
}

// TransInit 初始化翻译器
func (cv *CustomValidator) TransInit() error {
	zhLocale := zh.New()
	uni := ut.New(zhLocale, zhLocale)
	trans, ok := uni.GetTranslator("zh")
	if !ok {
		return errors.New("translator not found")
	}
	cv.trans = trans
	return zhTranslations.RegisterDefaultTranslations(cv.Validator, trans)
}

// Validate 实现 echo.Validator 接口
func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.Validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && cv.trans != nil {
		for _, e := range verrs {
			return errors.New(e.Translate(cv.trans))
		}
	}
	return err
}

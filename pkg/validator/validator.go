// Package validator plugs go-playground/validator into gin binding and adds
// the tags used by request DTOs.
package validator

import (
	"reflect"
	"strings"
	"sync"

	"github.com/haierkeys/fast-note-pdf-link-service/pkg/pdflink"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements binding.StructValidator.
type CustomValidator struct {
	once     sync.Once
	validate *validator.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator 创建验证器
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

func (v *CustomValidator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	if reflect.Indirect(reflect.ValueOf(obj)).Kind() != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
		registerTags(v.validate)
	})
}

// RegisterCustom registers the custom tags on gin's active validator engine.
// 在 gin 当前使用的验证器上注册自定义规则
func RegisterCustom() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		registerTags(v)
	}
}

func registerTags(v *validator.Validate) {
	// pdfpayload: an encoded link payload shape (alphabet and checksum suffix).
	_ = v.RegisterValidation("pdfpayload", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if pdflink.Checksum(s) == "" {
			return false
		}
		return strings.IndexFunc(s, func(r rune) bool { return !pdflink.IsEncodedChar(r) }) < 0
	})
	// bookmarkcolor: empty or a #rgb / #rrggbb color.
	_ = v.RegisterValidation("bookmarkcolor", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || pdflink.IsHexColor(s)
	})
	// noteformat: one of the stored note formats, or empty for the default.
	_ = v.RegisterValidation("noteformat", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "", "html", "json", "markdown":
			return true
		}
		return false
	})
}

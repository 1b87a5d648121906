package validator

import (
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/filmgraph/internal/model"
)

var once sync.Once

// Register 向 gin 的校验引擎注册自定义规则，重复调用无副作用
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		register(v)
	})
}

func register(v *validator.Validate) {
	v.RegisterCustomTypeFunc(dateValue, model.Date{})
	_ = v.RegisterValidation("releasedate", releaseDate)
	_ = v.RegisterValidation("pastdate", pastDate)
	_ = v.RegisterValidation("nowhitespace", noWhitespace)
	_ = v.RegisterValidation("notblank", notBlank)
}

// dateValue 零值日期视为空串，让 required 生效
func dateValue(field reflect.Value) any {
	d, ok := field.Interface().(model.Date)
	if !ok || d.IsZero() {
		return ""
	}
	return d.String()
}

func parseField(fl validator.FieldLevel) (model.Date, bool) {
	s, ok := fl.Field().Interface().(string)
	if !ok || s == "" {
		return model.Date{}, false
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, false
	}
	return d, true
}

func releaseDate(fl validator.FieldLevel) bool {
	d, ok := parseField(fl)
	return ok && d.After(model.MinReleaseDate.Time)
}

func pastDate(fl validator.FieldLevel) bool {
	d, ok := parseField(fl)
	return ok && d.Before(time.Now().UTC())
}

func noWhitespace(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

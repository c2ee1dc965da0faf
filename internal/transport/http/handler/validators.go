package handler

import (
	"regexp"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// parallel is a single uppercase Cyrillic letter, e.g. "А" in "10А".
var parallelRe = regexp.MustCompile(`^[А-Я]$`)

func init() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		var digit, upper, lower bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsDigit(r):
				digit = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			}
		}
		return digit && upper && lower
	})
	_ = v.RegisterValidation("parallel", func(fl validator.FieldLevel) bool {
		return parallelRe.MatchString(fl.Field().String())
	})
}

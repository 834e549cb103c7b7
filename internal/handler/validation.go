package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/hrtools/rptracker/internal/expiry"
)

// RegisterValidations installs the custom binding rules; call once at startup.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("rpdate", func(fl validator.FieldLevel) bool {
			_, err := expiry.ParseDate(fl.Field().String())
			return err == nil
		})
	}
}

package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	errorvalues "github.com/limbo/habitlens/internal/error_values"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Reminder time in 24h HH:MM form
		validate.RegisterValidation("clock_time", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) != 5 {
				return false
			}
			_, err := time.Parse("15:04", value)
			return err == nil
		})
	})
}

func validateStruct(s any) error {
	InitValidator()
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		err = errorvalues.ErrValidation
		for _, fieldErr := range validationErrors {
			err = errors.Join(err, fieldErr)
		}
		return err
	}
	return errors.New("validation unexpected error: " + err.Error())
}

// ValidateQuestion trims q and checks it is non-empty and at most maxLen characters long.
func ValidateQuestion(q string, maxLen int) (string, error) {
	InitValidator()
	q = strings.TrimSpace(q)
	if err := validate.Var(q, "required,max="+strconv.Itoa(maxLen)); err != nil {
		return "", fmt.Errorf("%w: question must contain 1 to %d characters", errorvalues.ErrInvalidQuestion, maxLen)
	}
	return q, nil
}

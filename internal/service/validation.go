package service

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/community_scheduler/internal/model"
	"github.com/Freeeeeet/community_scheduler/internal/moderation"
	"github.com/go-playground/validator/v10"
)

// validationError переводит ошибку валидатора в доменную.
// Нарушение модерации всегда ErrInappropriateContent, остальное оборачивается в fallback.
func validationError(err error, fallback error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", fallback, err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == moderation.Tag {
			return fmt.Errorf("%w: field %s", model.ErrInappropriateContent, fe.Field())
		}
	}

	fe := fieldErrs[0]
	return fmt.Errorf("%w: field %s failed %q", fallback, fe.Field(), fe.Tag())
}

package service

import (
	"fmt"
	"strings"

	"github.com/GTDGit/inventory_api/internal/utils"
)

// patch overwrites *dst when v is set.
func patch[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return utils.BadRequest(field + " is required")
	}
	return nil
}

func requireID(field string, id int) error {
	if id < 1 {
		return utils.BadRequest(field + " is required")
	}
	return nil
}

func requirePositive(field string, n int) error {
	if n <= 0 {
		return utils.BadRequest(field + " must be greater than zero")
	}
	return nil
}

func requireNonNegative(field string, n int) error {
	if n < 0 {
		return utils.BadRequest(field + " must not be negative")
	}
	return nil
}

func invalidStatus(value string) error {
	return utils.BadRequest(fmt.Sprintf("invalid status %q", value))
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/yeremiapane/tableorder/utils"
)

// translate maps gorm failures onto the service error taxonomy. Anything the
// store cannot explain is reported as StoreUnavailable so callers may retry.
func translate(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	what := fmt.Sprintf(format, args...)

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, utils.ErrConflict)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w", what, err)
	case utils.ErrorCode(err) != "INTERNAL":
		return err
	default:
		return fmt.Errorf("%s: %w: %v", what, utils.ErrStoreUnavailable, err)
	}
}

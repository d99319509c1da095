package validators

import (
	"strconv"
	"strings"

	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
)

// ParseID parses a positive numeric path identifier.
func ParseID(raw, field string) (int64, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || value <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid "+field).WithDetails(map[string]any{"field": field})
	}
	return value, nil
}

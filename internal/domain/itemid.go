package domain

import (
	"errors"
	"fmt"
	"strings"
)

// MaxItemIDLen bounds item ids so they fit the store's key columns.
const MaxItemIDLen = 200

var ErrInvalidItemID = errors.New("invalid item id")

// ValidateItemID rejects ids that cannot address a stored record.
func ValidateItemID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidItemID)
	case strings.TrimSpace(id) != id:
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidItemID, id)
	case strings.Contains(id, "/"):
		return fmt.Errorf("%w: %q contains '/'", ErrInvalidItemID, id)
	case len(id) > MaxItemIDLen:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidItemID, MaxItemIDLen)
	}
	return nil
}

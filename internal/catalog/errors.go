package catalog

import (
	"fmt"

	"github.com/animevault/animevault-server/internal/domain"
)

// Error wraps a domain error with the catalog operation that produced it.
// errors.Is against the apperrors sentinels sees through it.
type Error struct {
	Op   string // search, getByID, topRated, seasonal, recommended, random
	Kind domain.Kind
	ID   int // set for getByID
	Err  error
}

func (e *Error) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("catalog %s [%s/%d]: %v", e.Op, e.Kind, e.ID, e.Err)
	}
	return fmt.Sprintf("catalog %s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, kind domain.Kind, id int, err error) error {
	return &Error{
		Op:   op,
		Kind: kind,
		ID:   id,
		Err:  err,
	}
}

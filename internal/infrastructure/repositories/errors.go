package repositories

import (
	"errors"

	"github.com/lib/pq"
)

const (
	pqUniqueViolation    = "23505"
	pqExclusionViolation = "23P01"
)

// constraintViolation reports whether err is a postgres error of the given class
// raised by the named constraint or index.
func constraintViolation(err error, code pq.ErrorCode, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == code && pqErr.Constraint == constraint
}

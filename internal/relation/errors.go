package relation

import "github.com/foodgram/backend/internal/database"

// translate maps store constraint violations onto relation errors. It returns
// nil for anything that is not a recognised violation.
func translate(err error) error {
	switch database.ClassifyViolation(err) {
	case database.UniqueViolation:
		return ErrDuplicateEdge
	case database.CheckViolation:
		return ErrSelfReference
	case database.ForeignKeyViolation:
		return ErrTargetGone
	}
	return nil
}

package database

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// Violation classifies a constraint failure reported by either dialect.
type Violation int

const (
	NoViolation Violation = iota
	UniqueViolation
	CheckViolation
	ForeignKeyViolation
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// ClassifyViolation inspects a write error from postgres (lib/pq) or sqlite.
func ClassifyViolation(err error) Violation {
	if err == nil {
		return NoViolation
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return UniqueViolation
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case pgUniqueViolation:
			return UniqueViolation
		case pgCheckViolation:
			return CheckViolation
		case pgForeignKeyViolation:
			return ForeignKeyViolation
		}
		return NoViolation
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return UniqueViolation
		case sqlite3.ErrConstraintCheck:
			return CheckViolation
		case sqlite3.ErrConstraintForeignKey:
			return ForeignKeyViolation
		}
	}
	return NoViolation
}

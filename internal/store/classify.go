package store

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// ViolationKind classifies a per-record store rejection. Everything outside
// these categories is treated as an unknown failure and propagates.
type ViolationKind int

const (
	ViolationNone ViolationKind = iota
	// ViolationInsufficient is a business-rule check failure, e.g. a stock
	// trigger rejecting a sale for a depleted inventory row.
	ViolationInsufficient
	// ViolationUnique is a uniqueness-constraint failure.
	ViolationUnique
	// ViolationOverlap is a temporal-overlap (exclusion) failure.
	ViolationOverlap
	ViolationUnknown
)

func (k ViolationKind) String() string {
	switch k {
	case ViolationInsufficient:
		return "insufficient-resource"
	case ViolationUnique:
		return "uniqueness"
	case ViolationOverlap:
		return "temporal-overlap"
	case ViolationNone:
		return "none"
	default:
		return "unknown"
	}
}

// Classify maps a driver error onto the violation taxonomy. SQLSTATE codes
// cover postgres via both pgx and lib/pq; mysql and sqlite use their
// driver-native numeric codes.
func Classify(err error) ViolationKind {
	if err == nil {
		return ViolationNone
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return classifySQLState(pgErr.Code)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return classifySQLState(string(pqErr.Code))
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062: // ER_DUP_ENTRY
			return ViolationUnique
		case 3819, 1452, 1644: // check violation, FK failure, signalled trigger
			return ViolationInsufficient
		}
		return ViolationUnknown
	}

	var sqErr sqlite3.Error
	if errors.As(err, &sqErr) {
		switch sqErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return ViolationUnique
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintTrigger, sqlite3.ErrConstraintForeignKey:
			return ViolationInsufficient
		}
		if sqErr.Code == sqlite3.ErrConstraint {
			return ViolationInsufficient
		}
		return ViolationUnknown
	}

	// Raised stock triggers surface as plain errors on some paths.
	if strings.Contains(strings.ToLower(err.Error()), "not enough stock") {
		return ViolationInsufficient
	}

	return ViolationUnknown
}

func classifySQLState(code string) ViolationKind {
	switch code {
	case "23505": // unique_violation
		return ViolationUnique
	case "23P01": // exclusion_violation
		return ViolationOverlap
	case "23514", "23503", "P0001": // check, foreign key, raise_exception
		return ViolationInsufficient
	}
	return ViolationUnknown
}

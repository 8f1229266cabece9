package crud

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/simp-lee/fieldops/internal/domain"
)

// PostgreSQL SQLSTATE codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

const (
	relatedRecordsMessage   = "Operation conflicts with related records"
	unexpectedDBMessage     = "An unexpected database error occurred"
	recordNotFoundMessage   = "Record not found"
	uniqueViolationTemplate = "Unique constraint violation on field(s): "
)

// queryShapeErrors are GORM errors raised for a malformed query or model
// rather than a failure of the database itself.
var queryShapeErrors = []error{
	gorm.ErrInvalidData,
	gorm.ErrInvalidField,
	gorm.ErrInvalidValue,
	gorm.ErrInvalidValueOfLength,
	gorm.ErrMissingWhereClause,
	gorm.ErrPrimaryKeyRequired,
	gorm.ErrModelValueRequired,
	gorm.ErrModelAccessibleFieldsRequired,
	gorm.ErrUnsupportedRelation,
	gorm.ErrNotImplemented,
	gorm.ErrUnsupportedDriver,
	gorm.ErrInvalidTransaction,
	gorm.ErrEmptySlice,
}

var (
	// Key (email)=(a@b.c) already exists.
	pgKeyDetail = regexp.MustCompile(`Key \(([^)]+)\)=`)
	// UNIQUE constraint failed: customers.email, customers.name
	sqliteUnique = regexp.MustCompile(`(?i)UNIQUE constraint failed: ([^(\n]+)`)
)

// TranslateError converts a persistence error into a domain error.
//
// A domain error (possibly wrapped) is returned as is, so translation can be
// applied more than once. Every other error is wrapped exactly once with the
// original kept as the cause.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if de, ok := domain.AsDomainError(err); ok {
		return de
	}

	if fields, ok := uniqueViolation(err); ok {
		opts := []domain.ErrorOption{domain.WithCause(err)}
		message := strings.TrimSpace(uniqueViolationTemplate)
		if len(fields) > 0 {
			message = uniqueViolationTemplate + strings.Join(fields, ", ")
			opts = append(opts, domain.WithMeta("target", fields))
		}
		return domain.NewConflictError(message, opts...)
	}

	if isForeignKeyViolation(err) {
		return domain.NewConflictError(relatedRecordsMessage, domain.WithCause(err))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.NewNotFoundError(recordNotFoundMessage, domain.WithCause(err))
	}

	for _, shapeErr := range queryShapeErrors {
		if errors.Is(err, shapeErr) {
			return domain.NewDatabaseError("Invalid query: "+err.Error(), domain.WithCause(err))
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return domain.NewDatabaseError("Database error: "+pgErr.Message, domain.WithCause(err))
	}

	return domain.NewDatabaseError(unexpectedDBMessage, domain.WithCause(err))
}

// uniqueViolation reports whether err is a unique constraint violation and
// returns the offending fields when the driver exposes them.
func uniqueViolation(err error) ([]string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return nil, false
		}
		if pgErr.ColumnName != "" {
			return []string{pgErr.ColumnName}, true
		}
		if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
			return splitFields(m[1]), true
		}
		if pgErr.ConstraintName != "" {
			return []string{pgErr.ConstraintName}, true
		}
		return nil, true
	}

	// Not all dialectors translate driver errors (the pure-Go SQLite driver
	// does not), so fall back to the message.
	msg := err.Error()
	if m := sqliteUnique.FindStringSubmatch(msg); m != nil {
		return splitFields(m[1]), true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, true
	}
	lower := strings.ToLower(msg)
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "duplicate entry") {
		return nil, true
	}
	return nil, false
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint failed")
}

// splitFields turns "customers.email, customers.name" or "email, name" into
// ["email", "name"].
func splitFields(list string) []string {
	parts := strings.Split(list, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if i := strings.LastIndex(p, "."); i >= 0 {
			p = p[i+1:]
		}
		if p != "" {
			fields = append(fields, p)
		}
	}
	return fields
}

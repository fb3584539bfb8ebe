package database

import (
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"gorm.io/gorm"
)

// ErrorKind is a coarse, driver-independent classification of a store error.
type ErrorKind string

const (
	KindNone         ErrorKind = ""
	KindNotFound     ErrorKind = "not_found"
	KindConnection   ErrorKind = "connection"
	KindMissingTable ErrorKind = "missing_table"
	KindConstraint   ErrorKind = "constraint"
	KindTimeout      ErrorKind = "timeout"
	KindUnknown      ErrorKind = "unknown"
)

// Classify maps a driver error onto an ErrorKind for logging and readiness decisions.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return KindNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "42P01" || pgErr.Code == "3F000":
			return KindMissingTable
		case strings.HasPrefix(pgErr.Code, "08"):
			return KindConnection
		case strings.HasPrefix(pgErr.Code, "23"):
			return KindConstraint
		case pgErr.Code == "57014":
			return KindTimeout
		}
		return KindUnknown
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return KindConnection
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1146, 1049:
			return KindMissingTable
		case 1040, 1045, 1044, 2002, 2003, 2006, 2013:
			return KindConnection
		case 1062, 1451, 1452, 1048:
			return KindConstraint
		case 3024:
			return KindTimeout
		}
		return KindUnknown
	}
	if errors.Is(err, mysql.ErrInvalidConn) || errors.Is(err, driver.ErrBadConn) {
		return KindConnection
	}

	if mongo.IsTimeout(err) {
		return KindTimeout
	}
	if mongo.IsNetworkError(err) {
		return KindConnection
	}
	if mongo.IsDuplicateKeyError(err) {
		return KindConstraint
	}

	// SQLite reports through plain error strings.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "no such table"):
		return KindMissingTable
	case strings.Contains(msg, "constraint failed"):
		return KindConstraint
	}
	return KindUnknown
}

// IsMissingTable reports whether err means the posts table or schema does not exist.
func IsMissingTable(err error) bool {
	return Classify(err) == KindMissingTable
}

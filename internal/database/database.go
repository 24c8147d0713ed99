package database

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"time"

	"github.com/lib/pq"
)

// DB struct represents the database connection
type DB struct {
	*sql.DB
}

// NewDB creates a new database connection
func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err = db.Ping(); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

// IsConnError reports whether err means the database itself is gone
// rather than a statement having failed. Connection-class errors abort
// the whole run; everything else is handled per item.
func IsConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08 = connection exception, 57 = operator intervention
		// (e.g. admin_shutdown on a dropped server).
		class := pqErr.Code.Class()
		return class == "08" || class == "57"
	}
	return false
}

// IsConstraintError reports whether err is an integrity constraint
// violation (SQLSTATE class 23).
func IsConstraintError(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == "23"
	}
	return false
}

// Package errors pkg/db/errors.go provides errors for the db package.

package db

import "errors"

var (
	// Core database errors.

	ErrDatabaseError = errors.New("database error")
	ErrNotFound      = errors.New("record not found")

	// Operation errors.

	ErrFailedToClean     = errors.New("failed to clean")
	ErrFailedToScan      = errors.New("failed to scan")
	ErrFailedToQuery     = errors.New("failed to query")
	ErrFailedToInsert    = errors.New("failed to insert")
	ErrFailedToInit      = errors.New("failed to initialize schema")
	ErrFailedToEnableWAL = errors.New("failed to enable WAL mode")
	ErrFailedOpenDB      = errors.New("failed to open database")
)

package storage

import "errors"

var (
	// ErrNotInitialized is returned when the store is used before Init
	ErrNotInitialized = errors.New("storage: store not initialized")

	// ErrTransaction is returned when a save transaction cannot be opened or committed
	ErrTransaction = errors.New("storage: transaction error")

	// ErrBuildQuery is returned when a query cannot be built
	ErrBuildQuery = errors.New("storage: failed to build query")

	// ErrExecQuery is returned when a query fails
	ErrExecQuery = errors.New("storage: failed to execute query")

	// ErrScanRow is returned when a result row cannot be read
	ErrScanRow = errors.New("storage: failed to scan row")

	// ErrInvalidConnectionString is returned for unparsable PostgreSQL connection strings
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")

	// ErrEmbeddedCredentials is returned when a PostgreSQL connection string carries a password
	ErrEmbeddedCredentials = errors.New("connection string must not contain a password")
)

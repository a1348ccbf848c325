package database

import "time"

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 2

	// ConnectRetryAttempts bounds the initial connection retry loop
	ConnectRetryAttempts = 5

	// ConnectRetryBackoff is the fixed delay between connection attempts
	ConnectRetryBackoff = 3 * time.Second
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to run migrations"
)

// Log Messages
const (
	LogMsgConnectedToDatabase = "Successfully connected to the database"
	LogMsgDatabasePingFailed  = "Database ping failed, retrying"
	LogMsgMigrationsApplied   = "Database migrations applied"
)

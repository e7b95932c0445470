package repository

import "errors"

// ErrDBNotReady is returned when a repository was built without a database handle.
var ErrDBNotReady = errors.New("database not initialized")

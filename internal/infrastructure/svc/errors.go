package svc

import "errors"

// ErrStorageInitFailed wraps relational sink initialization failures.
var ErrStorageInitFailed = errors.New("storage initialization failed")

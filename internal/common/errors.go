package common

import "errors"

// ErrRecordNotFound is returned by any model read whose id does not resolve.
var ErrRecordNotFound = errors.New("record not found")

// ErrEditConflict is returned when an optimistic-lock update finds the row's
// version changed since it was read.
var ErrEditConflict = errors.New("edit conflict")

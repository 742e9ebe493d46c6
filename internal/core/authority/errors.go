package authority

import "errors"

// ErrNotFound is returned by Repository.Get when no record exists for a URL.
var ErrNotFound = errors.New("authority record not found")

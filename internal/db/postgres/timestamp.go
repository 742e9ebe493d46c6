package postgres

import "time"

// timestampLayout is the text format of created_at: local time, microsecond
// precision, no zone.
const timestampLayout = "2006-01-02T15:04:05.000000"

// nowFunc is replaced in tests.
var nowFunc = time.Now

func timestamp() string {
	return nowFunc().Format(timestampLayout)
}

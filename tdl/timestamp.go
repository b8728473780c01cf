package tdl

import "time"

// Timestamp is a point in time in microseconds since the Unix epoch.
type Timestamp int64

// Never is the deletion time of an object that is not deleted.
const Never Timestamp = -1

// TimestampOf converts t to microsecond precision.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.UnixMicro())
}

// Time converts ts back to a time.Time. Never converts to the zero time.
func (ts Timestamp) Time() time.Time {
	if ts == Never {
		return time.Time{}
	}
	return time.UnixMicro(int64(ts))
}

// Seconds returns ts as fractional seconds since the epoch.
func (ts Timestamp) Seconds() float64 {
	return float64(ts) / 1e6
}

// IsNever reports whether ts is the Never sentinel.
func (ts Timestamp) IsNever() bool {
	return ts == Never
}

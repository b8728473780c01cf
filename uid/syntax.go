package uid

import (
	"errors"
	"strconv"
	"strings"
)

// Prefix introduces the escape syntax that addresses an object by identifier,
// e.g. "uid=42".
const Prefix = "uid="

// ErrSyntax indicates a string that looks like uid=N but is not a positive,
// decimal integer.
var ErrSyntax = errors.New(`illegal "uid" syntax. Correct syntax: uid=N where N is a positive, decimal integer`)

// Parse interprets candidate as uid=N.
//
// It returns ok=false when candidate is not written in the uid syntax at all
// (so it should be treated as a name), and ErrSyntax when it is written in
// the syntax but N is not a positive decimal integer.
func Parse(candidate string) (UID, bool, error) {
	if !HasPrefix(candidate) || strings.Count(candidate, "=") != 1 {
		return None, false, nil
	}

	rhs := candidate[len(Prefix):]
	n, err := strconv.ParseInt(rhs, 10, 64)
	if err != nil || n < int64(Min) {
		return None, true, ErrSyntax
	}
	return UID(n), true, nil
}

// HasPrefix reports whether name begins with the uid= escape, ignoring case.
// Display names must not, or they could never be addressed by name.
func HasPrefix(name string) bool {
	return len(name) >= len(Prefix) && strings.EqualFold(name[:len(Prefix)], Prefix)
}

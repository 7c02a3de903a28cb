package ufcdata

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a fighter or fight id is not in the
	// documents.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned when a document cannot be fetched or decoded.
	ErrUnavailable = errors.New("data unavailable")
)

// Error carries the failing operation and its parameters.
type Error struct {
	Op      string
	Err     error
	Context map[string]any
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ufcdata: ")
	b.WriteString(e.Op)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, err error, kv ...any) *Error {
	e := &Error{Op: op, Err: err}
	if len(kv) > 0 {
		e.Context = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			e.Context[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return e
}

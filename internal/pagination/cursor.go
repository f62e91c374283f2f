// Package pagination provides opaque cursors for keyset pagination over
// run listings. A cursor encodes the (started_at, id) sort key of the last
// item on a page, so the next page can resume after it without OFFSET scans.
package pagination

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCursor reports a cursor string that did not come from Encode.
var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a decoded position in a run listing ordered by
// (started_at DESC, id DESC).
type Cursor struct {
	StartedAt time.Time
	ID        string
}

// Encode returns an opaque cursor for the run with the given sort key.
// The ID disambiguates runs that started in the same nanosecond.
func Encode(startedAt time.Time, id string) string {
	raw := fmt.Sprintf("%d|%s", startedAt.UnixNano(), id)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

// Decode parses an opaque cursor string. Returns nil for empty input, so
// callers can pass a query parameter straight through.
func Decode(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	nanosStr, id, found := strings.Cut(string(raw), "|")
	if !found {
		return nil, ErrInvalidCursor
	}
	nanos, err := strconv.ParseInt(nanosStr, 10, 64)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{
		StartedAt: time.Unix(0, nanos).UTC(),
		ID:        id,
	}, nil
}

// ComputePage trims a limit+1 fetch down to one page. sortKey extracts the
// (started_at, id) key of an item. Returns the page, the cursor for the next
// page, and whether more items remain.
func ComputePage[T any](items []T, limit int, sortKey func(T) (time.Time, string)) ([]T, string, bool) {
	if len(items) <= limit {
		return items, "", false
	}
	items = items[:limit]
	startedAt, id := sortKey(items[len(items)-1])
	return items, Encode(startedAt, id), true
}

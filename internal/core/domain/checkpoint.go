package domain

import (
	"fmt"
	"strconv"
)

// Persisted state keys. A checkpoint value denotes "everything strictly
// before this position has been durably applied"; it never advances past a
// unit whose side effect has not been confirmed.
const (
	// KeyPullCursor holds the opaque page token for the next page the
	// puller should fetch. Absent means start from the beginning.
	KeyPullCursor = "pull_cursor"

	// KeyPushIndex holds the mirror ordinal of the next candidate the
	// pusher should attempt. Absent means start at zero.
	KeyPushIndex = "push_index"

	// KeyMirrorID names the spreadsheet a pusher job targets.
	KeyMirrorID = "mirror_id"
)

// ParsePushIndex decodes a persisted push index value.
func ParsePushIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: push index %q", ErrInvalidInput, s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative push index %d", ErrInvalidInput, n)
	}
	return n, nil
}

// FormatPushIndex encodes a push index for persistence.
func FormatPushIndex(n int) string {
	return strconv.Itoa(n)
}

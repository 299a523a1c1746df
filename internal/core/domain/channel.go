package domain

import "strings"

// channelIDPrefix is the prefix YouTube assigns to channel identifiers.
const channelIDPrefix = "UC"

// channelURLBase is the canonical channel URL prefix.
const channelURLBase = "https://www.youtube.com/channel/"

// Channel is one row of the mirror: a channel identifier with its display
// name and canonical URL. Written by the puller, read by the pusher.
type Channel struct {
	// ID is the stable channel identifier (UC-prefixed).
	ID string

	// Title is the channel's display name at mirror time.
	Title string

	// URL is the canonical channel URL.
	URL string
}

// Candidate is one mirror row awaiting reconciliation by the pusher.
type Candidate struct {
	// ID is the channel identifier to subscribe to.
	ID string

	// Position is the candidate's ordinal position in the mirror.
	// Insertion order in the mirror defines this index.
	Position int
}

// IsChannelID reports whether s looks like a valid channel identifier.
// YouTube channel IDs are 24 characters starting with "UC"; rows that fail
// the prefix check are skipped rather than sent to the API.
func IsChannelID(s string) bool {
	return strings.HasPrefix(s, channelIDPrefix) && len(s) >= len(channelIDPrefix)+1
}

// ChannelURL returns the canonical URL for a channel identifier.
func ChannelURL(id string) string {
	return channelURLBase + id
}

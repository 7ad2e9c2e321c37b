// Package domain contains entity without logic, just meta-data
package domain

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxUsernameLen    = 64
	AnonymousUsername = "anonymous"
)

// ConnID is the server-assigned id of a live signaling connection.
// Peers address each other by it, so it doubles as the participant id.
type ConnID string

// NormalizeUsername trims surrounding space and caps the name at MaxUsernameLen runes.
// Usernames are display text only and are not unique.
func NormalizeUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return AnonymousUsername
	}
	if utf8.RuneCountInString(username) <= MaxUsernameLen {
		return username
	}
	runes := []rune(username)
	return string(runes[:MaxUsernameLen])
}

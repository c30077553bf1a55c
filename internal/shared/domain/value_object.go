package domain

import "strings"

// UserID is the opaque identifier of a platform user, shared across bounded
// contexts. Users are not stored entities; the ID is a key into per-context
// state that is lazily initialized on first reference.
type UserID struct {
	value string
}

// NewUserID creates a UserID from its string form. Surrounding whitespace is
// not significant.
func NewUserID(value string) UserID {
	return UserID{value: strings.TrimSpace(value)}
}

// String returns the string representation of the UserID.
func (u UserID) String() string {
	return u.value
}

// IsEmpty returns true if the UserID carries no value.
func (u UserID) IsEmpty() bool {
	return u.value == ""
}

// Equals checks if two UserIDs identify the same user.
func (u UserID) Equals(other UserID) bool {
	return u.value == other.value
}

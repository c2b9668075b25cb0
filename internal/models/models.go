package models

import (
	"fmt"
	"strings"
	"time"
)

// Category is the closed set of catalog item kinds.
type Category string

const (
	CategoryMovie       Category = "Movie"
	CategorySeries      Category = "Series"
	CategoryDocumentary Category = "Documentary"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryMovie, CategorySeries, CategoryDocumentary}

var categoryAliases = map[string]Category{
	"movie":        CategoryMovie,
	"filme":        CategoryMovie,
	"series":       CategorySeries,
	"serie":        CategorySeries,
	"série":        CategorySeries,
	"documentary":  CategoryDocumentary,
	"documentario": CategoryDocumentary,
	"documentário": CategoryDocumentary,
}

// ParseCategory resolves a category name case-insensitively. The Portuguese labels used by
// earlier catalog exports are accepted as aliases.
func ParseCategory(name string) (Category, error) {
	if c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c, nil
	}
	return "", fmt.Errorf("unknown category %q", name)
}

// Notification is an entry in the system notification log.
type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// User is a registered end-user account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRecord is the stored form of a User, including its bcrypt credential hash.
type UserRecord struct {
	User
	PasswordHash string `json:"password_hash"`
}

// AdminSession is the time-limited grant produced by an admin login.
type AdminSession struct {
	Token     string    `json:"token"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// Valid reports whether the session is still usable at now.
func (s AdminSession) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt.Time())
}

// UserSession is the time-limited grant produced by a user login.
type UserSession struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt Timestamp `json:"expiresAt"`
}

// Valid reports whether the session is still usable at now.
func (s UserSession) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt.Time())
}

// Timestamp is an instant serialized as Unix milliseconds.
type Timestamp int64

// NewTimestamp converts t to a Timestamp.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.UnixMilli())
}

// Time converts the timestamp back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

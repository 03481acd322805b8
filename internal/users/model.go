package users

import (
	"errors"
	"strings"
	"time"
)

// ErrNoContact is returned when a contact upsert carries neither an email
// nor a phone number.
var ErrNoContact = errors.New("users: email or phone required")

// User is one visitor the platform has seen. Chat turns record a row keyed
// by session; bookings record a row keyed by contact. The two merge only
// through the admin's eyes, not in storage.
type User struct {
	ID           string    `json:"id"`
	SessionID    string    `json:"session_id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	BusinessType string    `json:"business_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// contactKey dedupes bookings by email first, phone second. Email is
// case-insensitive; phone numbers compare without separators.
func contactKey(email, phone string) string {
	if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
		return "email:" + email
	}
	phone = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))
	if phone != "" {
		return "phone:" + phone
	}
	return ""
}

// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is an account that can log in. Records are created on registration
// and never modified afterwards.
type User struct {
	ID           int64     // Storage-generated identifier.
	Name         string    // Display name ("nombre").
	Username     string    // Login identifier ("usuario"), unique across the store.
	PasswordHash string    // Self-describing bcrypt string; never the plaintext.
	CreatedAt    time.Time // Timestamp of registration.
}

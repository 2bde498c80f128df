package models

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is an account that can browse the gallery and, with the right
// permissions, change it.
type User struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	Username          string    `json:"username" gorm:"uniqueIndex;not null"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-" gorm:"not null"`                         // "-" means don't include in JSON responses
	GlobalPermissions []string  `json:"global_permissions" gorm:"serializer:json"` // Use JSON serializer
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (u *User) EntityType() string { return EntityUser }
func (u *User) EntityID() uint     { return u.ID }
func (u *User) String() string     { return u.DisplayName() }

// FullName joins first and last name, trimmed.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName is the full name when one is set, otherwise the username.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// HasGlobalPermission checks if the user has been granted permission.
func (u *User) HasGlobalPermission(permission string) bool {
	for _, p := range u.GlobalPermissions {
		if p == permission {
			return true
		}
	}
	return false
}

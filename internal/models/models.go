// Package models defines the domain entities for the expense report application.
package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in forms, storage and reports.
const DateLayout = "2006-01-02"

var (
	// ErrUserNotFound is returned when no user matches the given credentials.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already exists")
)

// Role is the access level of a user account.
type Role string

// Supported roles.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Roles lists the roles in the order they are offered in the admin panel.
var Roles = []Role{RoleAdmin, RoleUser}

// Valid reports whether r is one of the supported roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ExpenseType is the expense head an entry is booked against.
type ExpenseType string

// Expense heads.
const (
	ExpenseTA   ExpenseType = "TA"
	ExpenseDA   ExpenseType = "DA"
	ExpenseTour ExpenseType = "Tour"
)

// ExpenseTypes lists the expense heads in form order.
var ExpenseTypes = []ExpenseType{ExpenseTA, ExpenseDA, ExpenseTour}

// Valid reports whether t is one of the known expense heads.
func (t ExpenseType) Valid() bool {
	return t == ExpenseTA || t == ExpenseDA || t == ExpenseTour
}

// User represents an application account.
// Passwords are stored and compared as plaintext.
type User struct {
	ID       int64
	Username string
	Password string
	Role     Role
}

// Entry represents a single recorded expense transaction.
type Entry struct {
	ID          int64
	Date        time.Time
	Employee    string
	ExpenseType ExpenseType
	Amount      decimal.Decimal
	Description string
}

// Session is the authentication state of one browser client.
// The zero value is the anonymous session.
type Session struct {
	LoggedIn bool
	Username string
	Role     Role
}

// IsAdmin reports whether the session belongs to a logged-in admin.
func (s Session) IsAdmin() bool {
	return s.LoggedIn && s.Role == RoleAdmin
}

// DefaultUsers are the accounts seeded into an empty users table.
func DefaultUsers() []User {
	return []User{
		{Username: "user1", Password: "password1", Role: RoleAdmin},
		{Username: "user2", Password: "password2", Role: RoleUser},
	}
}

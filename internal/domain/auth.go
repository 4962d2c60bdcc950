package domain

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotLoggedIn  = errors.New("no user is logged in")
	ErrLoginAborted = errors.New("login aborted")
)

const defaultUserName = "User"

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginCredentials are consumed by a single login and never retained.
type LoginCredentials struct {
	Email    string
	Password string
}

// Session is a point-in-time copy of the authentication state.
type Session struct {
	CurrentUser *User
	IsLoading   bool
	Token       string
}

func (s Session) IsLoggedIn() bool {
	return s.CurrentUser != nil
}

// NameFromEmail returns the part of email before the first '@', or "User"
// when that part is empty.
func NameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return defaultUserName
	}
	return local
}

// DisplayName is the name shown in the header for u, "Guest" when absent.
func DisplayName(u *User) string {
	if u == nil {
		return "Guest"
	}
	return u.Name
}

// Initial is the upper-cased first letter of name, "G" when name is blank.
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "G"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

func Role(u *User) string {
	if u == nil {
		return "Visitor"
	}
	return "Administrator"
}

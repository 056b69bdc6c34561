package domain

import (
	"cmp"
	"strings"
)

// Role distinguishes the kinds of account that can log in.
type Role int

const (
	RoleStudent Role = iota
	RoleFaculty
	RoleRegistrar
)

func (r Role) String() string {
	switch r {
	case RoleFaculty:
		return "faculty"
	case RoleRegistrar:
		return "registrar"
	default:
		return "student"
	}
}

// Account is any user that can log in.
type Account interface {
	ID() string
	FirstName() string
	LastName() string
	Email() string
	PasswordHash() string
	Role() Role
}

// User holds the identity fields shared by every account.
type User struct {
	firstName    string
	lastName     string
	id           string
	email        string
	passwordHash string
}

func newUser(firstName, lastName, id, email, passwordHash string) (User, error) {
	u := User{}
	if err := u.SetFirstName(firstName); err != nil {
		return User{}, err
	}
	if err := u.SetLastName(lastName); err != nil {
		return User{}, err
	}
	if id == "" {
		return User{}, invalid("Invalid id")
	}
	u.id = id
	if err := u.SetEmail(email); err != nil {
		return User{}, err
	}
	if err := u.SetPasswordHash(passwordHash); err != nil {
		return User{}, err
	}
	return u, nil
}

func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) ID() string           { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }

func (u *User) SetFirstName(name string) error {
	if name == "" {
		return invalid("Invalid first name")
	}
	u.firstName = name
	return nil
}

func (u *User) SetLastName(name string) error {
	if name == "" {
		return invalid("Invalid last name")
	}
	u.lastName = name
	return nil
}

// SetEmail requires an "@" followed somewhere later by a ".".
func (u *User) SetEmail(email string) error {
	at := strings.IndexByte(email, '@')
	if at < 0 || !strings.Contains(email[at:], ".") {
		return invalid("Invalid email")
	}
	u.email = email
	return nil
}

// SetPasswordHash stores an already hashed password.
func (u *User) SetPasswordHash(hash string) error {
	if hash == "" {
		return invalid("Invalid password")
	}
	u.passwordHash = hash
	return nil
}

func (u *User) equal(o *User) bool {
	return *u == *o
}

// compareUsers orders by last name, first name, then id.
func compareUsers(a, b *User) int {
	if n := cmp.Compare(a.lastName, b.lastName); n != 0 {
		return n
	}
	if n := cmp.Compare(a.firstName, b.firstName); n != 0 {
		return n
	}
	return cmp.Compare(a.id, b.id)
}

// Registrar is the administrative account configured at startup.
type Registrar struct {
	User
}

// NewRegistrar validates the fields and creates the registrar account.
func NewRegistrar(firstName, lastName, id, email, passwordHash string) (*Registrar, error) {
	u, err := newUser(firstName, lastName, id, email, passwordHash)
	if err != nil {
		return nil, err
	}
	return &Registrar{User: u}, nil
}

func (r *Registrar) Role() Role { return RoleRegistrar }

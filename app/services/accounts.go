package services

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/bazaar/app/models"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/collection"
	"github.com/shashiranjanraj/bazaar/pkg/id"
	"github.com/shashiranjanraj/bazaar/pkg/repository"
)

// Accounts manages user registration, credential checks and the banned
// flag. Admin accounts are seeded, never self-registered.
type Accounts struct {
	users *repository.Repository[models.User]
}

func NewAccounts(users *repository.Repository[models.User]) *Accounts {
	return &Accounts{users: users}
}

// Register creates a buyer or seller account. Usernames are unique and
// case-sensitive.
func (a *Accounts) Register(username, password string, role models.Role, email, phone string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidArgument)
	}
	if role != models.RoleBuyer && role != models.RoleSeller {
		return models.User{}, fmt.Errorf("%w: role must be buyer or seller", ErrInvalidArgument)
	}
	if _, taken := a.findByUsername(username); taken {
		return models.User{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("accounts: hash password: %w", err)
	}
	u := models.User{
		ID:           id.New("USR"),
		Username:     username,
		PasswordHash: hash,
		Email:        email,
		Phone:        phone,
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if err := a.users.Save(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Authenticate verifies credentials. The same error covers an unknown
// username and a wrong password; banned accounts cannot log in.
func (a *Accounts) Authenticate(username, password string) (models.User, error) {
	u, ok := a.findByUsername(username)
	if !ok || !auth.CheckPassword(u.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	if u.Banned {
		return models.User{}, ErrAccountBanned
	}
	return u, nil
}

// Ban sets the banned flag. Admins are immune.
func (a *Accounts) Ban(userID string) (models.User, error) {
	u, ok := a.users.FindByID(userID)
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if u.Role == models.RoleAdmin {
		return models.User{}, ErrCannotBanAdmin
	}
	if u.Banned {
		return models.User{}, ErrAlreadyBanned
	}
	u.Banned = true
	if err := a.users.Save(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// Unban clears the banned flag.
func (a *Accounts) Unban(userID string) (models.User, error) {
	u, ok := a.users.FindByID(userID)
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if !u.Banned {
		return models.User{}, ErrNotBanned
	}
	u.Banned = false
	if err := a.users.Save(u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (a *Accounts) findByUsername(username string) (models.User, bool) {
	return collection.First(a.users.FindAll(), func(u models.User) bool {
		return u.Username == username
	})
}

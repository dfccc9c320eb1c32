// Package users manages application accounts. Account rows live in the
// authoritative spreadsheet service; password hashes are produced and
// compared locally so the plaintext never leaves this process.
package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/sheet"
)

// Directory is the slice of the spreadsheet API the user service needs.
type Directory interface {
	ListUsers(ctx context.Context) ([]sheet.UserRecord, error)
	CreateUser(ctx context.Context, user sheet.UserRecord) error
	UpdateUser(ctx context.Context, user sheet.UserRecord) error
	DeleteUser(ctx context.Context, username string) error
	VerifyCredentials(ctx context.Context, username string) (sheet.UserRecord, error)
}

// User is the public account shape; the hash never serializes.
type User struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
	Role     string `json:"role"`
}

// CreateForm is the account creation payload.
type CreateForm struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required"`
	Position string `json:"position"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// UpdateForm rewrites an account; an empty password keeps the stored hash.
type UpdateForm struct {
	Password string `json:"password" validate:"omitempty,min=8"`
	FullName string `json:"fullName"`
	Position string `json:"position"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

// Service implements account management on top of the directory.
type Service struct {
	dir      Directory
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(dir Directory) *Service {
	return &Service{dir: dir, validate: validator.New()}
}

func publicUser(rec sheet.UserRecord) User {
	return User{
		Username: rec.Username,
		FullName: rec.FullName,
		Position: rec.Position,
		Role:     rec.Role,
	}
}

// List returns all accounts without credential material.
func (s *Service) List(ctx context.Context) ([]User, error) {
	records, err := s.dir.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(records))
	for _, rec := range records {
		out = append(out, publicUser(rec))
	}
	return out, nil
}

// Create registers a new account, hashing the password before it leaves the
// process.
func (s *Service) Create(ctx context.Context, form CreateForm) (User, error) {
	if err := s.validate.Struct(form); err != nil {
		return User{}, fmt.Errorf("users: %w: %v", httpx.ErrValidation, err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	role := form.Role
	if role == "" {
		role = "user"
	}
	rec := sheet.UserRecord{
		Username:     strings.TrimSpace(form.Username),
		FullName:     strings.TrimSpace(form.FullName),
		Position:     strings.TrimSpace(form.Position),
		Role:         role,
		PasswordHash: string(hash),
	}
	if err := s.dir.CreateUser(ctx, rec); err != nil {
		return User{}, err
	}
	return publicUser(rec), nil
}

// Update rewrites an account. The stored hash survives unless a new
// password is supplied.
func (s *Service) Update(ctx context.Context, username string, form UpdateForm) (User, error) {
	if err := s.validate.Struct(form); err != nil {
		return User{}, fmt.Errorf("users: %w: %v", httpx.ErrValidation, err)
	}
	current, err := s.dir.VerifyCredentials(ctx, username)
	if err != nil {
		return User{}, err
	}
	if form.FullName != "" {
		current.FullName = strings.TrimSpace(form.FullName)
	}
	if form.Position != "" {
		current.Position = strings.TrimSpace(form.Position)
	}
	if form.Role != "" {
		current.Role = form.Role
	}
	if form.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, fmt.Errorf("users: hash password: %w", err)
		}
		current.PasswordHash = string(hash)
	}
	if err := s.dir.UpdateUser(ctx, current); err != nil {
		return User{}, err
	}
	return publicUser(current), nil
}

// Delete removes an account.
func (s *Service) Delete(ctx context.Context, username string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("users: %w: username required", httpx.ErrValidation)
	}
	return s.dir.DeleteUser(ctx, username)
}

// Authenticate checks a username/password pair against the stored hash.
// Unknown users and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	rec, err := s.dir.VerifyCredentials(ctx, username)
	if err != nil {
		return User{}, fmt.Errorf("users: %w", httpx.ErrUnauthorized)
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return User{}, fmt.Errorf("users: %w", httpx.ErrUnauthorized)
	}
	return publicUser(rec), nil
}

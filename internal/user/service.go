package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/marketbay/service-account-go/internal/user/entity"
	userrepo "github.com/marketbay/service-account-go/internal/user/repo"
)

// PasswordHasher defines the minimal hashing interface (abstract so we can
// swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// BcryptHasher implementation. The hash embeds a random salt, so two calls on
// the same input yield different outputs; verification is content
// constant-time inside bcrypt.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Repository is the persistence boundary for user records.
type Repository interface {
	Create(ctx context.Context, u *entity.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// TokenIssuer signs a session assertion for an authenticated user.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// sentinel errors for common failure modes; the handler maps these to
// status codes and client messages
var (
	ErrMissingSignupFields = errors.New("name, email, password or role missing")
	ErrMissingCredentials  = errors.New("email or password missing")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrWeakPassword        = errors.New("password too weak")
	ErrInvalidRole         = errors.New("invalid role")
	ErrEmailTaken          = errors.New("email already registered")
	ErrBadCredentials      = errors.New("invalid credentials")
	ErrUserNotFound        = errors.New("user not found")
)

// Service orchestrates the signup and login flows and user lifecycle.
type Service struct {
	repo   Repository
	hasher PasswordHasher
	issuer TokenIssuer
}

// NewService constructs a Service. A nil hasher defaults to bcrypt with
// cost 10.
func NewService(r Repository, hasher PasswordHasher, issuer TokenIssuer) *Service {
	if hasher == nil {
		hasher = BcryptHasher{Cost: 10}
	}
	return &Service{repo: r, hasher: hasher, issuer: issuer}
}

// Signup validates the payload, checks email uniqueness, hashes the password,
// inserts the user and issues a session assertion. The uniqueness pre-check
// is not atomic with the insert; the store's unique constraint is the real
// backstop and its violation also surfaces as ErrEmailTaken.
func (s *Service) Signup(ctx context.Context, name, email, password, role string) (string, int64, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" || role == "" {
		return "", 0, ErrMissingSignupFields
	}
	parsedRole, ok := entity.ParseRole(role)
	if !ok {
		return "", 0, ErrInvalidRole
	}
	if !IsValidEmail(email) {
		return "", 0, ErrInvalidEmail
	}
	if !IsValidPassword(password) {
		return "", 0, ErrWeakPassword
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", 0, err
	}
	if existing != nil {
		return "", 0, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", 0, err
	}

	u := &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         parsedRole,
	}
	id, err := s.repo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, userrepo.ErrDuplicateEmail) {
			return "", 0, ErrEmailTaken
		}
		return "", 0, err
	}

	token, err := s.issuer.Issue(id, email)
	if err != nil {
		return "", 0, err
	}
	return token, id, nil
}

// Login authenticates by email and password and issues a session assertion.
// Unknown email and wrong password both return ErrBadCredentials to avoid
// leaking account existence.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrMissingCredentials
	}
	if !IsValidEmail(email) {
		return "", ErrInvalidEmail
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if u.PasswordHash == "" || !s.hasher.Verify(u.PasswordHash, password) {
		return "", ErrBadCredentials
	}

	return s.issuer.Issue(u.ID, u.Email)
}

// Get returns a user by id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	return s.repo.List(ctx)
}

// Delete removes a user by id. Irreversible; no cascading rules.
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

package category

import (
	"context"
	"errors"
	"strings"

	"github.com/marketbay/service-account-go/internal/category/entity"
)

// Repository is the persistence boundary for categories.
type Repository interface {
	List(ctx context.Context) ([]entity.Category, error)
	Create(ctx context.Context, name string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// sentinel errors for common failure modes
var (
	ErrNotFound     = errors.New("not found")
	ErrNameRequired = errors.New("name is required")
)

// Service encapsulates business logic for categories and depends on a repo.
type Service struct {
	repo Repository
}

// NewService constructs a Service with the provided repository.
func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// List returns all categories.
func (s *Service) List(ctx context.Context) ([]entity.Category, error) {
	return s.repo.List(ctx)
}

// Add creates a new category.
func (s *Service) Add(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrNameRequired
	}
	return s.repo.Create(ctx, name)
}

// Delete removes a category by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

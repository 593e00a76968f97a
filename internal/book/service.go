package book

import (
	"context"

	"libraryapi/internal/apperror"
	"libraryapi/internal/validation"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every book with its publisher and author ids.
func (s *Service) List(ctx context.Context) ([]DTO, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.FromStorage(entityName, err, "error while getting list of books")
	}

	out := make([]DTO, len(books))
	for i, b := range books {
		out[i] = ToDTO(b)
	}
	return out, nil
}

// Get returns a book by its id.
func (s *Service) Get(ctx context.Context, id int64) (DTO, error) {
	b, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while getting book with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}
	return ToDTO(b), nil
}

// Create validates and stores a new book together with its author links.
func (s *Service) Create(ctx context.Context, in DTO) (DTO, error) {
	in = in.normalize()
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	b := in.toEntity()
	b.ID = 0
	if err := s.repo.Create(ctx, &b); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while adding book")
	}
	return ToDTO(b), nil
}

// Update overwrites an existing book. Its author set becomes exactly
// in.AuthorIDs.
func (s *Service) Update(ctx context.Context, id int64, in DTO) (DTO, error) {
	in = in.normalize()
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating book with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}

	updated := in.toEntity()
	updated.ID = existing.ID
	if err := s.repo.Update(ctx, &updated); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating book with id %d", id)
	}
	return ToDTO(updated), nil
}

// Delete removes a book and its author links. Authors are kept.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.FromStorage(entityName, err, "error while deleting book with id %d", id)
	}
	return nil
}

package author

import (
	"context"

	"libraryapi/internal/apperror"
	"libraryapi/internal/validation"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]DTO, error) {
	authors, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, apperror.FromStorage(entityName, err, "error while getting list of authors")
	}

	out := make([]DTO, len(authors))
	for i, a := range authors {
		out[i] = ToDTO(a)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (DTO, error) {
	a, found, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while getting author with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}
	return ToDTO(a), nil
}

// Create stores a new author and links it to in.BookIDs. Any id in the input
// is ignored.
func (s *Service) Create(ctx context.Context, in DTO) (DTO, error) {
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	a := in.toEntity()
	a.ID = 0
	if err := s.repo.Create(ctx, &a); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while creating author")
	}
	return ToDTO(a), nil
}

// Update overwrites the author's fields and replaces its book set with
// in.BookIDs. The author must already exist.
func (s *Service) Update(ctx context.Context, id int64, in DTO) (DTO, error) {
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	existing, found, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating author with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}

	updated := in.toEntity()
	updated.ID = existing.ID
	if err := s.repo.Update(ctx, &updated); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating author with id %d", id)
	}
	return ToDTO(updated), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.FromStorage(entityName, err, "error while deleting author with id %d", id)
	}
	return nil
}

package publisher

import (
	"context"

	"libraryapi/internal/apperror"
	"libraryapi/internal/validation"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]DTO, error) {
	publishers, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.FromStorage(entityName, err, "error while getting list of publishers")
	}

	out := make([]DTO, len(publishers))
	for i, p := range publishers {
		out[i] = ToDTO(p)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (DTO, error) {
	p, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while getting publisher with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}
	return ToDTO(p), nil
}

func (s *Service) Create(ctx context.Context, in DTO) (DTO, error) {
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	p := in.toEntity()
	p.ID = 0
	if err := s.repo.Create(ctx, &p); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while adding publisher")
	}
	return s.reload(ctx, p.ID, "error while adding publisher")
}

// Update renames the publisher and, when in.BookIDs is set, reassigns its
// books.
func (s *Service) Update(ctx context.Context, id int64, in DTO) (DTO, error) {
	if errs := validation.Struct(in); errs != nil {
		return DTO{}, apperror.Validation(entityName, "%s", validation.Join(errs))
	}

	existing, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating publisher with id %d", id)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}

	updated := in.toEntity()
	updated.ID = existing.ID
	if err := s.repo.Update(ctx, &updated); err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, "error while updating publisher with id %d", id)
	}
	return s.reload(ctx, id, "error while updating publisher with id %d", id)
}

// Delete leaves the publisher's books in place with no publisher.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperror.FromStorage(entityName, err, "error while deleting publisher with id %d", id)
	}
	return nil
}

// reload reads back the stored state, since book assignments left untouched
// by a write are only known to storage.
func (s *Service) reload(ctx context.Context, id int64, format string, args ...any) (DTO, error) {
	p, found, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return DTO{}, apperror.FromStorage(entityName, err, format, args...)
	}
	if !found {
		return DTO{}, apperror.NotFound(entityName, id)
	}
	return ToDTO(p), nil
}

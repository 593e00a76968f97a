//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=author

package author

import (
	"context"

	"libraryapi/internal/entity"
)

// Repository defines the contract for author data storage. Lookups report a
// missing row with found == false rather than an error. withBooks controls
// whether the book set is hydrated.
type Repository interface {
	GetByID(ctx context.Context, id int64, withBooks bool) (entity.Author, bool, error)
	List(ctx context.Context, withBooks bool) ([]entity.Author, error)
	Create(ctx context.Context, a *entity.Author) error
	Update(ctx context.Context, a *entity.Author) error
	Delete(ctx context.Context, id int64) error
}

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=publisher

package publisher

import (
	"context"

	"libraryapi/internal/entity"
)

// Repository defines the contract for publisher data storage. Publishers
// come back with the books that reference them.
type Repository interface {
	GetByID(ctx context.Context, id int64) (entity.Publisher, bool, error)
	List(ctx context.Context) ([]entity.Publisher, error)
	Create(ctx context.Context, p *entity.Publisher) error
	Update(ctx context.Context, p *entity.Publisher) error
	Delete(ctx context.Context, id int64) error
}

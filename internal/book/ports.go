//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

package book

import (
	"context"

	"libraryapi/internal/entity"
)

// Repository defines the contract for book data storage. Books always come
// back with their publisher summary and author set.
type Repository interface {
	GetByID(ctx context.Context, id int64) (entity.Book, bool, error)
	List(ctx context.Context) ([]entity.Book, error)
	Create(ctx context.Context, b *entity.Book) error
	Update(ctx context.Context, b *entity.Book) error
	Delete(ctx context.Context, id int64) error
}

package book

import (
	"strings"

	"libraryapi/internal/entity"
)

const entityName = "book"

// DTO is the wire form of a book. PublishedDate is YYYY-MM-DD; a null or
// empty date and a null publisher are stored as SQL NULL.
type DTO struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title" validate:"notblank,max=255"`
	PublishedDate *string `json:"publishedDate" validate:"omitempty,datetime=2006-01-02"`
	Genre         string  `json:"genre" validate:"max=255"`
	PublisherID   *int64  `json:"publisherId" validate:"omitempty,gt=0"`
	AuthorIDs     []int64 `json:"authorIds" validate:"dive,gt=0"`
}

func ToDTO(b entity.Book) DTO {
	d := DTO{
		ID:          b.ID,
		Title:       b.Title,
		Genre:       b.Genre,
		PublisherID: b.PublisherID(),
		AuthorIDs:   entity.UniqueIDs(b.AuthorIDs()),
	}
	if b.PublishedDate != "" {
		date := b.PublishedDate
		d.PublishedDate = &date
	}
	return d
}

// normalize treats an empty date the same as a null one.
func (d DTO) normalize() DTO {
	if d.PublishedDate != nil && strings.TrimSpace(*d.PublishedDate) == "" {
		d.PublishedDate = nil
	}
	return d
}

func (d DTO) toEntity() entity.Book {
	b := entity.Book{
		ID:      d.ID,
		Title:   d.Title,
		Genre:   d.Genre,
		Authors: entity.AuthorRefs(entity.UniqueIDs(d.AuthorIDs)),
	}
	if d.PublishedDate != nil {
		b.PublishedDate = *d.PublishedDate
	}
	if d.PublisherID != nil {
		b.Publisher = &entity.PublisherRef{ID: *d.PublisherID}
	}
	return b
}

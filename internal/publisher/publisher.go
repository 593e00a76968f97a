package publisher

import "libraryapi/internal/entity"

const entityName = "publisher"

// DTO is the wire form of a publisher. On writes a null or omitted BookIDs
// leaves the current book assignments alone; a list, even an empty one,
// becomes the exact set of books published by this publisher.
type DTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name" validate:"notblank,max=255"`
	BookIDs []int64 `json:"bookIds" validate:"omitempty,dive,gt=0"`
}

func ToDTO(p entity.Publisher) DTO {
	return DTO{
		ID:      p.ID,
		Name:    p.Name,
		BookIDs: entity.UniqueIDs(p.BookIDs()),
	}
}

func (d DTO) toEntity() entity.Publisher {
	p := entity.Publisher{ID: d.ID, Name: d.Name}
	if d.BookIDs != nil {
		p.Books = entity.BookRefs(entity.UniqueIDs(d.BookIDs))
	}
	return p
}

package author

import "libraryapi/internal/entity"

const entityName = "author"

// DTO is the wire form of an author. BookIDs is always present, possibly
// empty.
type DTO struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name" validate:"max=255"`
	Surname string  `json:"surname" validate:"max=255"`
	Country string  `json:"country" validate:"max=255"`
	BookIDs []int64 `json:"bookIds" validate:"dive,gt=0"`
}

func ToDTO(a entity.Author) DTO {
	return DTO{
		ID:      a.ID,
		Name:    a.Name,
		Surname: a.Surname,
		Country: a.Country,
		BookIDs: entity.UniqueIDs(a.BookIDs()),
	}
}

func (d DTO) toEntity() entity.Author {
	return entity.Author{
		ID:      d.ID,
		Name:    d.Name,
		Surname: d.Surname,
		Country: d.Country,
		Books:   entity.BookRefs(entity.UniqueIDs(d.BookIDs)),
	}
}

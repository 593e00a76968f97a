package entity

// Book is a row of books with its publisher summary and author set hydrated.
// PublishedDate is YYYY-MM-DD or empty when unknown.
type Book struct {
	ID            int64
	Title         string
	PublishedDate string
	Genre         string
	Publisher     *PublisherRef
	Authors       []AuthorRef
}

// BookRef is the book summary carried by authors and publishers.
type BookRef struct {
	ID            int64
	Title         string
	PublishedDate string
	Genre         string
	Publisher     *PublisherRef
}

func (b Book) AuthorIDs() []int64 {
	ids := make([]int64, len(b.Authors))
	for i, a := range b.Authors {
		ids[i] = a.ID
	}
	return ids
}

func (b Book) PublisherID() *int64 {
	if b.Publisher == nil {
		return nil
	}
	id := b.Publisher.ID
	return &id
}

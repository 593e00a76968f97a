package entity

type Author struct {
	ID      int64
	Name    string
	Surname string
	Country string
	Books   []BookRef
}

// AuthorRef is the author summary carried by books.
type AuthorRef struct {
	ID      int64
	Name    string
	Surname string
	Country string
}

func (a Author) BookIDs() []int64 {
	return refIDs(a.Books)
}

func refIDs(books []BookRef) []int64 {
	ids := make([]int64, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

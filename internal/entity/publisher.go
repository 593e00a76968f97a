package entity

// Publisher owns books through books.publisher_id. On writes a nil Books
// slice leaves current assignments alone, a non-nil one replaces them.
type Publisher struct {
	ID    int64
	Name  string
	Books []BookRef
}

// PublisherRef is the id+name summary joined onto books.
type PublisherRef struct {
	ID   int64
	Name string
}

func (p Publisher) BookIDs() []int64 {
	if p.Books == nil {
		return nil
	}
	return refIDs(p.Books)
}

// BookRefs turns ids into bare references for write paths.
func BookRefs(ids []int64) []BookRef {
	if ids == nil {
		return nil
	}
	refs := make([]BookRef, len(ids))
	for i, id := range ids {
		refs[i] = BookRef{ID: id}
	}
	return refs
}

func AuthorRefs(ids []int64) []AuthorRef {
	refs := make([]AuthorRef, len(ids))
	for i, id := range ids {
		refs[i] = AuthorRef{ID: id}
	}
	return refs
}

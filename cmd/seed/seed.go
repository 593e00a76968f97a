package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"libraryapi/internal/author"
	"libraryapi/internal/book"
	"libraryapi/internal/publisher"
)

type seeder struct {
	authors    *author.Service
	books      *book.Service
	publishers *publisher.Service
	log        *zap.Logger
}

// catalog is what run created.
type catalog struct {
	Publisher publisher.DTO
	Author    author.DTO
	Books     []book.DTO
}

func date(s string) *string { return &s }

// run creates a publisher, an author and three books through the services,
// then links the author to two of the books.
func (s *seeder) run(ctx context.Context) (catalog, error) {
	var c catalog

	pub, err := s.publishers.Create(ctx, publisher.DTO{Name: "Эксмо"})
	if err != nil {
		return c, errors.Wrap(err, "create publisher")
	}
	c.Publisher = pub

	tolstoy, err := s.authors.Create(ctx, author.DTO{Name: "Лев", Surname: "Толстой", Country: "Россия"})
	if err != nil {
		return c, errors.Wrap(err, "create author")
	}

	for _, in := range []book.DTO{
		{Title: "Война и мир", PublishedDate: date("1869-01-01"), Genre: "роман-эпопея", PublisherID: &pub.ID},
		{Title: "Анна Каренина", PublishedDate: date("1878-01-01"), Genre: "роман", PublisherID: &pub.ID},
		{Title: "1984", PublishedDate: date("1949-06-08"), Genre: "антиутопия", PublisherID: &pub.ID},
	} {
		created, err := s.books.Create(ctx, in)
		if err != nil {
			return c, errors.Wrapf(err, "create book %q", in.Title)
		}
		c.Books = append(c.Books, created)
	}

	tolstoy.BookIDs = []int64{c.Books[0].ID, c.Books[1].ID}
	tolstoy, err = s.authors.Update(ctx, tolstoy.ID, tolstoy)
	if err != nil {
		return c, errors.Wrap(err, "link author to books")
	}
	c.Author = tolstoy

	s.log.Info("catalog seeded",
		zap.Int64("publisher_id", c.Publisher.ID),
		zap.Int64("author_id", c.Author.ID),
		zap.Int64s("author_book_ids", c.Author.BookIDs),
		zap.Int("books", len(c.Books)),
	)
	return c, nil
}

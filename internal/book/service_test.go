package book

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/apperror"
	"libraryapi/internal/entity"
)

type fakeRepo struct {
	mock.Mock
}

func (m *fakeRepo) GetByID(ctx context.Context, id int64) (entity.Book, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Book), args.Bool(1), args.Error(2)
}

func (m *fakeRepo) List(ctx context.Context) ([]entity.Book, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Book), args.Error(1)
}

func (m *fakeRepo) Create(ctx context.Context, b *entity.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *fakeRepo) Update(ctx context.Context, b *entity.Book) error {
	return m.Called(ctx, b).Error(0)
}

func (m *fakeRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func strPtr(s string) *string { return &s }
func idPtr(id int64) *int64   { return &id }

var nineteenEightyFour = entity.Book{
	ID:            3,
	Title:         "1984",
	PublishedDate: "1949-06-08",
	Genre:         "антиутопия",
	Publisher:     &entity.PublisherRef{ID: 2, Name: "Эксмо"},
	Authors:       []entity.AuthorRef{{ID: 5, Surname: "Оруэлл"}},
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("maps publisher and authors to ids", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("GetByID", ctx, int64(3)).Return(nineteenEightyFour, true, nil)

		got, err := NewService(repo).Get(ctx, 3)

		require.NoError(t, err)
		assert.Equal(t, DTO{
			ID:            3,
			Title:         "1984",
			PublishedDate: strPtr("1949-06-08"),
			Genre:         "антиутопия",
			PublisherID:   idPtr(2),
			AuthorIDs:     []int64{5},
		}, got)
	})

	t.Run("no publisher and no date are null", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("GetByID", ctx, int64(4)).Return(entity.Book{ID: 4, Title: "Рукопись"}, true, nil)

		got, err := NewService(repo).Get(ctx, 4)

		require.NoError(t, err)
		assert.Nil(t, got.PublisherID)
		assert.Nil(t, got.PublishedDate)
		assert.Equal(t, []int64{}, got.AuthorIDs)
	})

	t.Run("absent", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("GetByID", ctx, int64(8)).Return(entity.Book{}, false, nil)

		_, err := NewService(repo).Get(ctx, 8)

		assert.ErrorIs(t, err, apperror.ErrNotFound)
		assert.Equal(t, "book with id 8 not found", err.Error())
	})
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		in      DTO
		message string
	}{
		"empty title":       {DTO{Title: ""}, "title is required"},
		"blank title":       {DTO{Title: "   "}, "title is required"},
		"bad date":          {DTO{Title: "1984", PublishedDate: strPtr("08.06.1949")}, "publishedDate must be a date in YYYY-MM-DD format"},
		"zero publisher id": {DTO{Title: "1984", PublisherID: idPtr(0)}, "publisherId must be greater than 0"},
		"negative author":   {DTO{Title: "1984", AuthorIDs: []int64{-1}}, "authorIds[0] must be greater than 0"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo := new(fakeRepo)

			_, err := NewService(repo).Create(ctx, tc.in)

			assert.ErrorIs(t, err, apperror.ErrValidation)
			assert.Equal(t, tc.message, err.Error())
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores publisher and deduplicated authors", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(b *entity.Book) bool {
			return b.ID == 0 &&
				b.PublishedDate == "1949-06-08" &&
				b.Publisher != nil && b.Publisher.ID == 2 &&
				assert.ObjectsAreEqual([]int64{1, 5}, b.AuthorIDs())
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Book).ID = 10
		}).Return(nil)

		got, err := NewService(repo).Create(ctx, DTO{
			ID:            77,
			Title:         "1984",
			PublishedDate: strPtr("1949-06-08"),
			PublisherID:   idPtr(2),
			AuthorIDs:     []int64{5, 1, 5},
		})

		require.NoError(t, err)
		assert.Equal(t, int64(10), got.ID)
		assert.Equal(t, []int64{1, 5}, got.AuthorIDs)
		repo.AssertExpectations(t)
	})

	t.Run("empty date is stored as null", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("Create", ctx, mock.MatchedBy(func(b *entity.Book) bool {
			return b.PublishedDate == ""
		})).Return(nil)

		got, err := NewService(repo).Create(ctx, DTO{Title: "1984", PublishedDate: strPtr("")})

		require.NoError(t, err)
		assert.Nil(t, got.PublishedDate)
	})

	t.Run("unknown publisher", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("Create", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23503"})

		_, err := NewService(repo).Create(ctx, DTO{Title: "1984", PublisherID: idPtr(999)})

		assert.ErrorIs(t, err, apperror.ErrInvalidReference)
		assert.Equal(t, "error while adding book: referenced record not found", err.Error())
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("clears publisher and authors", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("GetByID", ctx, int64(3)).Return(nineteenEightyFour, true, nil)
		repo.On("Update", ctx, mock.MatchedBy(func(b *entity.Book) bool {
			return b.ID == 3 && b.Publisher == nil && len(b.Authors) == 0
		})).Return(nil)

		got, err := NewService(repo).Update(ctx, 3, DTO{ID: 3, Title: "1984"})

		require.NoError(t, err)
		assert.Nil(t, got.PublisherID)
		assert.Equal(t, []int64{}, got.AuthorIDs)
		repo.AssertExpectations(t)
	})

	t.Run("missing book", func(t *testing.T) {
		repo := new(fakeRepo)
		repo.On("GetByID", ctx, int64(3)).Return(entity.Book{}, false, nil)

		_, err := NewService(repo).Update(ctx, 3, DTO{ID: 3, Title: "1984"})

		assert.ErrorIs(t, err, apperror.ErrNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("validation before lookup", func(t *testing.T) {
		repo := new(fakeRepo)

		_, err := NewService(repo).Update(ctx, 3, DTO{ID: 3})

		assert.ErrorIs(t, err, apperror.ErrValidation)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

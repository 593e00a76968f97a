package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []int64{1, 2, 3}, UniqueIDs([]int64{3, 1, 3, 2, 0, -4, 1}))

	empty := UniqueIDs(nil)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestBook_PublisherID(t *testing.T) {
	assert.Nil(t, Book{}.PublisherID())

	id := Book{Publisher: &PublisherRef{ID: 9, Name: "Эксмо"}}.PublisherID()
	if assert.NotNil(t, id) {
		assert.Equal(t, int64(9), *id)
	}
}

func TestPublisher_BookIDs_NilMeansUntouched(t *testing.T) {
	assert.Nil(t, Publisher{}.BookIDs())
	assert.Equal(t, []int64{}, Publisher{Books: BookRefs([]int64{})}.BookIDs())
	assert.Equal(t, []int64{4, 5}, Publisher{Books: BookRefs([]int64{4, 5})}.BookIDs())
}

func TestAuthorRefs(t *testing.T) {
	b := Book{Authors: AuthorRefs([]int64{2, 7})}
	assert.Equal(t, []int64{2, 7}, b.AuthorIDs())
	assert.Equal(t, []int64{}, Author{}.BookIDs())
}

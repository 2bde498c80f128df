package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/gallerybackend/models"
)

func photoIDs(t *testing.T, env *testEnv, q PhotoQuery) []uint {
	t.Helper()
	db, err := env.photos.Query(q)
	require.NoError(t, err)
	var ids []uint
	require.NoError(t, db.Pluck("photos.id", &ids).Error)
	return ids
}

func TestParseSearchQuery(t *testing.T) {
	c, err := ParseSearchQuery("q=summer&a=3&a=4&p=1&l=2&l=")
	require.NoError(t, err)
	assert.Equal(t, "summer", c.Q)
	assert.Equal(t, []uint{3, 4}, c.Albums)
	assert.Equal(t, []uint{1}, c.People)
	assert.Equal(t, []uint{2}, c.Locations)

	round, err := ParseSearchQuery(c.Encode())
	require.NoError(t, err)
	assert.Equal(t, c, round)

	_, err = ParseSearchQuery("a=three")
	assert.ErrorIs(t, err, ErrInvalidSearch)
}

func TestPhotoQuery(t *testing.T) {
	env := newTestEnv(t)
	lisbon := &models.Location{Name: "Lisbon"}
	require.NoError(t, env.locations.Create(lisbon))

	summer := env.album(t, "Summer Trip", &lisbon.ID)
	winter := env.album(t, "Winter", nil)
	beach := env.photo(t, "beach", summer.ID)
	tram := env.photo(t, "tram", summer.ID)
	snowySummer := env.photo(t, "SUMMER snow", winter.ID)
	fire := env.photo(t, "fire 100%", winter.ID)

	john := &models.Person{Name: "John"}
	require.NoError(t, env.people.Create(john))
	_, err := env.photos.SetPeople(tram, []models.Person{*john})
	require.NoError(t, err)
	_, err = env.photos.SetPeople(fire, []models.Person{*john})
	require.NoError(t, err)

	t.Run("by album", func(t *testing.T) {
		assert.Equal(t, []uint{beach.ID, tram.ID}, photoIDs(t, env, PhotoQuery{AlbumID: &summer.ID}))
	})

	t.Run("by person", func(t *testing.T) {
		assert.Equal(t, []uint{fire.ID, tram.ID}, photoIDs(t, env, PhotoQuery{PersonID: &john.ID}))
	})

	t.Run("album wins over person", func(t *testing.T) {
		// names sort bytewise, upper case first
		assert.Equal(t, []uint{snowySummer.ID, fire.ID}, photoIDs(t, env, PhotoQuery{AlbumID: &winter.ID, PersonID: &john.ID}))
	})

	t.Run("free text matches photo or album name", func(t *testing.T) {
		ids := photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Q: "summer"}})
		assert.ElementsMatch(t, []uint{beach.ID, tram.ID, snowySummer.ID}, ids)
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		ids := photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Q: "summer", Albums: []uint{summer.ID}}})
		assert.ElementsMatch(t, []uint{beach.ID, tram.ID}, ids)

		ids = photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Q: "summer", People: []uint{john.ID}}})
		assert.Equal(t, []uint{tram.ID}, ids)
	})

	t.Run("values within a filter are ORed", func(t *testing.T) {
		ids := photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Albums: []uint{summer.ID, winter.ID}}})
		assert.Len(t, ids, 4)
	})

	t.Run("location", func(t *testing.T) {
		ids := photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Locations: []uint{lisbon.ID}}})
		assert.ElementsMatch(t, []uint{beach.ID, tram.ID}, ids)
	})

	t.Run("like wildcards are literal", func(t *testing.T) {
		assert.Equal(t, []uint{fire.ID}, photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{Q: "0%"}}))
	})

	t.Run("empty criteria lists everything", func(t *testing.T) {
		assert.Len(t, photoIDs(t, env, PhotoQuery{Criteria: &SearchCriteria{}}), 4)
	})

	t.Run("nothing selected", func(t *testing.T) {
		_, err := env.photos.Query(PhotoQuery{})
		assert.ErrorIs(t, err, ErrInvalidSearch)
	})
}

func TestPaginate(t *testing.T) {
	env := newTestEnv(t)
	album := env.album(t, "Trip", nil)
	for i := 0; i < 5; i++ {
		env.photo(t, fmt.Sprintf("photo %d", i), album.ID)
	}
	query, err := env.photos.Query(PhotoQuery{AlbumID: &album.ID})
	require.NoError(t, err)

	page, err := Paginate[models.Photo](query, 3, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 2, page.NumPages)
	assert.EqualValues(t, 5, page.Count)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "photo 0", page.Items[0].Name)

	page, err = Paginate[models.Photo](query, 3, "2")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.HasPrevious)
	assert.Equal(t, "photo 3", page.Items[0].Name)

	_, err = Paginate[models.Photo](query, 3, "999")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = Paginate[models.Photo](query, 3, "0")
	assert.ErrorIs(t, err, ErrNotFound)

	empty := env.album(t, "Empty", nil)
	query, err = env.photos.Query(PhotoQuery{AlbumID: &empty.ID})
	require.NoError(t, err)
	page, err = Paginate[models.Photo](query, 3, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
}

func TestNeighbours(t *testing.T) {
	env := newTestEnv(t)
	album := env.album(t, "Trip", nil)
	other := env.album(t, "Other", nil)
	a := env.photo(t, "a", album.ID)
	b := env.photo(t, "b", album.ID)
	c := env.photo(t, "c", album.ID)
	stranger := env.photo(t, "s", other.ID)
	q := PhotoQuery{AlbumID: &album.ID}

	n, err := env.photos.Neighbours(q, b)
	require.NoError(t, err)
	assert.Equal(t, 2, n.Index)
	assert.EqualValues(t, 3, n.Count)
	require.NotNil(t, n.PreviousID)
	require.NotNil(t, n.NextID)
	assert.Equal(t, a.ID, *n.PreviousID)
	assert.Equal(t, c.ID, *n.NextID)

	n, err = env.photos.Neighbours(q, a)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Index)
	assert.Nil(t, n.PreviousID)

	n, err = env.photos.Neighbours(q, c)
	require.NoError(t, err)
	assert.Nil(t, n.NextID)

	_, err = env.photos.Neighbours(q, stranger)
	assert.ErrorIs(t, err, ErrNotFound)
}

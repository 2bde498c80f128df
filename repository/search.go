package repository

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/camden-git/gallerybackend/models"
	"gorm.io/gorm"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// ErrInvalidSearch is returned for search query strings that cannot be parsed.
var ErrInvalidSearch = errors.New("invalid search query")

// SearchCriteria filters photos. every non-empty field must match; within a
// field any value matches.
type SearchCriteria struct {
	Q         string // photo or album name contains, case-insensitive
	Albums    []uint // a
	People    []uint // p
	Locations []uint // l
}

// ParseSearchQuery reads criteria from a URL-style query string:
//
//	q=summer&a=3&a=4&p=1&l=2
func ParseSearchQuery(raw string) (SearchCriteria, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return SearchCriteria{}, fmt.Errorf("%w: %v", ErrInvalidSearch, err)
	}

	criteria := SearchCriteria{Q: strings.TrimSpace(values.Get("q"))}
	for key, dst := range map[string]*[]uint{"a": &criteria.Albums, "p": &criteria.People, "l": &criteria.Locations} {
		for _, v := range values[key] {
			if v == "" {
				continue
			}
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return SearchCriteria{}, fmt.Errorf("%w: %s=%q is not an id", ErrInvalidSearch, key, v)
			}
			*dst = append(*dst, uint(id))
		}
	}
	return criteria, nil
}

// Encode is the inverse of ParseSearchQuery
func (c SearchCriteria) Encode() string {
	values := url.Values{}
	if c.Q != "" {
		values.Set("q", c.Q)
	}
	add := func(key string, ids []uint) {
		for _, id := range ids {
			values.Add(key, strconv.FormatUint(uint64(id), 10))
		}
	}
	add("a", c.Albums)
	add("p", c.People)
	add("l", c.Locations)
	return values.Encode()
}

// PhotoQuery selects which photos to list. Album wins over Person, which wins
// over Criteria.
type PhotoQuery struct {
	AlbumID  *uint
	PersonID *uint
	Criteria *SearchCriteria
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// searchIDs builds the subquery selecting the ids of photos matching c
func searchIDs(c SearchCriteria) sq.SelectBuilder {
	ids := psql.Select("photos.id").
		From("photos").
		Join("albums ON albums.id = photos.album_id")

	if c.Q != "" {
		pattern := "%" + escapeLike(strings.ToLower(c.Q)) + "%"
		ids = ids.Where(sq.Or{
			sq.Expr(`LOWER(photos.name) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(albums.name) LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if len(c.Albums) > 0 {
		ids = ids.Where(sq.Eq{"photos.album_id": c.Albums})
	}
	if len(c.People) > 0 {
		tagged := psql.Select("photo_people.photo_id").
			From("photo_people").
			Where(sq.Eq{"photo_people.person_id": c.People})
		ids = ids.Where(subquery("photos.id IN", tagged))
	}
	if len(c.Locations) > 0 {
		ids = ids.Where(sq.Eq{"albums.location_id": c.Locations})
	}
	return ids
}

// subquery renders "<prefix> (<select>)" as a squirrel expression
func subquery(prefix string, b sq.SelectBuilder) sq.Sqlizer {
	query, args, err := b.ToSql()
	if err != nil {
		return sq.Expr("1 = 0")
	}
	return sq.Expr(prefix+" ("+query+")", args...)
}

// Filter returns the unordered set of photos selected by q, safe to reuse
// for several queries.
func (r *PhotoRepository) Filter(q PhotoQuery) (*gorm.DB, error) {
	db := r.DB.Model(&models.Photo{})

	switch {
	case q.AlbumID != nil:
		db = db.Where("photos.album_id = ?", *q.AlbumID)
	case q.PersonID != nil:
		db = db.Where("photos.id IN (?)",
			r.DB.Table("photo_people").Select("photo_id").Where("person_id = ?", *q.PersonID))
	case q.Criteria != nil:
		query, args, err := searchIDs(*q.Criteria).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build search query: %w", err)
		}
		db = db.Where("photos.id IN ("+query+")", args...)
	default:
		return nil, fmt.Errorf("%w: no album, person or criteria given", ErrInvalidSearch)
	}

	return db.Session(&gorm.Session{}), nil
}

// Query is Filter in display order: name, then id.
func (r *PhotoRepository) Query(q PhotoQuery) (*gorm.DB, error) {
	db, err := r.Filter(q)
	if err != nil {
		return nil, err
	}
	return db.Order("photos.name ASC").Order("photos.id ASC"), nil
}

// Neighbours is where a photo sits inside a listing.
type Neighbours struct {
	Index      int   `json:"index"` // 1-based
	Count      int64 `json:"count"`
	PreviousID *uint `json:"previous_id,omitempty"`
	NextID     *uint `json:"next_id,omitempty"`
}

// Neighbours locates photo inside the listing selected by q.
func (r *PhotoRepository) Neighbours(q PhotoQuery, photo *models.Photo) (*Neighbours, error) {
	set, err := r.Filter(q)
	if err != nil {
		return nil, err
	}

	var member int64
	if err := set.Where("photos.id = ?", photo.ID).Count(&member).Error; err != nil {
		return nil, fmt.Errorf("failed to locate photo %d: %w", photo.ID, err)
	}
	if member == 0 {
		return nil, fmt.Errorf("photo %d in this listing: %w", photo.ID, ErrNotFound)
	}

	n := &Neighbours{}
	if err := set.Count(&n.Count).Error; err != nil {
		return nil, fmt.Errorf("failed to count listing: %w", err)
	}

	before := set.Where("photos.name < ? OR (photos.name = ? AND photos.id < ?)", photo.Name, photo.Name, photo.ID).
		Session(&gorm.Session{})
	var index int64
	if err := before.Count(&index).Error; err != nil {
		return nil, fmt.Errorf("failed to find index of photo %d: %w", photo.ID, err)
	}
	n.Index = int(index) + 1

	var prev []uint
	err = before.Order("photos.name DESC").Order("photos.id DESC").Limit(1).Pluck("photos.id", &prev).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find previous photo: %w", err)
	}
	if len(prev) == 1 {
		n.PreviousID = &prev[0]
	}

	var next []uint
	err = set.Where("photos.name > ? OR (photos.name = ? AND photos.id > ?)", photo.Name, photo.Name, photo.ID).
		Order("photos.name ASC").Order("photos.id ASC").Limit(1).Pluck("photos.id", &next).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find next photo: %w", err)
	}
	if len(next) == 1 {
		n.NextID = &next[0]
	}

	return n, nil
}

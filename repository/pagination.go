package repository

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
)

// Page is one page of a listing.
type Page[T any] struct {
	Number      int   `json:"number"`
	NumPages    int   `json:"num_pages"`
	PerPage     int   `json:"per_page"`
	Count       int64 `json:"count"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
	Items       []T   `json:"items"`
}

// ParsePageNumber reads a page request parameter. anything that is not an
// integer means page 1.
func ParsePageNumber(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return n
}

// Paginate loads page rawPage of query. an empty listing still has page 1;
// any other page outside 1..NumPages is ErrNotFound. preloads only apply to
// the loaded items.
func Paginate[T any](query *gorm.DB, perPage int, rawPage string, preloads ...string) (*Page[T], error) {
	if perPage <= 0 {
		return nil, fmt.Errorf("invalid page size %d", perPage)
	}
	number := ParsePageNumber(rawPage)

	var count int64
	if err := query.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to count listing: %w", err)
	}

	numPages := int((count + int64(perPage) - 1) / int64(perPage))
	if numPages == 0 {
		numPages = 1
	}
	if number < 1 || number > numPages {
		return nil, fmt.Errorf("page %d of %d: %w", number, numPages, ErrNotFound)
	}

	items := make([]T, 0, perPage)
	page := query.Session(&gorm.Session{})
	for _, p := range preloads {
		page = page.Preload(p)
	}
	err := page.Offset((number - 1) * perPage).Limit(perPage).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load page %d: %w", number, err)
	}

	return &Page[T]{
		Number:      number,
		NumPages:    numPages,
		PerPage:     perPage,
		Count:       count,
		HasNext:     number < numPages,
		HasPrevious: number > 1,
		Items:       items,
	}, nil
}

package handlers

import (
	"fmt"

	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/repository"
)

// PhotoSummary is a photo as shown in listings. the thumbnail is rendered
// when its URL is first requested.
type PhotoSummary struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	AlbumID      uint   `json:"album_id"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func thumbnailURL(photoID uint, size string) string {
	return fmt.Sprintf("/api/photos/%d/thumbnail/%s", photoID, size)
}

func summarize(p *models.Photo, size string) *PhotoSummary {
	if p == nil {
		return nil
	}
	return &PhotoSummary{ID: p.ID, Name: p.Name, AlbumID: p.AlbumID, ThumbnailURL: thumbnailURL(p.ID, size)}
}

// photoPage converts a page of photos to summaries
func photoPage(page *repository.Page[models.Photo], size string) *repository.Page[PhotoSummary] {
	out := &repository.Page[PhotoSummary]{
		Number:      page.Number,
		NumPages:    page.NumPages,
		PerPage:     page.PerPage,
		Count:       page.Count,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
		Items:       make([]PhotoSummary, 0, len(page.Items)),
	}
	for i := range page.Items {
		out.Items = append(out.Items, *summarize(&page.Items[i], size))
	}
	return out
}

// Covered pairs a listed entity with its cover photo
type Covered[T any] struct {
	Item  T             `json:"item"`
	Cover *PhotoSummary `json:"cover"`
}

// withCovers looks up the cover photo of every item of a page
func withCovers[T any](page *repository.Page[T], size string, id func(*T) uint, cover func(uint) (*models.Photo, error)) (*repository.Page[Covered[T]], error) {
	out := &repository.Page[Covered[T]]{
		Number:      page.Number,
		NumPages:    page.NumPages,
		PerPage:     page.PerPage,
		Count:       page.Count,
		HasNext:     page.HasNext,
		HasPrevious: page.HasPrevious,
		Items:       make([]Covered[T], 0, len(page.Items)),
	}
	for i := range page.Items {
		photo, err := cover(id(&page.Items[i]))
		if err != nil {
			return nil, err
		}
		out.Items = append(out.Items, Covered[T]{Item: page.Items[i], Cover: summarize(photo, size)})
	}
	return out, nil
}

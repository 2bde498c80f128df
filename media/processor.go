package media

import (
	"fmt"
	"image"
	"io"
	"log"

	"github.com/disintegration/imaging"
)

const ThumbnailJpegQuality = 90

// Processor handles media transformations like thumbnailing and rotation. it
// relies on a Store implementation for reading originals and saving results.
type Processor struct {
	store Store
}

func NewProcessor(store Store) *Processor {
	return &Processor{store: store}
}

// Store returns the store the processor reads from and writes to
func (p *Processor) Store() Store {
	return p.store
}

// Resize applies a size spec to img. fit crops to the exact box around the
// center; thumb shrinks to fit inside the box and never enlarges.
func Resize(img image.Image, spec SizeSpec) *image.NRGBA {
	switch spec.Method {
	case MethodFit:
		return imaging.Fill(img, spec.Width, spec.Height, imaging.Center, imaging.Lanczos)
	default:
		b := img.Bounds()
		if b.Dx() <= spec.Width && b.Dy() <= spec.Height {
			return imaging.Clone(img)
		}
		return imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)
	}
}

// GenerateThumbnail renders the original at originalPath with the given size
// string and writes it to the derived thumbnail path, replacing whatever is
// already there. returns the relative path of the thumbnail.
func (p *Processor) GenerateThumbnail(originalPath, size string) (string, error) {
	spec, err := ParseSize(size)
	if err != nil {
		return "", err
	}

	img, err := p.decode(originalPath)
	if err != nil {
		return "", err
	}

	thumbPath, err := AllocateThumbnailPath(p.store, originalPath, size)
	if err != nil {
		return "", err
	}

	if err := p.encodeTo(thumbPath, Resize(img, spec)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail for %s: %w", originalPath, err)
	}

	log.Printf("processor: Generated %s thumbnail for %s at %s", size, originalPath, thumbPath)
	return thumbPath, nil
}

// Rotate turns the stored image a quarter turn clockwise and writes it back
// to the same path.
func (p *Processor) Rotate(relPath string) error {
	img, err := p.decode(relPath)
	if err != nil {
		return err
	}
	if err := p.encodeTo(relPath, imaging.Rotate270(img)); err != nil {
		return fmt.Errorf("failed to save rotated image %s: %w", relPath, err)
	}
	log.Printf("processor: Rotated %s", relPath)
	return nil
}

func (p *Processor) decode(relPath string) (image.Image, error) {
	rc, _, err := p.store.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	img, err := imaging.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", relPath, err)
	}
	return img, nil
}

// encodeTo streams img to the store in the format implied by relPath
func (p *Processor) encodeTo(relPath string, img image.Image) error {
	format, err := imaging.FormatFromFilename(relPath)
	if err != nil {
		return err
	}

	reader, writer := io.Pipe()
	go func() {
		err := imaging.Encode(writer, img, format, imaging.JPEGQuality(ThumbnailJpegQuality))
		if err != nil {
			log.Printf("processor: Failed to encode %s: %v", relPath, err)
			writer.CloseWithError(fmt.Errorf("encoding failed: %w", err))
			return
		}
		writer.Close()
	}()

	err = p.store.Save(relPath, reader)
	reader.Close()
	return err
}

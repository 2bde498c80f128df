package media

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ResizeMethod selects how a thumbnail is derived from its original
type ResizeMethod string

const (
	// MethodFit crops and scales to exactly the requested size
	MethodFit ResizeMethod = "fit"
	// MethodThumb scales down to fit inside the requested box without cropping
	MethodThumb ResizeMethod = "thumb"
)

// ErrInvalidSizeSpec is returned for size strings not shaped like 800x600-fit
var ErrInvalidSizeSpec = errors.New("invalid size spec")

// SizeSpec is a parsed "WIDTHxHEIGHT-METHOD" string
type SizeSpec struct {
	Width  int
	Height int
	Method ResizeMethod
}

func (s SizeSpec) String() string {
	return fmt.Sprintf("%dx%d-%s", s.Width, s.Height, s.Method)
}

// ParseSize converts a size such as "800x600-fit" into its parts
func ParseSize(size string) (SizeSpec, error) {
	parts := strings.Split(size, "-")
	if len(parts) != 2 {
		return SizeSpec{}, fmt.Errorf("%w: %q must look like 000x000-method such as 800x600-fit", ErrInvalidSizeSpec, size)
	}

	method := ResizeMethod(parts[1])
	if method != MethodFit && method != MethodThumb {
		return SizeSpec{}, fmt.Errorf("%w: method must be %q or %q, not %q", ErrInvalidSizeSpec, MethodFit, MethodThumb, parts[1])
	}

	dims := strings.Split(parts[0], "x")
	if len(dims) != 2 {
		return SizeSpec{}, fmt.Errorf("%w: %q must look like 000x000-method such as 800x600-fit", ErrInvalidSizeSpec, size)
	}
	width, err := strconv.Atoi(dims[0])
	if err != nil {
		return SizeSpec{}, fmt.Errorf("%w: width %q is not an integer", ErrInvalidSizeSpec, dims[0])
	}
	height, err := strconv.Atoi(dims[1])
	if err != nil {
		return SizeSpec{}, fmt.Errorf("%w: height %q is not an integer", ErrInvalidSizeSpec, dims[1])
	}
	if width <= 0 || height <= 0 {
		return SizeSpec{}, fmt.Errorf("%w: width and height must both be greater than 0", ErrInvalidSizeSpec)
	}

	return SizeSpec{Width: width, Height: height, Method: method}, nil
}

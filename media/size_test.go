package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSize(t *testing.T) {
	spec, err := ParseSize("800x600-fit")
	require.NoError(t, err)
	assert.Equal(t, SizeSpec{Width: 800, Height: 600, Method: MethodFit}, spec)
	assert.Equal(t, "800x600-fit", spec.String())

	spec, err = ParseSize("200x200-thumb")
	require.NoError(t, err)
	assert.Equal(t, MethodThumb, spec.Method)

	invalid := []string{
		"",
		"800x600",
		"800x600-fit-extra",
		"800x600-stretch",
		"800-fit",
		"800x600x2-fit",
		"axb-fit",
		"0x600-fit",
		"800x-3-thumb",
	}
	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			_, err := ParseSize(s)
			assert.ErrorIs(t, err, ErrInvalidSizeSpec)
		})
	}
}

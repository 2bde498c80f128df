package permissions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllGalleryPermissions(t *testing.T) {
	all := AllGalleryPermissions()
	assert.Len(t, all, 12)
	assert.Contains(t, all, AlbumDelete)
	assert.Contains(t, all, PhotoAdd)

	all[0] = "mutated"
	assert.NotEqual(t, "mutated", AllGalleryPermissions()[0])

	assert.True(t, IsValidPermissionKey(PersonEdit))
	assert.False(t, IsValidPermissionKey("role.create"))

	def, ok := GetPermissionDefinition(LocationDelete)
	assert.True(t, ok)
	assert.Equal(t, "Delete Location", def.Name)
}

package permissions

// Permission keys checked by the API.
const (
	LocationCreate = "location.create"
	LocationEdit   = "location.edit"
	LocationDelete = "location.delete"

	PersonCreate = "person.create"
	PersonEdit   = "person.edit"
	PersonDelete = "person.delete"

	AlbumCreate = "album.create"
	AlbumEdit   = "album.edit"
	AlbumDelete = "album.delete"

	PhotoAdd    = "photo.add"
	PhotoEdit   = "photo.edit"
	PhotoDelete = "photo.delete"
)

// PermissionDefinition describes a single, specific permission
type PermissionDefinition struct {
	Key         string `json:"key"`         // unique key, e.g., "album.create"
	Name        string `json:"name"`        // friendly name, e.g., "Create Album"
	Description string `json:"description"` // what the permission allows
}

// PermissionGroupDefinition groups related permissions
type PermissionGroupDefinition struct {
	Key         string                 `json:"key"`
	Name        string                 `json:"name"`
	Permissions []PermissionDefinition `json:"permissions"`
}

// DefinedPermissionGroups holds all statically defined permission groups and their permissions
var DefinedPermissionGroups = []PermissionGroupDefinition{
	{
		Key:  "location",
		Name: "Locations",
		Permissions: []PermissionDefinition{
			{Key: LocationCreate, Name: "Create Location", Description: "Allows adding new locations."},
			{Key: LocationEdit, Name: "Edit Location", Description: "Allows renaming locations."},
			{Key: LocationDelete, Name: "Delete Location", Description: "Allows deleting locations. Their albums are kept."},
		},
	},
	{
		Key:  "person",
		Name: "People",
		Permissions: []PermissionDefinition{
			{Key: PersonCreate, Name: "Create Person", Description: "Allows adding people that can be tagged."},
			{Key: PersonEdit, Name: "Edit Person", Description: "Allows renaming people."},
			{Key: PersonDelete, Name: "Delete Person", Description: "Allows deleting people and their tags."},
		},
	},
	{
		Key:  "album",
		Name: "Albums",
		Permissions: []PermissionDefinition{
			{Key: AlbumCreate, Name: "Create Album", Description: "Allows creating albums."},
			{Key: AlbumEdit, Name: "Edit Album", Description: "Allows editing and merging albums."},
			{Key: AlbumDelete, Name: "Delete Album", Description: "Allows deleting albums with all of their photos."},
		},
	},
	{
		Key:  "photo",
		Name: "Photos",
		Permissions: []PermissionDefinition{
			{Key: PhotoAdd, Name: "Upload Photos", Description: "Allows uploading photos into albums."},
			{Key: PhotoEdit, Name: "Edit Photo", Description: "Allows renaming, tagging, moving and rotating photos."},
			{Key: PhotoDelete, Name: "Delete Photo", Description: "Allows deleting photos."},
		},
	},
}

var (
	allPermissionKeysMap map[string]PermissionDefinition
	allPermissionKeys    []string
)

func init() {
	allPermissionKeysMap = make(map[string]PermissionDefinition)
	for _, group := range DefinedPermissionGroups {
		for _, perm := range group.Permissions {
			allPermissionKeysMap[perm.Key] = perm
			allPermissionKeys = append(allPermissionKeys, perm.Key)
		}
	}
}

// AllGalleryPermissions returns every permission key, the set granted to
// accounts registered with the admin code
func AllGalleryPermissions() []string {
	keys := make([]string, len(allPermissionKeys))
	copy(keys, allPermissionKeys)
	return keys
}

// IsValidPermissionKey checks if a given permission key is defined
func IsValidPermissionKey(key string) bool {
	_, ok := allPermissionKeysMap[key]
	return ok
}

// GetPermissionDefinition retrieves a specific permission definition by its key.
func GetPermissionDefinition(key string) (PermissionDefinition, bool) {
	def, ok := allPermissionKeysMap[key]
	return def, ok
}

package media

import (
	"regexp"
	"strings"
)

const maxFriendlyNameLength = 200

var (
	friendlyNoise   = regexp.MustCompile(`[/\\_\[\]#]`)
	repeatedSpacing = regexp.MustCompile(`\s{2,}`)
)

// SplitExtension splits filename into stem and lowercase extension without
// the dot. leading dots do not start an extension, so ".jpg" has none.
func SplitExtension(filename string) (string, string) {
	baseStart := strings.LastIndexAny(filename, `/\`) + 1
	base := filename[baseStart:]

	i := strings.LastIndex(base, ".")
	if i <= 0 || strings.Trim(base[:i], ".") == "" {
		return filename, ""
	}
	cut := baseStart + i
	return filename[:cut], strings.ToLower(filename[cut+1:])
}

// FriendlyFilename turns an uploaded filename into a display name:
//
//	"C:\\Users\\me\\IMG_0042 [edit].JPG" -> "IMG 0042 edit"
func FriendlyFilename(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		filename = filename[i+1:]
	}
	stem, _ := SplitExtension(filename)

	name := friendlyNoise.ReplaceAllString(stem, " ")
	name = repeatedSpacing.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if r := []rune(name); len(r) > maxFriendlyNameLength {
		name = string(r[:maxFriendlyNameLength])
	}
	return name
}

// FileAllowed reports whether filename has one of the allowed extensions.
// allowed entries are lowercase without a leading dot.
func FileAllowed(filename string, allowed []string) bool {
	_, ext := SplitExtension(filename)
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}

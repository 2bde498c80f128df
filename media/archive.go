package media

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/facette/natsort"
)

// ArchiveEntry is one stored file to include in an archive under Name
type ArchiveEntry struct {
	Name string
	Path string
}

// WriteArchive streams a ZIP of entries to w. entries are written in natural
// name order and duplicate names get a " (n)" suffix. files missing from the
// store are skipped.
func WriteArchive(w io.Writer, store Store, entries []ArchiveEntry) (int, error) {
	sorted := make([]ArchiveEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return natsort.Compare(strings.ToLower(sorted[i].Name), strings.ToLower(sorted[j].Name))
	})

	zipWriter := zip.NewWriter(w)
	seen := make(map[string]int, len(sorted))
	written := 0

	for _, entry := range sorted {
		src, _, err := store.Open(entry.Path)
		if err != nil {
			log.Printf("zipper: Failed to open %s for zipping: %v. Skipping.", entry.Path, err)
			continue
		}

		name := uniqueArchiveName(seen, entry.Name)
		fw, err := zipWriter.Create(name)
		if err != nil {
			src.Close()
			zipWriter.Close()
			return written, fmt.Errorf("failed to create zip entry %s: %w", name, err)
		}

		_, err = io.Copy(fw, src)
		src.Close()
		if err != nil {
			zipWriter.Close()
			return written, fmt.Errorf("failed to write %s to zip: %w", name, err)
		}
		written++
	}

	if err := zipWriter.Close(); err != nil {
		return written, fmt.Errorf("failed to finalize zip: %w", err)
	}
	return written, nil
}

func uniqueArchiveName(seen map[string]int, name string) string {
	key := strings.ToLower(name)
	n := seen[key]
	seen[key] = n + 1
	if n == 0 {
		return name
	}
	stem, ext := SplitExtension(name)
	if ext != "" {
		ext = "." + ext
	}
	candidate := fmt.Sprintf("%s (%d)%s", stem, n+1, ext)
	seen[strings.ToLower(candidate)]++
	return candidate
}

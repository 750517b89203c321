package folio

import (
	"fmt"
	"io/fs"
	"sort"
)

// contentPatterns mirror the historical site's glob set: standalone files at
// the content root plus one level of per-post directories holding an index
// file.
var contentPatterns = []string{
	"*.md",
	"*.mdx",
	"*/index.md",
	"*/index.mdx",
}

// DiscoverContent finds and reads every content file under fsys. The result
// is sorted by path, which doubles as the catalog's tie-break order for
// posts sharing a date.
func DiscoverContent(fsys fs.FS) ([]ContentFile, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range contentPatterns {
		matches, err := fs.Glob(fsys, pattern)
		if err != nil {
			return nil, fmt.Errorf("folio: glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	sort.Strings(paths)

	files := make([]ContentFile, 0, len(paths))
	for _, p := range paths {
		raw, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("folio: read %s: %w", p, err)
		}
		files = append(files, ContentFile{Path: p, Raw: raw})
	}
	return files, nil
}

// internal/util/util.go
package util

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^\w- ]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

// ComputeBaseHref calculates the relative path to the site root
// so that CSS/JS links work correctly for pages at any depth.
// For example, a page at /projects/a/b.html would get a BaseHref of "../../".
func ComputeBaseHref(relPath string) string {
	dir := filepath.Dir(relPath)
	if dir == "." {
		return ""
	}
	depth := strings.Count(dir, string(os.PathSeparator)) + 1
	return strings.Repeat("../", depth)
}

// Slugify lowercases s and reduces it to word characters and dashes.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = dashRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// IDSlug is a file-name-safe, collision-resistant slug for an arbitrary
// identifier: the slugified id (at most 40 bytes) plus a hash of the raw id.
func IDSlug(id string) string {
	h := fnv.New32a()
	h.Write([]byte(id))
	base := Slugify(id)
	if len(base) > 40 {
		base = strings.Trim(base[:40], "-")
	}
	if base == "" {
		base = "item"
	}
	return fmt.Sprintf("%s-%08x", base, h.Sum32())
}

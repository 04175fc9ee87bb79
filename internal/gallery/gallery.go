// Package gallery builds the deduplicated image gallery of a product detail view.
package gallery

import (
	"slices"

	"github.com/samber/lo"
)

// Build returns the thumbnail followed by images, skipping empty and repeated
// entries. An empty result holds exactly the placeholder.
func Build(thumbnail string, images []string, placeholder string) []string {
	candidates := make([]string, 0, len(images)+1)
	candidates = append(candidates, thumbnail)
	candidates = append(candidates, images...)

	out := lo.Uniq(lo.Compact(candidates))
	if len(out) == 0 {
		return []string{placeholder}
	}
	return out
}

// Substitute replaces entries reported as broken with the placeholder and
// deduplicates the result again.
func Substitute(images []string, broken func(string) bool, placeholder string) []string {
	replaced := lo.Map(images, func(img string, _ int) string {
		if broken(img) {
			return placeholder
		}
		return img
	})

	out := lo.Uniq(lo.Compact(replaced))
	if len(out) == 0 {
		return []string{placeholder}
	}
	return out
}

// Gallery is the selection state of the detail view gallery.
type Gallery struct {
	Images []string
	Main   string
}

// New creates a gallery whose main image is its first entry.
func New(thumbnail string, images []string, placeholder string) Gallery {
	return FromImages(Build(thumbnail, images, placeholder))
}

// FromImages wraps an already built image list.
func FromImages(images []string) Gallery {
	g := Gallery{Images: images}
	if len(images) > 0 {
		g.Main = images[0]
	}
	return g
}

// Select returns the gallery with entry as the main image. Entries that are
// not part of the gallery leave the state unchanged.
func (g Gallery) Select(entry string) Gallery {
	if !slices.Contains(g.Images, entry) {
		return g
	}
	g.Main = entry
	return g
}

package tags

import (
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tgienger/tasquest/internal/models"
)

const (
	// CompactLimit is the visible length of a tag in a task list row
	CompactLimit = 5
	// DetailLimit is the visible length of a tag in the task detail popup
	DetailLimit = 8
	// MaxListTags caps how many tags a list row shows
	MaxListTags = 3

	ellipsis = "..."
)

// Truncate shortens name to limit user-perceived characters followed by an
// ellipsis. Characters are grapheme clusters, so combining marks and emoji
// sequences are never split.
func Truncate(name string, limit int) string {
	if uniseg.GraphemeClusterCount(name) <= max(limit, 0) {
		return name
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(name)
	for i := 0; i < limit && g.Next(); i++ {
		b.WriteString(g.Str())
	}
	b.WriteString(ellipsis)
	return b.String()
}

// Compact truncates a tag name for list rows
func Compact(tag models.Tag) string {
	return Truncate(tag.Name, CompactLimit)
}

// Detail truncates a tag name for the detail popup
func Detail(tag models.Tag) string {
	return Truncate(tag.Name, DetailLimit)
}

// ForList returns the tags a list row has room for
func ForList(all []models.Tag) []models.Tag {
	if len(all) > MaxListTags {
		return all[:MaxListTags]
	}
	return all
}

// Names joins tag names for the detail "Tags:" line
func Names(all []models.Tag) string {
	names := make([]string, len(all))
	for i, t := range all {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

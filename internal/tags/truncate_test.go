package tags

import (
	"testing"

	"github.com/tgienger/tasquest/internal/models"
)

func TestTruncate(t *testing.T) {
	cases := []struct {
		name  string
		limit int
		want  string
	}{
		{"Important", 5, "Impor..."},
		{"Important", 8, "Importan..."},
		{"Work", 5, "Work"},
		{"Study", 5, "Study"},
		{"", 5, ""},
		{"にほんごのタグ", 5, "にほんごの..."},
		{"cafe\u0301s", 4, "cafe\u0301..."},
		{"cafés", 4, "café..."},
		{"👍🏽👍🏽👍🏽", 2, "👍🏽👍🏽..."},
		{"abc", 0, "..."},
	}
	for _, tc := range cases {
		if got := Truncate(tc.name, tc.limit); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.name, tc.limit, got, tc.want)
		}
	}
}

func TestTruncateIsIdempotent(t *testing.T) {
	names := []string{"Important", "Work", "にほんごのタグ", "cafés", "a"}
	for _, limit := range []int{1, CompactLimit, DetailLimit} {
		for _, name := range names {
			once := Truncate(name, limit)
			if twice := Truncate(once, limit); twice != once {
				t.Errorf("Truncate not idempotent for %q at %d: %q then %q", name, limit, once, twice)
			}
		}
	}
}

func TestCompactAndDetail(t *testing.T) {
	tag := models.Tag{Name: "Important"}
	if got := Compact(tag); got != "Impor..." {
		t.Fatalf("Compact = %q", got)
	}
	if got := Detail(tag); got != "Importan..." {
		t.Fatalf("Detail = %q", got)
	}
}

func TestForListAndNames(t *testing.T) {
	all := []models.Tag{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}
	if got := ForList(all); len(got) != MaxListTags {
		t.Fatalf("expected %d tags, got %d", MaxListTags, len(got))
	}
	if got := ForList(all[:2]); len(got) != 2 {
		t.Fatalf("short lists must pass through")
	}
	if got := Names(all); got != "a, b, c, d" {
		t.Fatalf("Names = %q", got)
	}
	if got := Names(nil); got != "" {
		t.Fatalf("Names(nil) = %q", got)
	}
}

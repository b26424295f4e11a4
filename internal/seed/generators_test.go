package seed

import (
	"strings"
	"testing"
	"time"

	"housegig/internal/models"
)

func TestBuildListing_TimestampsAndShape(t *testing.T) {
	opts := SeedOptions{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	owner := &models.User{ID: 1}

	l := f.BuildListing(owner)
	if l.Title == "" {
		t.Fatalf("expected a generated title")
	}
	if l.Title[:1] != strings.ToUpper(l.Title[:1]) {
		t.Fatalf("title should be capitalized: %s", l.Title)
	}

	found := false
	for _, pt := range propertyTypes {
		if l.PropertyType == pt {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("unexpected property type: %s", l.PropertyType)
	}

	if len(l.Tags) < 1 || len(l.Tags) > 4 {
		t.Fatalf("expected 1-4 tags, got %d", len(l.Tags))
	}

	// timestamp should be within MaxDays
	if time.Since(l.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", l.CreatedAt)
	}
}

func TestPickTags_NoDuplicates(t *testing.T) {
	for i := 0; i < 20; i++ {
		tags := pickTags()
		seen := map[string]bool{}
		for _, tag := range tags {
			if seen[tag] {
				t.Fatalf("duplicate tag %q in %v", tag, tags)
			}
			seen[tag] = true
		}
	}
}

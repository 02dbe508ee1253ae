package apps

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"
)

/*
	App slug helpers
	----------------
	- Responsible ONLY for:
	  • normalizing display names into base slugs
	  • finding a free slug against the apps table
	- No billing logic, no ownership logic here
*/

// maxSlugAttempts bounds the suffix search so an adversarially pre-populated
// slug space cannot spin the allocator forever.
const maxSlugAttempts = 100

// ErrSlugExhausted is returned when base, base-1 … base-(maxSlugAttempts-1)
// are all taken.
var ErrSlugExhausted = errors.New("slug space exhausted")

var (
	nonSlug   = regexp.MustCompile(`[^a-z0-9\-]+`)
	multiDash = regexp.MustCompile(`-+`)
)

// MakeSlug generates a URL-safe base slug from an app name.
// Example: "My Coffee Club" -> "my-coffee-club"
func MakeSlug(name string) string {
	base := strings.ToLower(strings.TrimSpace(name))
	base = strings.ReplaceAll(base, " ", "-")
	base = nonSlug.ReplaceAllString(base, "")
	base = multiDash.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "app"
	}
	return base
}

// AllocateSlug returns base if no app uses it, otherwise the first free
// suffixed candidate (base-1, base-2, …).
//
// Two racing allocations can both see a candidate as free; the uniqueIndex on
// apps.slug catches the loser at insert time.
func AllocateSlug(db *gorm.DB, base string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}
	return allocate(MakeSlug(base), func(slug string) (bool, error) {
		var count int64
		if err := db.Model(&App{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	})
}

func allocate(base string, taken func(string) (bool, error)) (string, error) {
	for i := 0; i < maxSlugAttempts; i++ {
		candidate := base
		if i > 0 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}

		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

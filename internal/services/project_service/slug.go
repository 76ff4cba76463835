package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// slugify lowercases title and collapses every non-alphanumeric run
// into a single hyphen.
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true

	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "project"
	}

	return slug
}

// uniqueSlug resolves collisions by appending a numeric suffix: the
// second "kitchen-remodel" becomes "kitchen-remodel-2", then "-3" and
// so on.
func uniqueSlug(ctx context.Context, checker slugChecker, title string) (string, error) {
	base := slugify(title)

	slug := base
	for i := 2; ; i++ {
		exists, err := checker.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}

		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

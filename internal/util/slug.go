package util

import (
	"fmt"
	"math/rand"
	"strings"
	"unicode"
	"unicode/utf8"
)

const slugMaxLength = 80

// Slugify turns a title into a URL-safe slug: lowercase, words joined by
// hyphens, everything else dropped.
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
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
	if len(slug) > slugMaxLength {
		// Back off to a rune boundary so multibyte letters are never split
		cut := slugMaxLength
		for cut > 0 && !utf8.RuneStart(slug[cut]) {
			cut--
		}
		slug = strings.Trim(slug[:cut], "-")
	}
	if slug == "" {
		slug = "untitled"
	}
	return slug
}

// UniqueSlug appends a short random suffix, used when the plain slug is taken
func UniqueSlug(slug string) string {
	return fmt.Sprintf("%s-%04x", slug, rand.Intn(0x10000))
}

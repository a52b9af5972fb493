// Package util holds small helpers shared by the commands and the player.
package util

import (
	"fmt"
	"slices"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/constraints"
)

// Quantify pairs count with the singular or plural noun: "1 track", "3 tracks".
func Quantify(count int, singular, plural string) string {
	noun := plural
	if count == 1 {
		noun = singular
	}
	return fmt.Sprintf("%d %s", count, noun)
}

// Capitalize upper-cases the first rune.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Ignore calls f and drops its error. Meant for deferred Close calls.
func Ignore(f func() error) {
	_ = f()
}

// Max is the largest of items, or the zero value without items.
func Max[T constraints.Ordered](items ...T) T {
	if len(items) == 0 {
		var zero T
		return zero
	}
	return slices.Max(items)
}

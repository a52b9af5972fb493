// Package icon renders the symbols used by the player and the CLI.
//
// Every symbol has one glyph per Variant. The variant comes from the
// icons.variant setting and falls back to Plain when it is unknown.
package icon

import (
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/ytfree-cli/ytfree/key"
)

// Variant is a glyph set.
type Variant string

const (
	Plain   Variant = "plain"
	Emoji   Variant = "emoji"
	Nerd    Variant = "nerd"
	Kaomoji Variant = "kaomoji"
	Squares Variant = "squares"
)

var variants = []Variant{Plain, Emoji, Nerd, Kaomoji, Squares}

// AvailableVariants lists the variant names accepted by icons.variant.
func AvailableVariants() []string {
	return lo.Map(variants, func(v Variant, _ int) string { return string(v) })
}

// Current is the configured variant.
func Current() Variant {
	v := Variant(viper.GetString(key.IconsVariant))
	if lo.Contains(variants, v) {
		return v
	}
	return Plain
}

type glyphs map[Variant]string

// Get renders i in the configured variant.
func Get(i Icon) string {
	return GetAs(i, Current())
}

// GetAs renders i in variant v. Glyphs missing from a variant fall back to Plain.
func GetAs(i Icon, v Variant) string {
	g, ok := icons[i]
	if !ok {
		return ""
	}
	if s, ok := g[v]; ok {
		return s
	}
	return g[Plain]
}

package ui

import (
	"strings"

	"github.com/idilsaglam/tierlist/internal/model"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                   string
	Title, Muted, Accent, Success, Error   string
	Tiers                                  map[model.Tier]string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                   string
	SymStar, SymBullet                     string
	BarFull, BarEmpty                      string
}

var current = theme("classic")

// Themes lists the accepted theme names.
var Themes = []string{"classic", "neon", "mono"}

func SetTheme(name string) { current = theme(name) }

func theme(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "neon":
		return Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed,
			Tiers: map[model.Tier]string{
				model.TierGod: "\033[95m", model.TierS: "\033[91m", model.TierA: "\033[93m",
				model.TierB: "\033[92m", model.TierC: "\033[96m", model.TierD: "\033[94m",
				model.TierUnrated: fgGray,
			},
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymStar: "★", SymBullet: "•",
			BarFull: "█", BarEmpty: "░",
		}
	case "mono":
		return Theme{
			Name:     "mono",
			Tiers:    map[model.Tier]string{},
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymStar: "*", SymBullet: "-",
			BarFull: "#", BarEmpty: ".",
		}
	default: // classic
		return Theme{
			Name:  "classic",
			Title: bold, Muted: fgGray, Accent: fgBlue,
			Success: fgGreen, Error: fgRed,
			Tiers: map[model.Tier]string{
				model.TierGod: fgMagenta, model.TierS: fgRed, model.TierA: fgYellow,
				model.TierB: fgGreen, model.TierC: fgCyan, model.TierD: fgBlue,
				model.TierUnrated: dim,
			},
			CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
			H: "─", V: "│",
			SymStar: "★", SymBullet: "•",
			BarFull: "█", BarEmpty: "░",
		}
	}
}

// Expose what renderers need
func Current() Theme { return current }

// TierLabel colors a tier label with the current theme.
func TierLabel(t model.Tier) string {
	return C(current.Tiers[t], string(t))
}

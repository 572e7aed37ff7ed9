package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-gemfall/internal/core"
)

// Theme maps logical screen colors to terminal styles. Games draw with
// core.Color values; the theme decides what those look like on screen.
type Theme struct {
	Name   string
	styles map[core.Color]lipgloss.Style
}

// Style returns the style for a color, falling back to the default style.
func (t Theme) Style(c core.Color) lipgloss.Style {
	if s, ok := t.styles[c]; ok {
		return s
	}
	return t.styles[core.ColorDefault]
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// DefaultTheme uses the terminal's standard ANSI palette.
func DefaultTheme() Theme {
	return Theme{
		Name: "default",
		styles: map[core.Color]lipgloss.Style{
			core.ColorDefault:       lipgloss.NewStyle(),
			core.ColorRed:           fg("1"),
			core.ColorGreen:         fg("2"),
			core.ColorYellow:        fg("3"),
			core.ColorBlue:          fg("4"),
			core.ColorMagenta:       fg("5"),
			core.ColorCyan:          fg("6"),
			core.ColorWhite:         fg("7"),
			core.ColorBrightRed:     fg("9"),
			core.ColorBrightGreen:   fg("10"),
			core.ColorBrightYellow:  fg("11"),
			core.ColorBrightBlue:    fg("12"),
			core.ColorBrightMagenta: fg("13"),
			core.ColorBrightCyan:    fg("14"),
			core.ColorBrightWhite:   fg("15"),
			core.ColorOrange:        fg("208"),
			core.ColorGray:          fg("245"),
		},
	}
}

// NeonTheme swaps the gem colors for saturated 256-color shades.
func NeonTheme() Theme {
	t := DefaultTheme()
	t.Name = "neon"
	t.styles[core.ColorRed] = fg("199")
	t.styles[core.ColorGreen] = fg("118")
	t.styles[core.ColorYellow] = fg("227")
	t.styles[core.ColorBlue] = fg("45")
	t.styles[core.ColorMagenta] = fg("171")
	t.styles[core.ColorCyan] = fg("87")
	t.styles[core.ColorOrange] = fg("214")
	return t
}

// PastelTheme uses softer shades for the gem colors.
func PastelTheme() Theme {
	t := DefaultTheme()
	t.Name = "pastel"
	t.styles[core.ColorRed] = fg("218")
	t.styles[core.ColorGreen] = fg("157")
	t.styles[core.ColorYellow] = fg("229")
	t.styles[core.ColorBlue] = fg("153")
	t.styles[core.ColorMagenta] = fg("183")
	t.styles[core.ColorCyan] = fg("123")
	t.styles[core.ColorOrange] = fg("223")
	return t
}

// MonochromeTheme renders everything in grayscale. Gems stay
// distinguishable by their glyphs.
func MonochromeTheme() Theme {
	t := DefaultTheme()
	t.Name = "mono"
	t.styles[core.ColorRed] = fg("255")
	t.styles[core.ColorGreen] = fg("250")
	t.styles[core.ColorYellow] = fg("245")
	t.styles[core.ColorBlue] = fg("240")
	t.styles[core.ColorMagenta] = fg("235")
	t.styles[core.ColorCyan] = fg("252")
	t.styles[core.ColorOrange] = fg("247")
	return t
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"neon":    NeonTheme,
	"pastel":  PastelTheme,
	"mono":    MonochromeTheme,
}

// Global theme (can be changed at startup via --theme)
var activeTheme = DefaultTheme()

// SetTheme selects the active theme by name.
func SetTheme(name string) error {
	f, ok := themes[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	activeTheme = f()
	return nil
}

// ActiveTheme returns the current global theme.
func ActiveTheme() Theme {
	return activeTheme
}

// ThemeNames returns the available theme names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/mllab/internal/sim"
)

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Palette   map[sim.Color]lipgloss.Color
}

// Color resolves a scene color tag. Unknown tags use the text color.
func (t Theme) Color(c sim.Color) lipgloss.Color {
	if v, ok := t.Palette[c]; ok {
		return v
	}
	return t.Text
}

// Available themes
var (
	ThemeSlate = Theme{
		Name:      "default",
		Primary:   lipgloss.Color("#60a5fa"),
		Secondary: lipgloss.Color("#34d399"),
		Accent:    lipgloss.Color("#f472b6"),
		Text:      lipgloss.Color("#e2e8f0"),
		Muted:     lipgloss.Color("#64748b"),
		Success:   lipgloss.Color("#34d399"),
		Warning:   lipgloss.Color("#fbbf24"),
		Error:     lipgloss.Color("#f87171"),
		Palette: map[sim.Color]lipgloss.Color{
			sim.ColorEmerald: "#34d399",
			sim.ColorPink:    "#f472b6",
			sim.ColorBlue:    "#60a5fa",
			sim.ColorRose:    "#fb7185",
			sim.ColorOrange:  "#f97316",
			sim.ColorSlate:   "#475569",
			sim.ColorWhite:   "#e2e8f0",
		},
	}

	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"), // Magenta
		Secondary: lipgloss.Color("#00ffff"), // Cyan
		Accent:    lipgloss.Color("#ffff00"), // Yellow
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ff8800"),
		Error:     lipgloss.Color("#ff0000"),
		Palette: map[sim.Color]lipgloss.Color{
			sim.ColorEmerald: "#00ff88",
			sim.ColorPink:    "#ff00ff",
			sim.ColorBlue:    "#00ffff",
			sim.ColorRose:    "#ff0055",
			sim.ColorOrange:  "#ffff00",
			sim.ColorSlate:   "#444466",
			sim.ColorWhite:   "#ffffff",
		},
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"), // Green phosphor
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Success:   lipgloss.Color("#88ff88"),
		Warning:   lipgloss.Color("#ffff00"),
		Error:     lipgloss.Color("#ff0000"),
		Palette: map[sim.Color]lipgloss.Color{
			sim.ColorEmerald: "#00ff00",
			sim.ColorPink:    "#88ff88",
			sim.ColorBlue:    "#00cc00",
			sim.ColorRose:    "#ccff00",
			sim.ColorOrange:  "#ffff00",
			sim.ColorSlate:   "#005500",
			sim.ColorWhite:   "#00ff00",
		},
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Success:   lipgloss.Color("#00ff00"),
		Warning:   lipgloss.Color("#ffaa00"),
		Error:     lipgloss.Color("#ff0000"),
		Palette: map[sim.Color]lipgloss.Color{
			sim.ColorEmerald: "#ffffff",
			sim.ColorPink:    "#0088ff",
			sim.ColorBlue:    "#cccccc",
			sim.ColorRose:    "#888888",
			sim.ColorOrange:  "#0088ff",
			sim.ColorSlate:   "#444444",
			sim.ColorWhite:   "#ffffff",
		},
	}

	// Default theme
	CurrentTheme = ThemeSlate

	// All available themes
	Themes = []Theme{
		ThemeSlate,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeSlate
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeSlate
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

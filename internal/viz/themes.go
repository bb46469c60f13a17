package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the live view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // airplane and header
	Secondary lipgloss.Color // graphs
	Accent    lipgloss.Color
	Muted     lipgloss.Color
}

var (
	ThemeHUD = Theme{
		Name:      "hud",
		Primary:   lipgloss.Color("#00ff66"),
		Secondary: lipgloss.Color("#00cc55"),
		Accent:    lipgloss.Color("#aaffaa"),
		Muted:     lipgloss.Color("#336633"),
	}

	ThemeCockpit = Theme{
		Name:      "cockpit",
		Primary:   lipgloss.Color("#ffb000"),
		Secondary: lipgloss.Color("#ffd27f"),
		Accent:    lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#7a5a20"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Muted:     lipgloss.Color("#888888"),
	}

	ThemeDusk = Theme{
		Name:      "dusk",
		Primary:   lipgloss.Color("#ff6b6b"),
		Secondary: lipgloss.Color("#feca57"),
		Accent:    lipgloss.Color("#ff9ff3"),
		Muted:     lipgloss.Color("#8b6b8c"),
	}

	Themes = []Theme{ThemeHUD, ThemeCockpit, ThemeMinimal, ThemeDusk}
)

// GetTheme falls back to the HUD theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeHUD
}

// NextTheme cycles through Themes.
func NextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

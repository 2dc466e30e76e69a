package config

// ThemeOption describes an available color theme for the reference
// renderer's palette.
type ThemeOption struct {
	Name  string
	Label string
}

// ThemeOptions lists the available palette themes.
func ThemeOptions() []ThemeOption {
	return []ThemeOption{
		{Name: "classic-green", Label: "Classic Green Phosphor"},
		{Name: "amber", Label: "Amber Phosphor"},
		{Name: "paper-white", Label: "Paper White"},
		{Name: "solarized-dark", Label: "Solarized Dark"},
	}
}

// ThemeLabel returns the display label for a theme name: the classic green
// phosphor label when name is unset, and name itself when it is not one of
// ThemeOptions.
func ThemeLabel(name string) string {
	for _, opt := range ThemeOptions() {
		if opt.Name == name {
			return opt.Label
		}
	}
	if name == "" {
		return "Classic Green Phosphor"
	}
	return name
}

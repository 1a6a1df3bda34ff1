package nav

// Theme is an accent colour pair.
type Theme struct {
	Name      string
	Accent    string
	AccentDim string
}

var Themes = []Theme{
	{"Teal", "#4ecca3", "#3a9a7a"},
	{"Blue", "#3498db", "#2980b9"},
	{"Red", "#e74c3c", "#c0392b"},
	{"Purple", "#9b59b6", "#8e44ad"},
	{"Orange", "#e67e22", "#d35400"},
	{"Cyan", "#1abc9c", "#16a085"},
}

// ThemeAt returns the theme at i, falling back to the first.
func ThemeAt(i int) Theme {
	if i < 0 || i >= len(Themes) {
		return Themes[0]
	}
	return Themes[i]
}

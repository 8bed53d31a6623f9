package render

import "fmt"

// Theme picks the characters level bars are drawn with.
type Theme struct {
	Filled string
	Empty  string
}

var themes = map[string]Theme{
	"solid":    {"█", " "},
	"blocks":   {"█", "░"},
	"circles":  {"●", "○"},
	"diamonds": {"◆", "◇"},
	"shades":   {"▉", "▁"},
	"vintage":  {"#", "-"},
	"stars":    {"★", "☆"},
}

// ParseTheme resolves a theme by name.
func ParseTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q", name)
	}
	return t, nil
}

// ThemeNames lists the valid theme names for usage text.
func ThemeNames() []string {
	return []string{"solid", "blocks", "circles", "diamonds", "shades", "vintage", "stars"}
}

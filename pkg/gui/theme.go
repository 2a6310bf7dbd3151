package gui

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
)

// Theme is used for coloring the board and labels.
type Theme struct {
	Name         string
	SquareDark   tcell.Color
	SquareLight  tcell.Color
	SquareHigh   tcell.Color
	SquareForced tcell.Color
	Red          tcell.Color
	Black        tcell.Color
	Rank         tcell.Color
	Msg          tcell.Color
}

var themes = map[string]Theme{
	"classic": {
		Name:         "classic",
		SquareDark:   tcell.ColorDarkGreen,
		SquareLight:  tcell.ColorTan,
		SquareHigh:   tcell.ColorYellow,
		SquareForced: tcell.ColorOrange,
		Red:          tcell.ColorRed,
		Black:        tcell.ColorBlack,
		Rank:         tcell.ColorSilver,
		Msg:          tcell.ColorWhite,
	},
	"mono": {
		Name:         "mono",
		SquareDark:   tcell.ColorDimGray,
		SquareLight:  tcell.ColorSilver,
		SquareHigh:   tcell.ColorWhite,
		SquareForced: tcell.ColorGray,
		Red:          tcell.ColorWhite,
		Black:        tcell.ColorBlack,
		Rank:         tcell.ColorGray,
		Msg:          tcell.ColorWhite,
	},
}

// ThemeByName looks up one of the built-in themes.
func ThemeByName(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q, want one of %v", name, ThemeNames())
	}
	return t, nil
}

func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

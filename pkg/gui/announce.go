package gui

import (
	"io"

	"github.com/fatih/color"
	"github.com/qnkhuat/checkerterm/pkg/checkers"
)

// Announce prints the winner once the terminal is handed back.
func Announce(w io.Writer, winner, local checkers.Color) {
	c := color.New(color.FgRed, color.Bold)
	if winner == checkers.Black {
		c = color.New(color.FgHiBlack, color.Bold, color.BgWhite)
	}

	c.Fprintf(w, "%s wins!", winner)
	if winner == local {
		color.New(color.FgGreen).Fprint(w, " You won.")
	} else {
		color.New(color.FgYellow).Fprint(w, " You lost.")
	}
	io.WriteString(w, "\n")
}

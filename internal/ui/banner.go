package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/common-nighthawk/go-figure"
)

const boxWidth = 50

// Logo returns the tatua ASCII art title.
func Logo() string {
	return figure.NewFigure("Tatua", "standard", true).String()
}

// PrintBanner writes the logo and the campaign box shown at the start of a send.
func PrintBanner(w io.Writer, templates []string) {
	fmt.Fprintln(w, Success.Sprint(strings.TrimRight(Logo(), "\n")))
	fmt.Fprintln(w, box("E M A I L   M A R K E T I N G", templates...))
}

// PrintSending announces the template currently being sent.
func PrintSending(w io.Writer, name string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, box("Sending: "+name))
}

// PrintSuccess writes the closing box after every email went out.
func PrintSuccess(w io.Writer) {
	fmt.Fprintln(w, Success.Sprint(box("ALL EMAILS SENT SUCCESSFULLY!")))
}

// PrintFailure writes the closing box when something went wrong.
func PrintFailure(w io.Writer) {
	fmt.Fprintln(w, Error.Sprint(box("ERROR OCCURRED WHILE SENDING", "Please check your configuration")))
}

// box draws a single-line frame around a title and optional body lines.
func box(title string, lines ...string) string {
	inner := boxWidth - 2
	var b strings.Builder

	b.WriteString("┌" + strings.Repeat("─", inner) + "┐\n")
	b.WriteString(boxLine(title, inner))
	if len(lines) > 0 {
		b.WriteString(boxLine("", inner))
		for _, l := range lines {
			b.WriteString(boxLine("  "+l, inner))
		}
	}
	b.WriteString("└" + strings.Repeat("─", inner) + "┘")
	return b.String()
}

func boxLine(text string, width int) string {
	r := []rune("  " + text)
	if len(r) > width {
		r = append(r[:width-1], '…')
	}
	return "│" + string(r) + strings.Repeat(" ", width-len(r)) + "│\n"
}

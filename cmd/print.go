package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// printMarkdown renders a markdown report for the terminal. When rendering
// fails (no usable terminal profile for instance) the raw markdown is still
// readable, so print that instead.
func printMarkdown(markdown string) {
	out, err := glamour.Render(markdown, "auto")
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}

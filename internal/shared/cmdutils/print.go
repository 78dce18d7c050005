// Package cmdutils formats agent output for terminal commands.
package cmdutils

import (
	"fmt"
	"io"
)

// PrintResponse writes an agent reply the way the interactive CLI shows it.
func PrintResponse(w io.Writer, text string) {
	if text == "" {
		return
	}

	fmt.Fprintf(w, "Agent> %s\n\n", text)
}

// PrintToolResult writes the output of a directly invoked tool.
func PrintToolResult(w io.Writer, name, text string) {
	fmt.Fprintf(w, "[Tool:%s]> %s\n", name, text)
}

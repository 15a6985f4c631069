// Command rootmind studies a PDF with an AI assistant from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/rootmind/go-rootmind/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"os"

	"github.com/Tech2AI-collab/tech2ai-hub/cmd/pdf2pptx/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}

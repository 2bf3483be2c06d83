package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-skater/internal/registry"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available physics engines",
	Long:  `Shows the physics engines the game can run on.`,
	Args:  cobra.NoArgs,
	Run:   runEngines,
}

func runEngines(_ *cobra.Command, _ []string) {
	engines := registry.List()

	if len(engines) == 0 {
		fmt.Println("No engines available.")
		return
	}

	fmt.Println("Available engines:")
	fmt.Println()

	maxLen := 4 // "Name" header
	for _, e := range engines {
		maxLen = max(maxLen, len(e.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxLen, "----", "-----------")
	for _, e := range engines {
		fmt.Printf("  %-*s  %s\n", maxLen, e.Name, e.Description)
	}

	fmt.Println()
	fmt.Println("Run 'skater play --engine <name>' to use one.")
}

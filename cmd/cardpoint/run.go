package main

import (
	"fmt"

	"github.com/fwojciec/cardpoint"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	result, err := deps.Driver.Run(deps.Ctx, deps.Config.Sources)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}

	printSummary(deps, result, deps.Config.Sources)
	fmt.Fprintf(deps.Stdout, "Wrote %d stores to %s\n", len(result.Stores), c.Output)
	return nil
}

// printSummary writes one line per source in configuration order.
func printSummary(deps *Dependencies, result *cardpoint.Result, sources []*cardpoint.Source) {
	for _, src := range sources {
		m, ok := result.Meta.Sources[src.Label]
		if !ok {
			continue
		}
		line := fmt.Sprintf("%s: %d stores", src.Label, m.Count)
		if m.FromCache {
			line += " (cached)"
		}
		if m.Error != "" {
			line += " error: " + m.Error
		}
		fmt.Fprintln(deps.Stdout, line)
	}
}

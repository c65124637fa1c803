package main

import (
	"fmt"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/gemini"
)

// Run executes the check-model command.
func (c *CheckModelCmd) Run(deps *Dependencies) error {
	configured := deps.Config.ModelID
	if configured == "" {
		configured = "(auto)"
	}
	fmt.Fprintf(deps.Stdout, "configured: %s\n", configured)

	model := gemini.ResolveModel(deps.Ctx, deps.Models, deps.Config.ModelID)
	fmt.Fprintf(deps.Stdout, "resolved:   %s\n", model)

	if c.NoPing {
		return nil
	}

	reply, err := gemini.Ping(deps.Ctx, deps.Generator, model)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "reply:      %s\n", reply)
	return nil
}

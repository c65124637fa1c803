package main

import (
	"fmt"

	"github.com/fwojciec/cardpoint"
)

// Run executes the cache command.
func (c *CacheCmd) Run(deps *Dependencies) error {
	if c.List {
		return c.list(deps)
	}

	sources := deps.Config.Sources
	failed := 0
	for _, src := range sources {
		html, err := deps.Fetcher.Fetch(deps.Ctx, src.Target())
		if err == nil {
			err = deps.Cache.Save(deps.Ctx, src.Label, html)
		}
		if err != nil {
			fmt.Fprintf(deps.Stderr, "%s: %s\n", src.Label, cardpoint.ErrorMessage(err))
			failed++
			continue
		}
		fmt.Fprintf(deps.Stdout, "%s: cached %d bytes\n", src.Label, len(html))
	}

	if failed > 0 {
		return cardpoint.Errorf(cardpoint.EFETCH, "%d of %d sources failed", failed, len(sources))
	}
	return nil
}

func (c *CacheCmd) list(deps *Dependencies) error {
	if deps.Snapshots == nil {
		err := cardpoint.Errorf(cardpoint.EINVALID, "--list requires --cache=sqlite")
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}

	snapshots, err := deps.Snapshots.FindSnapshots(deps.Ctx, cardpoint.SnapshotFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(deps.Stdout, "No snapshots found. Run 'cardpoint cache --cache=sqlite' to take one.")
		return nil
	}

	rows := [][]string{{"LABEL", "FETCHED", "BYTES", "HASH"}}
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.Label,
			s.FetchedAt.Local().Format("2006-01-02 15:04:05"),
			fmt.Sprint(len(s.Content)),
			s.ContentHash,
		})
	}
	fmt.Fprint(deps.Stdout, FormatTable(rows))
	return nil
}

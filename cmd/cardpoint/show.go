package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fwojciec/cardpoint"
	"github.com/fwojciec/cardpoint/fs"
	"github.com/mattn/go-runewidth"
)

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	result, err := fs.ReadResult(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardpoint.ErrorMessage(err))
		return err
	}

	meta := result.Meta
	fmt.Fprintf(deps.Stdout, "run %s  model %s  generated %s\n\n",
		meta.RunID, meta.Model, meta.GeneratedAt.Local().Format("2006-01-02 15:04"))

	labels := make([]string, 0, len(meta.Sources))
	for label := range meta.Sources {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		m := meta.Sources[label]
		line := fmt.Sprintf("%s: %d stores", label, m.Count)
		if m.FromCache {
			line += " (cached)"
		}
		if m.Error != "" {
			line += " error: " + m.Error
		}
		if m.Promo != "" {
			line += "  「" + m.Promo + "」"
		}
		fmt.Fprintln(deps.Stdout, line)
	}

	if len(result.Stores) == 0 {
		fmt.Fprintln(deps.Stdout, "\nNo stores.")
		return nil
	}

	rows := [][]string{{"CARD", "NAME", "GROUP", "RATE"}}
	for _, r := range result.Stores {
		rows = append(rows, []string{
			r.String(cardpoint.FieldCard),
			r.Name(),
			r.String(cardpoint.FieldGroup),
			rate(r),
		})
	}
	fmt.Fprintln(deps.Stdout)
	fmt.Fprint(deps.Stdout, FormatTable(rows))
	return nil
}

func rate(r cardpoint.Record) string {
	conds, ok := r[cardpoint.FieldConditions].(map[string]any)
	if !ok {
		return ""
	}
	switch v := conds["rate"].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// FormatTable aligns rows into columns by display width, so full-width
// characters line up with ASCII ones. Trailing padding is dropped.
func FormatTable(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	var b strings.Builder
	for _, row := range rows {
		var line strings.Builder
		for i, cell := range row {
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if i < len(row)-1 {
				line.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}

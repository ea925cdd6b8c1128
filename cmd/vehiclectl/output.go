package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Victor-armando18/vehicle-admin/internal/domain"
)

var (
	okColor      = color.New(color.FgGreen, color.Bold)
	warnColor    = color.New(color.FgYellow, color.Bold)
	blockedColor = color.New(color.FgRed, color.Bold)
	addColor     = color.New(color.FgGreen)
	delColor     = color.New(color.FgRed)
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printStatus(w io.Writer, changed bool, hits []domain.GuardViolation) {
	switch {
	case len(hits) > 0:
		blockedColor.Fprintln(w, "BLOCKED")
		for _, h := range hits {
			fmt.Fprintf(w, "  [%s] %s\n", h.RuleID, h.Context)
		}
	case changed:
		okColor.Fprintln(w, "CHANGED")
	default:
		warnColor.Fprintln(w, "UNCHANGED")
	}
}

func printResult(w io.Writer, res *domain.UpdateResult) {
	switch res.Status {
	case domain.StatusBlocked:
		printStatus(w, true, res.GuardsHit)
	case domain.StatusUnchanged:
		warnColor.Fprintf(w, "UNCHANGED %s\n", res.ID)
	default:
		okColor.Fprintf(w, "%s %s\n", strings.ToUpper(string(res.Status)), res.ID)
	}
	if res.CorrelationID != "" {
		fmt.Fprintf(w, "  correlation id: %s\n", res.CorrelationID)
	}
	if len(res.Body) > 0 {
		_ = printJSON(w, res.Body)
	}
}

// printTextDiff prints a line diff between the indented JSON of two records.
func printTextDiff(w io.Writer, before, after domain.Record) error {
	a, err := json.MarshalIndent(before, "", "  ")
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(after, "", "  ")
	if err != nil {
		return err
	}

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(string(a)+"\n", string(b)+"\n")
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffmatchpatch.DiffInsert:
				addColor.Fprintf(w, "+ %s\n", line)
			case diffmatchpatch.DiffDelete:
				delColor.Fprintf(w, "- %s\n", line)
			default:
				fmt.Fprintf(w, "  %s\n", line)
			}
		}
	}
	return nil
}

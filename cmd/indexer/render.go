package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Shared color handles, same palette cmd/monitor's internal/output used
// (green=healthy/success, yellow=warning, red=failure, cyan=headings).
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// disableColorsForJSON turns off color escape codes when --format json is
// selected, mirroring cmd/monitor's output.DisableColors() call pattern —
// JSON consumers never want ANSI codes mixed into field values.
func disableColorsForJSON() {
	color.NoColor = true
}

// newTable builds a rodaine/table with the same cyan-underline header
// formatter every cmd/monitor render function used.
func newTable(columnHeaders ...interface{}) table.Table {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	tbl := table.New(columnHeaders...)
	tbl.WithHeaderFormatter(headerFmt)
	return tbl
}

func printHeading(title string) {
	fmt.Println()
	fmt.Println(bold(title))
}

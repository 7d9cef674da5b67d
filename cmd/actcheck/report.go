package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/actcheck/pkg/core/verify"
	"github.com/gomlx/actcheck/pkg/support/sets"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)
	redRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Bold(true).
			PaddingLeft(1).PaddingRight(1)
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

// tableWithReds is a table where some rows are highlighted in red.
type tableWithReds struct {
	table *lgtable.Table
	count int
	reds  map[int]bool
}

func (t *tableWithReds) Row(isRed bool, row ...string) {
	if isRed {
		t.reds[t.count] = true
	}
	t.table.Row(row...)
	t.count++
}

func newTableWithReds(headers ...string) *tableWithReds {
	t := &tableWithReds{reds: make(map[int]bool)}
	t.table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				return headerRowStyle
			}
			switch {
			case t.reds[row]:
				s = redRowStyle
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			if col == 0 {
				return s.Align(lipgloss.Left)
			}
			return s.Align(lipgloss.Right)
		})
	return t
}

// report renders the summary table of the results, followed by the failures kept for each function.
func report(candidateName, referenceName string, results []*fnResult) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s vs %s", candidateName, referenceName)))
	sb.WriteString("\n")
	table := newTableWithReds("Function", "Trials", "Failed", "Kinds", "Time")
	var totalTrials, totalFailed int
	for _, r := range results {
		if r.skipped != "" {
			table.Row(false, r.fn.String(), "-", "-", "skipped: "+r.skipped, "-")
			continue
		}
		totalTrials += r.numTrials
		totalFailed += r.numFailed
		table.Row(r.numFailed > 0, r.fn.String(), humanize.Comma(int64(r.numTrials)), humanize.Comma(int64(r.numFailed)),
			kindsString(r), r.elapsed.Round(time.Microsecond).String())
	}
	table.Row(totalFailed > 0, "total", humanize.Comma(int64(totalTrials)), humanize.Comma(int64(totalFailed)), "", "")
	sb.WriteString(table.table.Render())
	sb.WriteString("\n")

	for _, r := range results {
		if len(r.failures) == 0 {
			continue
		}
		sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s failures", r.fn, humanize.Comma(int64(r.numFailed)))))
		sb.WriteString("\n")
		for _, failure := range r.failures {
			sb.WriteString("  ")
			sb.WriteString(failure.Error())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// kindsString lists the kinds of failures of a function, sorted.
func kindsString(r *fnResult) string {
	if len(r.kinds) == 0 {
		return verify.OutcomePass
	}
	kinds := sets.Sorted(r.kinds)
	names := make([]string, len(kinds))
	for ii, kind := range kinds {
		names[ii] = kind.String()
	}
	return strings.Join(names, ",")
}

package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const usageTableHeader = "| Date | Time | Mode | Model | Input | Output | Total |"

// UsageEntry is one row of the token usage ledger.
type UsageEntry struct {
	Date   string
	Time   string
	Mode   string
	Model  string
	Input  int
	Output int
	Total  int
}

type dailyUsage struct {
	Date   string
	Input  int
	Output int
}

// UsageLedger keeps one markdown file per provider and month under
// _AI_Prompts/TokenUsage/<provider>/<YYYY-MM>.md.
type UsageLedger struct {
	vaultRoot string
}

// NewUsageLedger creates a ledger for the vault rooted at vaultRoot.
func NewUsageLedger(vaultRoot string) *UsageLedger {
	return &UsageLedger{vaultRoot: vaultRoot}
}

// LedgerPath returns the ledger file for provider and month of t.
func (l *UsageLedger) LedgerPath(provider string, t time.Time) string {
	return filepath.Join(l.vaultRoot, TokenUsageDir, provider, t.Format("2006-01")+".md")
}

// Record appends a usage row and rewrites the month's file with refreshed
// daily totals.
func (l *UsageLedger) Record(now time.Time, mode, provider, model string, input, output, total int) error {
	path := l.LedgerPath(provider, now)

	entries, err := l.LoadEntries(path)
	if err != nil {
		return err
	}
	entries = append(entries, UsageEntry{
		Date:   now.Format("2006-01-02"),
		Time:   now.Format("15:04:05"),
		Mode:   mode,
		Model:  model,
		Input:  input,
		Output: output,
		Total:  total,
	})

	content := renderLedger(provider, now.Format("2006-01"), entries)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token usage directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write token usage file: %w", err)
	}
	return nil
}

// LoadEntries parses the log table of a ledger file. A missing file has no
// entries; malformed rows are skipped.
func (l *UsageLedger) LoadEntries(path string) ([]UsageEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token usage file: %w", err)
	}

	text := string(data)
	idx := strings.Index(text, usageTableHeader)
	if idx < 0 {
		return nil, nil
	}

	var entries []UsageEntry
	lines := strings.Split(text[idx:], "\n")
	for _, line := range lines[min(2, len(lines)):] {
		cells := strings.Split(line, "|")
		if len(cells) < 9 {
			continue
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		entries = append(entries, UsageEntry{
			Date:   cells[1],
			Time:   cells[2],
			Mode:   cells[3],
			Model:  cells[4],
			Input:  atoiOrZero(cells[5]),
			Output: atoiOrZero(cells[6]),
			Total:  atoiOrZero(cells[7]),
		})
	}
	return entries, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func renderLedger(provider, month string, entries []UsageEntry) string {
	byDay := make(map[string]*dailyUsage)
	for _, e := range entries {
		d, ok := byDay[e.Date]
		if !ok {
			d = &dailyUsage{Date: e.Date}
			byDay[e.Date] = d
		}
		d.Input += e.Input
		d.Output += e.Output
	}
	days := make([]*dailyUsage, 0, len(byDay))
	for _, d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date < days[j].Date })

	var b strings.Builder
	fmt.Fprintf(&b, "---\ntype: token-usage\nprovider: %s\nmonth: %s\n---\n\n", provider, month)
	fmt.Fprintf(&b, "# Token Usage: %s (%s)\n\n", provider, month)

	b.WriteString("## Daily Usage\n\n```mermaid\n")
	if len(days) == 0 {
		b.WriteString("graph TD\n    NoData[No Data Yet]\n")
	} else {
		labels := make([]string, len(days))
		inputs := make([]string, len(days))
		outputs := make([]string, len(days))
		for i, d := range days {
			labels[i] = strconv.Quote(d.Date[len(d.Date)-2:])
			inputs[i] = strconv.Itoa(d.Input)
			outputs[i] = strconv.Itoa(d.Output)
		}
		b.WriteString("xychart-beta\n")
		b.WriteString("    title \"Token Usage per Day\"\n")
		fmt.Fprintf(&b, "    x-axis [%s]\n", strings.Join(labels, ", "))
		b.WriteString("    y-axis \"Tokens\"\n")
		fmt.Fprintf(&b, "    bar [%s]\n", strings.Join(inputs, ", "))
		fmt.Fprintf(&b, "    bar [%s]\n", strings.Join(outputs, ", "))
	}
	b.WriteString("```\n\n## Logs\n\n")

	b.WriteString(usageTableHeader + "\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | %d | %d |\n",
			e.Date, e.Time, e.Mode, e.Model, e.Input, e.Output, e.Total)
	}
	return b.String()
}

package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/crawlspace/internal/store"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/rivo/tview"
)

// HistoryList shows recorded runs, newest first.
type HistoryList struct {
	*tview.Table
	theme  *ui.Theme
	runs   []store.Run
	filter string
}

// NewHistoryList creates a new history table.
func NewHistoryList(theme *ui.Theme) *HistoryList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" History ")
	table.SetTitleColor(theme.TitleColor)

	return &HistoryList{
		Table: table,
		theme: theme,
	}
}

// Name implements Component.
func (hl *HistoryList) Name() string { return "History" }

// Init implements Component.
func (hl *HistoryList) Init() {}

// Start implements Component.
func (hl *HistoryList) Start() {}

// Stop implements Component.
func (hl *HistoryList) Stop() {}

// Hints implements Component.
func (hl *HistoryList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open run"},
		{Key: "/", Description: "Filter"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update replaces the listed runs.
func (hl *HistoryList) Update(runs []store.Run) {
	hl.runs = runs
	hl.render()
}

// SetFilter sets the active filter text and re-renders.
func (hl *HistoryList) SetFilter(filter string) {
	hl.filter = filter
	hl.render()
}

// ClearFilter clears the active filter.
func (hl *HistoryList) ClearFilter() {
	hl.filter = ""
	hl.render()
}

func (hl *HistoryList) visible() []store.Run {
	if hl.filter == "" {
		return hl.runs
	}
	var out []store.Run
	for _, r := range hl.runs {
		if containsFold(r.Query, hl.filter) || containsFold(r.Archive, hl.filter) {
			out = append(out, r)
		}
	}
	return out
}

func (hl *HistoryList) render() {
	hl.Clear()

	headers := []struct {
		text string
		exp  int
	}{
		{" RUN", 0},
		{" STARTED", 0},
		{" WORDS", 2},
		{" ARCHIVE", 1},
		{" FILES", 0},
		{" HITS", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(hl.theme.TableHeaderFg).
			SetBackgroundColor(hl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		hl.SetCell(0, col, cell)
	}

	runs := hl.visible()
	for i, r := range runs {
		row := i + 1
		words := strings.ReplaceAll(r.Query, "\n", " | ")
		hl.SetCell(row, 0, tview.NewTableCell(" "+shortID(r.ID)).SetTextColor(hl.theme.CounterColor))
		hl.SetCell(row, 1, tview.NewTableCell(" "+formatStarted(r.StartedAt)).SetTextColor(hl.theme.FgColor))
		hl.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(words)).SetExpansion(2).SetTextColor(hl.theme.FgColor))
		hl.SetCell(row, 3, tview.NewTableCell(" "+tview.Escape(r.Archive)).SetExpansion(1).SetTextColor(hl.theme.FgColor))
		hl.SetCell(row, 4, tview.NewTableCell(fmt.Sprintf("%d", r.FilesScanned)).SetTextColor(hl.theme.FgColor).SetAlign(tview.AlignRight))
		hl.SetCell(row, 5, tview.NewTableCell(fmt.Sprintf("%d", r.ResultCount)).SetTextColor(hl.theme.FgColor).SetAlign(tview.AlignRight))
	}

	if hl.filter != "" {
		hl.SetTitle(fmt.Sprintf(" History (%d/%d) filter: %s ", len(runs), len(hl.runs), hl.filter))
	} else {
		hl.SetTitle(fmt.Sprintf(" History (%d) ", len(hl.runs)))
	}
}

// SelectedRun returns the id of the run under the cursor.
func (hl *HistoryList) SelectedRun() string {
	row, _ := hl.GetSelection()
	runs := hl.visible()
	idx := row - 1
	if idx < 0 || idx >= len(runs) {
		return ""
	}
	return runs[idx].ID
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatStarted(ms int64) string {
	if ms == 0 {
		return ""
	}
	t := time.UnixMilli(ms)
	now := time.Now()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("2006-01-02")
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

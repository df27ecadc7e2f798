package views

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/rivo/tview"
)

// SearchView holds the search words editor and the results table.
type SearchView struct {
	*tview.Flex
	theme   *ui.Theme
	terms   *tview.TextArea
	results *tview.Table
	summary *tview.TextView
	root    string
	data    []scan.Result
	locked  bool
	onRun   func(terms string)
}

// NewSearchView creates a new search view.
func NewSearchView(theme *ui.Theme) *SearchView {
	terms := tview.NewTextArea().
		SetPlaceholder(" one word group per line, words separated by spaces")
	terms.SetBorder(true)
	terms.SetBorderColor(theme.BorderColor)
	terms.SetBackgroundColor(theme.BgColor)
	terms.SetTitle(" Search Words (Ctrl-R to run) ")
	terms.SetTitleColor(theme.TitleColor)
	terms.SetTextStyle(tcell.StyleDefault.Foreground(theme.FgColor).Background(theme.BgColor))

	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitle(" Results ")
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	summary := tview.NewTextView().
		SetDynamicColors(true)
	summary.SetBackgroundColor(theme.BgColor)
	summary.SetTextColor(theme.FgColor)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(terms, 6, 0, true).
		AddItem(results, 0, 1, false).
		AddItem(summary, 1, 0, false)

	sv := &SearchView{
		Flex:    flex,
		theme:   theme,
		terms:   terms,
		results: results,
		summary: summary,
	}

	terms.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlR {
			if !sv.locked && sv.onRun != nil {
				sv.onRun(sv.terms.GetText())
			}
			return nil
		}
		if sv.locked {
			return nil
		}
		return event
	})

	sv.renderHeader()
	return sv
}

// Name implements Component.
func (sv *SearchView) Name() string { return "Search" }

// Init implements Component.
func (sv *SearchView) Init() {}

// Start implements Component.
func (sv *SearchView) Start() {}

// Stop implements Component.
func (sv *SearchView) Stop() {}

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Ctrl-R", Description: "Run search"},
		{Key: "Tab", Description: "Words/Results"},
		{Key: "Enter", Description: "Open transcript"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// SetOnRun sets the callback when the user runs the search.
func (sv *SearchView) SetOnRun(fn func(terms string)) {
	sv.onRun = fn
}

// SetLocked disables editing of the search words while a scan runs.
func (sv *SearchView) SetLocked(locked bool) {
	sv.locked = locked
	if locked {
		sv.terms.SetBorderColor(sv.theme.LockedBorderColor)
	} else {
		sv.terms.SetBorderColor(sv.theme.BorderColor)
	}
}

// SetTerms replaces the search words.
func (sv *SearchView) SetTerms(text string) {
	sv.terms.SetText(text, false)
}

// SetRoot sets the archive folder result paths are shown relative to.
func (sv *SearchView) SetRoot(root string) {
	sv.root = root
}

// SetSummary sets the line below the results.
func (sv *SearchView) SetSummary(text string) {
	sv.summary.Clear()
	_, _ = fmt.Fprint(sv.summary, " "+text)
}

// Update replaces the results.
func (sv *SearchView) Update(results []scan.Result) {
	sv.data = results
	sv.results.Clear()
	sv.renderHeader()

	for i, r := range results {
		row := i + 1
		sv.results.SetCell(row, 0, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(r.DisplayName))).SetMaxWidth(28).SetTextColor(sv.theme.FgColor))
		sv.results.SetCell(row, 1, tview.NewTableCell(" "+tview.Escape(sanitizeForTerminal(r.Snippet))).SetExpansion(1).SetTextColor(sv.theme.FgColor))
		sv.results.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(sv.relative(r.Path))).SetMaxWidth(40).SetTextColor(sv.theme.FgColor))
	}
	sv.results.SetTitle(fmt.Sprintf(" Results (%d) ", len(results)))
	sv.results.ScrollToBeginning()
}

func (sv *SearchView) renderHeader() {
	headers := []string{" NAME", " SENTENCE", " FILE"}
	for col, h := range headers {
		sv.results.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}
}

func (sv *SearchView) relative(path string) string {
	if sv.root == "" {
		return path
	}
	if rel, err := filepath.Rel(sv.root, path); err == nil {
		return rel
	}
	return path
}

// SelectedResult returns the result under the cursor.
func (sv *SearchView) SelectedResult() (scan.Result, bool) {
	row, _ := sv.results.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(sv.data) {
		return sv.data[idx], true
	}
	return scan.Result{}, false
}

// Terms returns the search words editor.
func (sv *SearchView) Terms() *tview.TextArea {
	return sv.terms
}

// Results returns the results table.
func (sv *SearchView) Results() *tview.Table {
	return sv.results
}

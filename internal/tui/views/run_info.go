package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/rivo/tview"
)

// RunInfo displays a recorded run: its parameters, hits and unreadable files.
type RunInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewRunInfo creates a new run detail view.
func NewRunInfo(theme *ui.Theme) *RunInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Run Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &RunInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ri *RunInfo) Name() string { return "Run" }

// Init implements Component.
func (ri *RunInfo) Init() {}

// Start implements Component.
func (ri *RunInfo) Start() {}

// Stop implements Component.
func (ri *RunInfo) Stop() {}

// Hints implements Component.
func (ri *RunInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders run details.
func (ri *RunInfo) Update(d *app.RunDetail) {
	ri.Clear()
	if d == nil {
		return
	}

	fg := hexTag(ri.theme.FgColor.Hex())
	ct := hexTag(ri.theme.CounterColor.Hex())
	r := d.Run

	_, _ = fmt.Fprintf(ri,
		"\n [%s::b]Run:[-:-:-]      [%s]%s[-]\n"+
			" [%s::b]Archive:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Started:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Elapsed:[-:-:-]  [%s]%s[-]\n"+
			" [%s::b]Files:[-:-:-]    [%s]%d[-] ([%s]%d[-] unreadable)\n"+
			" [%s::b]Hits:[-:-:-]     [%s]%d[-]\n"+
			" [%s::b]Words:[-:-:-]\n%s\n",
		fg, ct, r.ID,
		fg, ct, tview.Escape(r.Archive),
		fg, ct, time.UnixMilli(r.StartedAt).Format(time.DateTime),
		fg, ct, (time.Duration(r.ElapsedMS) * time.Millisecond).String(),
		fg, ct, r.FilesScanned, ct, r.FileErrors,
		fg, ct, r.ResultCount,
		fg, tview.Escape(indent(r.Query)),
	)

	if len(d.Hits) > 0 {
		_, _ = fmt.Fprintf(ri, "\n [%s::b]Hits[-:-:-]\n", fg)
		for _, h := range d.Hits {
			_, _ = fmt.Fprintf(ri, "   [%s::b]%s[-:-:-] %s\n   [::d]%s[-:-:-]\n",
				ct, tview.Escape(sanitizeForTerminal(h.DisplayName)),
				tview.Escape(sanitizeForTerminal(h.Snippet)),
				tview.Escape(h.Path))
		}
	}
	if len(d.FileErrors) > 0 {
		_, _ = fmt.Fprintf(ri, "\n [%s::b]Unreadable Files[-:-:-]\n", fg)
		for _, fe := range d.FileErrors {
			_, _ = fmt.Fprintf(ri, "   %s: %s\n", tview.Escape(fe.Path), tview.Escape(fe.Message))
		}
	}

	ri.SetTitle(fmt.Sprintf(" Run %s ", shortID(r.ID)))
	ri.ScrollToBeginning()
}

func indent(s string) string {
	out := "   "
	for _, c := range s {
		out += string(c)
		if c == '\n' {
			out += "   "
		}
	}
	return out
}

func hexTag(hex int32) string {
	return fmt.Sprintf("#%06x", hex)
}

package views

import (
	"fmt"

	"github.com/matheus3301/crawlspace/internal/archive"
	"github.com/matheus3301/crawlspace/internal/transcript"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/rivo/tview"
)

// TranscriptView displays the reconstructed conversation of one export file.
type TranscriptView struct {
	*tview.TextView
	theme *ui.Theme
	file  string
}

// NewTranscriptView creates a new transcript view.
func NewTranscriptView(theme *ui.Theme) *TranscriptView {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Transcript ")
	messages.SetTitleColor(theme.TitleColor)

	return &TranscriptView{
		TextView: messages,
		theme:    theme,
	}
}

// Name implements Component.
func (tv *TranscriptView) Name() string {
	if tv.file != "" {
		return tv.file
	}
	return "Transcript"
}

// Init implements Component.
func (tv *TranscriptView) Init() {}

// Start implements Component.
func (tv *TranscriptView) Start() {}

// Stop implements Component.
func (tv *TranscriptView) Stop() {}

// Hints implements Component.
func (tv *TranscriptView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "j/k", Description: "Scroll"},
		{Key: "g/G", Description: "Top/Bottom"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
	}
}

// Update renders the entries of file, oldest first, each author in its own color.
func (tv *TranscriptView) Update(file string, entries []transcript.Entry) {
	tv.file = file
	tv.Clear()
	tv.SetTitle(fmt.Sprintf(" %s (%d) ", tview.Escape(file), len(entries)))

	for _, e := range entries {
		_, _ = fmt.Fprint(tv, tv.renderEntry(e))
	}
	tv.ScrollToBeginning()
}

func (tv *TranscriptView) renderEntry(e transcript.Entry) string {
	body := tview.Escape(sanitizeForTerminal(e.Body))
	if e.Variant == archive.Deleted || e.Variant == archive.System {
		body = fmt.Sprintf("[%s::i]%s[-:-:-]", hexTag(tv.theme.DeletedColor.Hex()), body)
	}
	return fmt.Sprintf("[%s::b]%s[-:-:-] [::d]%s[-:-:-]\n%s\n\n",
		e.Color.Hex(),
		tview.Escape(sanitizeForTerminal(e.DisplayName)), e.Timestamp,
		body)
}

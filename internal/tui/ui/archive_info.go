package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// ArchiveData holds the header summary of the open archive.
type ArchiveData struct {
	Archive string
	Users   int
	Files   int
	State   string
	Results int
	Runs    int
	History bool
}

// ArchiveInfo displays archive metadata in the header.
type ArchiveInfo struct {
	*tview.TextView
	theme *Theme
}

// NewArchiveInfo creates a new archive info panel.
func NewArchiveInfo(theme *Theme) *ArchiveInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &ArchiveInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the archive info.
func (ai *ArchiveInfo) Update(data *ArchiveData) {
	ai.Clear()
	if data == nil {
		return
	}

	fgColor := colorName(ai.theme.FgColor)
	counterColor := colorName(ai.theme.CounterColor)

	archive := data.Archive
	if archive == "" {
		archive = "-"
	}
	runs := "off"
	if data.History {
		runs = fmt.Sprintf("%d", data.Runs)
	}

	text := fmt.Sprintf(
		"[%s::b]Archive:[-:-:-] [%s]%s[-]\n"+
			"[%s::b]Users:[-:-:-]   [%s]%d[-]\n"+
			"[%s::b]Files:[-:-:-]   [%s]%d[-]\n"+
			"[%s::b]State:[-:-:-]   [%s]%s[-]\n"+
			"[%s::b]Results:[-:-:-] [%s]%d[-]\n"+
			"[%s::b]Runs:[-:-:-]    [%s]%s[-]",
		fgColor, counterColor, tview.Escape(archive),
		fgColor, counterColor, data.Users,
		fgColor, counterColor, data.Files,
		fgColor, counterColor, data.State,
		fgColor, counterColor, data.Results,
		fgColor, counterColor, runs,
	)

	_, _ = fmt.Fprint(ai, text)
}

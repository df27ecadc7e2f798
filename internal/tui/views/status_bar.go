package views

import (
	"fmt"
	"time"

	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/status"
	"github.com/rivo/tview"
)

// StatusBar displays the open archive, scan state and progress.
type StatusBar struct {
	*tview.TextView
	archive  string
	state    status.State
	progress scan.Progress
}

// NewStatusBar creates a new status bar.
func NewStatusBar() *StatusBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(tview.Styles.MoreContrastBackgroundColor)

	sb := &StatusBar{TextView: tv, state: status.Idle}
	sb.render()
	return sb
}

// SetArchive updates the archive folder display.
func (sb *StatusBar) SetArchive(root string) {
	sb.archive = root
	sb.render()
}

// SetState updates the scan state display.
func (sb *StatusBar) SetState(s status.State) {
	sb.state = s
	sb.render()
}

// SetProgress updates the progress indicator.
func (sb *StatusBar) SetProgress(p scan.Progress) {
	sb.progress = p
	sb.render()
}

func (sb *StatusBar) render() {
	sb.Clear()

	archive := sb.archive
	if archive == "" {
		archive = "no folder selected"
	}

	progress := ""
	if sb.state == status.Scanning {
		progress = fmt.Sprintf(" [green]%d/%d[-]", sb.progress.Scanned, sb.progress.Total)
	}

	clock := time.Now().Format("15:04")
	_, _ = fmt.Fprintf(sb, " [::b]%s[-:-:-] | %s%s | %s", tview.Escape(archive), sb.state, progress, clock)
}

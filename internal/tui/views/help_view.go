package views

import (
	"fmt"

	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference and search syntax.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Init implements Component.
func (hv *HelpView) Init() {}

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := hexTag(hv.theme.MenuKeyColor.Hex())

	help := fmt.Sprintf(`
  [::b]Global Keys[-:-:-]

  [%s]:[-:-:-]      Command mode        [%s]Esc[-:-:-]    Cancel / Go back
  [%s]?[-:-:-]      Help                [%s]Ctrl-C[-:-:-] Quit immediately

  [::b]Search[-:-:-]

  [%s]Ctrl-R[-:-:-] Run search          [%s]Tab[-:-:-]    Switch words / results
  [%s]Enter[-:-:-]  Open transcript of the selected result

  [::b]History[-:-:-]

  [%s]Enter[-:-:-]  Show run details    [%s]/[-:-:-]      Filter runs

  [::b]Commands (: mode)[-:-:-]

  [%s]:open <folder>[-:-:-]     Select the export folder
  [%s]:terms <file>[-:-:-]      Load search words from a file
  [%s]:show <file>[-:-:-]       Open a transcript by path
  [%s]:history[-:-:-]           List recorded runs
  [%s]:help[-:-:-] / [%s]:h[-:-:-]       Show this help
  [%s]:quit[-:-:-] / [%s]:q[-:-:-]       Quit application

  [::b]Search Words[-:-:-]

%s
`,
		kc, kc, kc, kc,
		kc, kc, kc,
		kc, kc,
		kc, kc, kc, kc, kc, kc, kc, kc,
		tview.Escape(indent(search.HelpText)),
	)

	_, _ = fmt.Fprint(hv, help)
}

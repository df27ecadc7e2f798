package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/bus"
	"github.com/matheus3301/crawlspace/internal/report"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/search"
	"github.com/matheus3301/crawlspace/internal/status"
	"github.com/matheus3301/crawlspace/internal/tui/keys"
	"github.com/matheus3301/crawlspace/internal/tui/model"
	"github.com/matheus3301/crawlspace/internal/tui/ui"
	"github.com/matheus3301/crawlspace/internal/tui/views"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

// Page names.
const (
	pageSearch     = "search"
	pageTranscript = "transcript"
	pageHistory    = "history"
	pageRun        = "run"
	pageHelp       = "help"
)

const historyLimit = 200

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	svc      *app.Service
	vm       *model.ViewModel
	logger   *zap.Logger
	theme    *ui.Theme
	registry *keys.Registry

	root      *tview.Flex
	pages     *ui.Pages
	info      *ui.ArchiveInfo
	menu      *ui.Menu
	crumbs    *ui.Crumbs
	flash     *ui.FlashModel
	flashBar  *ui.FlashBar
	prompt    *ui.Prompt
	statusBar *views.StatusBar

	searchV     *views.SearchView
	transcriptV *views.TranscriptView
	historyV    *views.HistoryList
	runV        *views.RunInfo
	helpV       *views.HelpView
	components  map[string]ui.Component

	promptShown bool
	state       status.State
	files       int

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(svc *app.Service) *App {
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()

	a := &App{
		app:         tview.NewApplication(),
		svc:         svc,
		vm:          model.NewViewModel(svc),
		logger:      svc.Logger().Named("tui"),
		theme:       theme,
		registry:    keys.NewRegistry(),
		pages:       ui.NewPages(),
		info:        ui.NewArchiveInfo(theme),
		menu:        ui.NewMenu(theme),
		crumbs:      ui.NewCrumbs(theme),
		flash:       ui.NewFlashModel(),
		flashBar:    ui.NewFlashBar(theme),
		prompt:      ui.NewPrompt(theme),
		statusBar:   views.NewStatusBar(),
		searchV:     views.NewSearchView(theme),
		transcriptV: views.NewTranscriptView(theme),
		historyV:    views.NewHistoryList(theme),
		runV:        views.NewRunInfo(theme),
		helpV:       views.NewHelpView(theme),
		state:       status.Idle,
		ctx:         ctx,
		cancel:      cancel,
	}
	a.components = map[string]ui.Component{
		pageSearch:     a.searchV,
		pageTranscript: a.transcriptV,
		pageHistory:    a.historyV,
		pageRun:        a.runV,
		pageHelp:       a.helpV,
	}

	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	a.registry.AddGlobal("help", &keys.Action{
		Rune: '?', Key: tcell.KeyRune,
		Description: "?:help", Visible: true,
		Handler: func() { a.push(pageHelp) },
	})
	a.registry.AddGlobal("command", &keys.Action{
		Rune: ':', Key: tcell.KeyRune,
		Description: ":command", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptCommand) },
	})
	a.registry.AddView(pageSearch, "focus", &keys.Action{
		Key:         tcell.KeyTab,
		Description: "Tab:words", Visible: true,
		Handler: func() { a.app.SetFocus(a.searchV.Terms()) },
	})
	a.registry.AddView(pageHistory, "filter", &keys.Action{
		Rune: '/', Key: tcell.KeyRune,
		Description: "/:filter", Visible: true,
		Handler: func() { a.showPrompt(ui.PromptFilter) },
	})
	a.registry.AddView(pageHistory, "reload", &keys.Action{
		Rune: 'r', Key: tcell.KeyRune,
		Description: "r:reload", Visible: true,
		Handler: func() { a.showHistory() },
	})
}

func (a *App) setupCallbacks() {
	a.searchV.SetOnRun(func(terms string) {
		go a.runSearch(terms)
	})

	a.searchV.Results().SetSelectedFunc(func(row, col int) {
		if r, ok := a.searchV.SelectedResult(); ok {
			a.openTranscript(r.Path)
		}
	})

	a.historyV.SetSelectedFunc(func(row, col int) {
		if id := a.historyV.SelectedRun(); id != "" {
			a.openRun(id)
		}
	})

	a.pages.SetOnChange(func(stack []string) {
		names := make([]string, 0, len(stack))
		for _, p := range stack {
			names = append(names, a.components[p].Name())
		}
		a.crumbs.Update(names)
		a.updateMenu()
	})

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		switch mode {
		case ui.PromptCommand:
			a.execute(ParseCommand(text))
		case ui.PromptFilter:
			a.historyV.SetFilter(text)
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.historyV.ClearFilter()
		}
		a.hidePrompt()
	})
}

func (a *App) setupLayout() {
	for name, c := range a.components {
		a.pages.AddPage(name, c.(tview.Primitive), true, false)
	}

	header := tview.NewFlex().
		AddItem(a.info, 0, 2, false).
		AddItem(a.menu, 0, 2, false).
		AddItem(ui.NewLogo(a.theme), 18, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.pages.Reset(pageSearch)
	a.app.SetFocus(a.searchV.Terms())

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if a.promptShown {
			return event
		}
		current := a.pages.Current()

		if event.Key() == tcell.KeyEscape {
			if a.pages.Depth() > 1 {
				a.pop()
				return nil
			}
			if current == pageSearch {
				a.app.SetFocus(a.searchV.Results())
				return nil
			}
		}

		// Let text input widgets handle all keys normally.
		switch a.app.GetFocus().(type) {
		case *tview.InputField, *tview.TextArea:
			if current == pageSearch && event.Key() == tcell.KeyTab {
				a.app.SetFocus(a.searchV.Results())
				return nil
			}
			return event
		}

		if a.registry.HandleEvent(current, event) {
			return nil
		}
		return event
	})
}

func (a *App) updateMenu() {
	c, ok := a.components[a.pages.Current()]
	if !ok {
		return
	}
	a.menu.Update(c.Hints())
}

func (a *App) push(page string) {
	if a.pages.Current() == page {
		return
	}
	a.pages.Push(page)
	a.focusPage(page)
}

func (a *App) pop() {
	a.pages.Pop()
	a.focusPage(a.pages.Current())
}

func (a *App) focusPage(page string) {
	switch page {
	case pageSearch:
		a.app.SetFocus(a.searchV.Terms())
	case pageTranscript:
		a.app.SetFocus(a.transcriptV)
	case pageHistory:
		a.app.SetFocus(a.historyV)
	case pageRun:
		a.app.SetFocus(a.runV)
	case pageHelp:
		a.app.SetFocus(a.helpV)
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	if a.promptShown {
		return
	}
	a.prompt.Activate(mode)
	a.root.AddItem(a.prompt, 3, 0, true)
	a.promptShown = true
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	if !a.promptShown {
		return
	}
	a.root.RemoveItem(a.prompt)
	a.promptShown = false
	a.focusPage(a.pages.Current())
}

func (a *App) execute(cmd Command) {
	switch cmd.Name {
	case "open", "o":
		a.openArchive(cmd.Args)
	case "terms", "t":
		a.loadTerms(cmd.Args)
	case "search", "s":
		a.pages.Reset(pageSearch)
		a.focusPage(pageSearch)
		go a.runSearch(a.searchV.Terms().GetText())
	case "show":
		a.openTranscript(cmd.Args)
	case "history", "hist":
		a.showHistory()
	case "help", "h":
		a.push(pageHelp)
	case "quit", "q":
		a.Stop()
	case "":
	default:
		a.flash.Warn(fmt.Sprintf("unknown command %q", cmd.Name))
	}
}

func (a *App) openArchive(root string) {
	if root == "" {
		a.flash.Warn("usage: :open <folder>")
		return
	}
	go func() {
		err := a.vm.OpenArchive(root)
		if err != nil {
			a.flash.Err(err)
			return
		}
		sess := a.vm.Session()
		files, err := scan.CountFiles(sess.Root())
		if err != nil {
			a.logger.Warn("count files", zap.String("root", sess.Root()), zap.Error(err))
		}
		a.app.QueueUpdateDraw(func() {
			a.files = files
			a.statusBar.SetArchive(sess.Root())
			a.searchV.SetRoot(sess.Root())
			a.searchV.Update(nil)
			a.searchV.SetSummary("")
			a.refreshInfo()
		})
		a.flash.Info(fmt.Sprintf("opened %s (%d users, %d files)", sess.Root(), sess.Roster().Len(), files))
	}()
}

func (a *App) loadTerms(path string) {
	if path == "" {
		a.flash.Warn("usage: :terms <file>")
		return
	}
	text, err := search.LoadTermsFile(path)
	if err != nil {
		a.flash.Err(err)
		return
	}
	if err := a.vm.LoadTerms(text); err != nil {
		a.flash.Err(err)
		return
	}
	a.searchV.SetTerms(text)
	a.flash.Info("loaded search words from " + filepath.Base(path))
}

// runSearch is called off the UI goroutine.
func (a *App) runSearch(terms string) {
	err := a.vm.StartSearch(a.ctx, terms, func() {
		a.app.QueueUpdateDraw(a.syncSearch)
	})
	if err != nil {
		a.flash.Err(err)
	}
}

// syncSearch copies the view model's scan state into the views.
func (a *App) syncSearch() {
	running := a.vm.Running()
	a.searchV.SetLocked(running)
	a.statusBar.SetProgress(a.vm.Progress())
	if running {
		p := a.vm.Progress()
		a.searchV.SetSummary(fmt.Sprintf("Searching... %d/%d files", p.Scanned, p.Total))
		return
	}

	if err := a.vm.Failure(); err != nil {
		a.searchV.SetSummary("Search failed")
		a.flash.Err(err)
		return
	}
	rep := a.vm.Report()
	if rep == nil {
		return
	}
	a.searchV.Update(rep.Results)
	a.searchV.SetSummary(report.Summary(len(rep.Results), rep.Elapsed))
	if n := len(rep.FileErrors); n > 0 {
		a.flash.Warn(fmt.Sprintf("%d file(s) could not be read", n))
	}
	a.refreshInfo()
}

func (a *App) openTranscript(path string) {
	if path == "" {
		a.flash.Warn("usage: :show <file>")
		return
	}
	go func() {
		entries, err := a.vm.Conversation(path)
		if err != nil {
			a.flash.Err(err)
			return
		}
		name := path
		if sess := a.vm.Session(); sess != nil {
			if rel, err := filepath.Rel(sess.Root(), sess.Resolve(path)); err == nil {
				name = rel
			}
		}
		a.app.QueueUpdateDraw(func() {
			a.transcriptV.Update(name, entries)
			a.push(pageTranscript)
		})
	}()
}

func (a *App) showHistory() {
	go func() {
		if err := a.vm.LoadHistory(historyLimit); err != nil {
			a.flash.Err(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.historyV.Update(a.vm.Runs())
			a.refreshInfo()
			a.push(pageHistory)
		})
	}()
}

func (a *App) openRun(id string) {
	go func() {
		d, err := a.vm.Run(id)
		if err != nil {
			a.flash.Err(err)
			return
		}
		a.app.QueueUpdateDraw(func() {
			a.runV.Update(d)
			a.push(pageRun)
		})
	}()
}

func (a *App) refreshInfo() {
	data := &ui.ArchiveData{
		State:   string(a.state),
		Files:   a.files,
		Runs:    len(a.vm.Runs()),
		History: a.svc.HistoryEnabled(),
	}
	if sess := a.vm.Session(); sess != nil {
		data.Archive = sess.Root()
		data.Users = sess.Roster().Len()
	}
	if rep := a.vm.Report(); rep != nil {
		data.Results = len(rep.Results)
	}
	a.info.Update(data)
}

// watchEvents mirrors bus events into the header and status bar.
func (a *App) watchEvents() {
	states, unsubState := a.svc.Bus().Subscribe("state.", 16)
	defer unsubState()
	saved, unsubSaved := a.svc.Bus().Subscribe(bus.HistorySaved, 16)
	defer unsubSaved()
	for {
		select {
		case evt := <-states:
			change, ok := evt.Payload.(status.Change)
			if !ok {
				continue
			}
			a.app.QueueUpdateDraw(func() {
				a.state = change.To
				a.statusBar.SetState(change.To)
				a.refreshInfo()
			})
		case <-saved:
			if err := a.vm.LoadHistory(historyLimit); err != nil {
				a.logger.Warn("reload history", zap.Error(err))
				continue
			}
			a.app.QueueUpdateDraw(func() {
				a.historyV.Update(a.vm.Runs())
				a.refreshInfo()
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// watchFlash renders flash messages and clears them once expired.
func (a *App) watchFlash() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-a.flash.Watch():
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.GetMessage())
			})
		case <-ticker.C:
			a.app.QueueUpdateDraw(func() {
				a.flashBar.Update(a.flash.GetMessage())
			})
		case <-a.ctx.Done():
			return
		}
	}
}

// SetTerms preloads the search words.
func (a *App) SetTerms(text string) error {
	return a.vm.LoadTerms(text)
}

// Run starts the TUI application, opening archive first when set.
func (a *App) Run(archive string) error {
	a.refreshInfo()
	a.updateMenu()
	if terms := a.vm.Terms(); terms != "" {
		a.searchV.SetTerms(terms)
	}
	go a.watchEvents()
	go a.watchFlash()
	if archive != "" {
		a.openArchive(archive)
	} else {
		a.flash.Info("use :open <folder> to select an export")
	}
	return a.app.Run()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}

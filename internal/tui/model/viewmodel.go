package model

import (
	"context"
	"errors"
	"sync"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/matheus3301/crawlspace/internal/scan"
	"github.com/matheus3301/crawlspace/internal/session"
	"github.com/matheus3301/crawlspace/internal/store"
	"github.com/matheus3301/crawlspace/internal/transcript"
)

// ErrLocked is returned when the user changes inputs while a scan runs.
var ErrLocked = errors.New("search in progress")

// ViewModel caches the state shown by the views and signals UI refreshes.
type ViewModel struct {
	mu sync.RWMutex

	svc      *app.Service
	session  *session.Session
	terms    string
	report   *scan.Report
	progress scan.Progress
	running  bool
	failure  error
	runs     []store.Run

	refreshCh chan struct{}
}

// NewViewModel creates a view model backed by the service.
func NewViewModel(svc *app.Service) *ViewModel {
	return &ViewModel{
		svc:       svc,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// OpenArchive selects the archive folder. Rejected while a scan runs.
func (vm *ViewModel) OpenArchive(root string) error {
	if vm.Running() {
		return ErrLocked
	}
	sess, err := vm.svc.Open(root)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.session = sess
	vm.report = nil
	vm.progress = scan.Progress{}
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// LoadTerms replaces the search words with the contents of a terms file.
func (vm *ViewModel) LoadTerms(text string) error {
	if vm.Running() {
		return ErrLocked
	}
	vm.mu.Lock()
	vm.terms = text
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// StartSearch starts a scan of the open archive and follows its progress
// until it completes. onUpdate is called after every state change.
func (vm *ViewModel) StartSearch(ctx context.Context, terms string, onUpdate func()) error {
	vm.mu.Lock()
	if vm.running {
		vm.mu.Unlock()
		return ErrLocked
	}
	sess := vm.session
	vm.mu.Unlock()

	task, err := vm.svc.StartSearch(ctx, sess, terms)
	if err != nil {
		return err
	}

	vm.mu.Lock()
	vm.terms = terms
	vm.running = true
	vm.failure = nil
	vm.report = nil
	vm.progress = scan.Progress{}
	vm.mu.Unlock()
	notify(onUpdate)

	go func() {
		for p := range task.Progress() {
			vm.mu.Lock()
			vm.progress = p
			vm.mu.Unlock()
			notify(onUpdate)
		}
		report, err := task.Wait()
		vm.mu.Lock()
		vm.running = false
		vm.report = report
		vm.failure = err
		vm.mu.Unlock()
		vm.signalRefresh()
		notify(onUpdate)
	}()
	return nil
}

func notify(fn func()) {
	if fn != nil {
		fn()
	}
}

// Conversation reconstructs one export file of the open archive.
func (vm *ViewModel) Conversation(path string) ([]transcript.Entry, error) {
	sess := vm.Session()
	if sess == nil {
		return nil, session.ErrNoArchive
	}
	return sess.Conversation(path)
}

// LoadHistory fetches recorded runs, newest first.
func (vm *ViewModel) LoadHistory(limit int) error {
	runs, err := vm.svc.History(limit)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.runs = runs
	vm.mu.Unlock()
	vm.signalRefresh()
	return nil
}

// Run loads a recorded run by id prefix.
func (vm *ViewModel) Run(id string) (*app.RunDetail, error) {
	return vm.svc.Run(id)
}

// Session returns the open archive, or nil.
func (vm *ViewModel) Session() *session.Session {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.session
}

// Terms returns the last submitted or loaded search words.
func (vm *ViewModel) Terms() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.terms
}

// Running reports whether a scan started here is still in progress.
func (vm *ViewModel) Running() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.running
}

// Progress returns the latest progress snapshot.
func (vm *ViewModel) Progress() scan.Progress {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.progress
}

// Report returns the last completed report, or nil.
func (vm *ViewModel) Report() *scan.Report {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.report
}

// Failure returns the error of the last scan, or nil.
func (vm *ViewModel) Failure() error {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.failure
}

// Runs returns a snapshot of the loaded history.
func (vm *ViewModel) Runs() []store.Run {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.runs
}

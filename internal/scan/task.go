package scan

// Task is a running scan. Progress is delivered latest-wins: a slow reader
// skips intermediate ticks but always sees the newest one.
type Task struct {
	ID string

	progress chan Progress
	done     chan struct{}
	result   *Report
	err      error
}

func newTask(id string) *Task {
	return &Task{
		ID:       id,
		progress: make(chan Progress, 1),
		done:     make(chan struct{}),
	}
}

// Progress returns the progress channel. It is closed when the scan ends.
func (t *Task) Progress() <-chan Progress {
	return t.progress
}

// Done is closed when the scan has ended.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the scan ends and returns its report or fatal error.
func (t *Task) Wait() (*Report, error) {
	<-t.done
	return t.result, t.err
}

// report is only called from the worker goroutine.
func (t *Task) report(p Progress) {
	select {
	case t.progress <- p:
		return
	default:
	}
	select {
	case <-t.progress:
	default:
	}
	t.progress <- p
}

func (t *Task) complete(result *Report, err error) {
	t.result, t.err = result, err
	close(t.progress)
	close(t.done)
}

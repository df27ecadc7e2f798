package bus

import (
	"testing"
	"time"
)

func TestEmitSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("scan.", 10)
	defer unsub()

	b.Emit(ScanStarted, "root")

	select {
	case evt := <-ch:
		if evt.Kind != ScanStarted {
			t.Errorf("got kind %q, want %q", evt.Kind, ScanStarted)
		}
		if evt.Timestamp.IsZero() {
			t.Error("event timestamp not set")
		}
		if evt.Payload != "root" {
			t.Errorf("payload = %v, want root", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestPrefixFiltering(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("scan.finished", 10)
	defer unsub()

	b.Emit(ScanProgress, nil)
	b.Emit(StateChanged, nil)
	b.Emit(ScanFinished, nil)

	select {
	case evt := <-ch:
		if evt.Kind != ScanFinished {
			t.Errorf("got kind %q, want %q", evt.Kind, ScanFinished)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	select {
	case evt := <-ch:
		t.Errorf("unexpected event: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("scan.", 10)
	unsub()
	unsub()

	b.Emit(ScanStarted, nil)

	select {
	case evt := <-ch:
		t.Errorf("received event after unsubscribe: %v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDropOnFullBuffer(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("scan.", 1)
	defer unsub()

	b.Emit("scan.one", nil)
	b.Emit("scan.two", nil)

	evt := <-ch
	if evt.Kind != "scan.one" {
		t.Errorf("got %q, want scan.one", evt.Kind)
	}
	if b.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", b.Dropped())
	}
}

func TestNilBusEmit(t *testing.T) {
	var b *Bus
	b.Emit(ScanStarted, nil)
}

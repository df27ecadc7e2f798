package keys

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestHandleEventViewShadowsGlobal(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal("filter", &Action{Key: tcell.KeyRune, Rune: '/', Handler: func() { got = "global" }})
	r.AddView("history", "filter", &Action{Key: tcell.KeyRune, Rune: '/', Handler: func() { got = "history" }})

	slash := tcell.NewEventKey(tcell.KeyRune, '/', tcell.ModNone)
	if !r.HandleEvent("history", slash) || got != "history" {
		t.Errorf("history page handled by %q, want history", got)
	}
	if !r.HandleEvent("search", slash) || got != "global" {
		t.Errorf("search page handled by %q, want global", got)
	}
	if r.HandleEvent("search", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)) {
		t.Error("unbound key reported as handled")
	}
}

func TestSpecialKeys(t *testing.T) {
	r := NewRegistry()
	called := false
	r.AddView("search", "focus", &Action{Key: tcell.KeyTab, Handler: func() { called = true }})
	if !r.HandleEvent("search", tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)) || !called {
		t.Error("Tab binding not dispatched")
	}
}

func TestAddReplacesByName(t *testing.T) {
	r := NewRegistry()
	var got string
	r.AddGlobal("help", &Action{Key: tcell.KeyRune, Rune: '?', Handler: func() { got = "first" }})
	r.AddGlobal("help", &Action{Key: tcell.KeyRune, Rune: '?', Handler: func() { got = "second" }})
	if len(r.global) != 1 {
		t.Fatalf("len(global) = %d, want 1", len(r.global))
	}
	r.HandleEvent("search", tcell.NewEventKey(tcell.KeyRune, '?', tcell.ModNone))
	if got != "second" {
		t.Errorf("handler = %q, want second", got)
	}
}

package ui

import (
	"slices"
	"testing"
	"time"
)

func TestPagesStack(t *testing.T) {
	p := NewPages()
	for _, name := range []string{"search", "transcript", "help"} {
		p.AddPage(name, NewMenu(DefaultTheme()), true, false)
	}

	var seen [][]string
	p.SetOnChange(func(stack []string) { seen = append(seen, stack) })

	p.Reset("search")
	p.Push("transcript")
	p.Push("help")
	if p.Current() != "help" || p.Depth() != 3 {
		t.Fatalf("Current() = %q, Depth() = %d", p.Current(), p.Depth())
	}
	if got := p.Pop(); got != "help" {
		t.Errorf("Pop() = %q, want help", got)
	}
	if p.Current() != "transcript" {
		t.Errorf("Current() = %q, want transcript", p.Current())
	}
	if len(seen) != 4 || !slices.Equal(seen[3], []string{"search", "transcript"}) {
		t.Errorf("onChange stacks = %v", seen)
	}

	p.Pop()
	if p.Pop() != "search" || p.Pop() != "" {
		t.Error("popping past the bottom should return empty")
	}
}

func TestFlashModelExpires(t *testing.T) {
	f := NewFlashModel()
	f.Info("saved")
	if m := f.GetMessage(); m == nil || m.Text != "saved" {
		t.Errorf("GetMessage() = %+v, want saved", m)
	}
	select {
	case m := <-f.Watch():
		if m.Text != "saved" || m.Level != FlashInfo {
			t.Errorf("watched = %+v", m)
		}
	default:
		t.Error("no message on Watch()")
	}

	f.set("gone", FlashWarn, -time.Second)
	if f.GetMessage() != nil {
		t.Error("expired message still returned")
	}
}

func TestPromptActivate(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	p.Activate(PromptFilter)
	if p.Mode() != PromptFilter || p.GetLabel() != "/" {
		t.Errorf("mode = %v label = %q", p.Mode(), p.GetLabel())
	}
	p.Activate(PromptCommand)
	if p.GetLabel() != ":" {
		t.Errorf("label = %q, want :", p.GetLabel())
	}
}

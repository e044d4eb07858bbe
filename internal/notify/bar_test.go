package notify

import (
	"strings"
	"testing"
	"time"
)

func TestBar_PushAndVisible(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()

	b.Push(Notification{Setting: "fps", From: "8", To: "9", Timestamp: now})
	b.Push(Notification{Setting: "style", From: "none", To: "toon", Timestamp: now})
	b.Push(Notification{Setting: "frames", From: "4", To: "6", Timestamp: now})

	visible := b.Visible()
	if len(visible) != 2 {
		t.Fatalf("Visible() = %d items, want 2", len(visible))
	}
	if visible[0].Setting != "style" {
		t.Errorf("visible[0].Setting = %q, want style", visible[0].Setting)
	}
	if visible[1].Setting != "frames" {
		t.Errorf("visible[1].Setting = %q, want frames", visible[1].Setting)
	}
}

func TestBar_CollapsesRepeatedSetting(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()

	b.Changed("fps", 8, 9, now)
	b.Changed("fps", 9, 10, now.Add(time.Second))
	b.Changed("fps", 10, 11, now.Add(2*time.Second))

	if b.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", b.Len())
	}
	n := b.Visible()[0]
	if n.From != "8" || n.To != "11" {
		t.Errorf("collapsed = %s → %s, want 8 → 11", n.From, n.To)
	}
	if !n.Timestamp.Equal(now.Add(2 * time.Second)) {
		t.Errorf("timestamp should be the latest change")
	}
}

func TestBar_VisibleEmpty(t *testing.T) {
	b := NewBar(20, 2)
	if len(b.Visible()) != 0 {
		t.Error("empty bar should have no visible items")
	}
}

func TestBar_MaxBuffer(t *testing.T) {
	b := NewBar(3, 2)
	now := time.Now()

	for i := 0; i < 10; i++ {
		b.Push(Notification{Setting: string(rune('a' + i)), Timestamp: now})
	}

	if b.Len() != 3 {
		t.Errorf("Len() = %d, want 3 (max buffer)", b.Len())
	}

	visible := b.Visible()
	if visible[0].Setting != "i" || visible[1].Setting != "j" {
		t.Errorf("visible = %q, %q; want i, j", visible[0].Setting, visible[1].Setting)
	}
}

func TestBar_Expire(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()

	b.Changed("style", "none", "toon", now.Add(-10*time.Second))
	b.Changed("fps", 8, 12, now.Add(-1*time.Second))

	b.Expire(5*time.Second, now)

	if b.Len() != 1 || b.Visible()[0].Setting != "fps" {
		t.Errorf("after expire: %+v, want only fps", b.Visible())
	}
}

func TestBar_Render(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()

	b.Changed("style", "none", "noir", now.Add(-2*time.Minute))

	result := b.Render(80, now)
	if !strings.Contains(result, "style") {
		t.Errorf("render should contain setting name, got: %q", result)
	}
	if !strings.Contains(result, "none → noir") {
		t.Errorf("render should contain old/new value, got: %q", result)
	}
	if !strings.Contains(result, "2m ago") {
		t.Errorf("render should contain relative time, got: %q", result)
	}
}

func TestBar_RenderWithoutFrom(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()
	b.Push(Notification{Setting: "image", To: "hero.png", Timestamp: now})

	result := b.Render(80, now)
	if result != "● image: hero.png (0s ago)" {
		t.Errorf("Render() = %q", result)
	}
}

func TestBar_RenderEmpty(t *testing.T) {
	b := NewBar(20, 2)
	if b.Render(80, time.Now()) != "" {
		t.Error("empty bar should render empty string")
	}
}

func TestBar_RenderTruncation(t *testing.T) {
	b := NewBar(20, 2)
	now := time.Now()

	b.Changed("style", "none", "a-very-long-custom-style", now)
	b.Changed("fps", 8, 24, now)

	result := b.Render(30, now)
	runes := []rune(result)
	if len(runes) > 30 {
		t.Errorf("render should be truncated to 30 runes, got %d: %q", len(runes), result)
	}
	if !strings.HasSuffix(result, "…") {
		t.Errorf("truncated render should end with ellipsis, got %q", result)
	}
}

package notify

import (
	"fmt"
	"strings"
	"time"
)

// Notification records one change to a previewer setting, e.g. fps 8 → 12.
type Notification struct {
	Setting   string
	From      string
	To        string
	Timestamp time.Time
}

// Bar keeps the most recent setting changes, oldest first.
type Bar struct {
	items    []Notification
	maxStore int
	visible  int
}

// NewBar creates a bar that stores up to maxStore changes and shows the
// latest visible of them.
func NewBar(maxStore, visible int) *Bar {
	if visible < 1 {
		visible = 1
	}
	return &Bar{
		items:    make([]Notification, 0, maxStore),
		maxStore: maxStore,
		visible:  visible,
	}
}

// Push records a change. Consecutive changes to the same setting collapse
// into one entry that keeps the original From value.
func (b *Bar) Push(n Notification) {
	if last := len(b.items) - 1; last >= 0 && b.items[last].Setting == n.Setting {
		n.From = b.items[last].From
		b.items[last] = n
		return
	}
	b.items = append(b.items, n)
	if len(b.items) > b.maxStore {
		b.items = b.items[len(b.items)-b.maxStore:]
	}
}

// Changed is a convenience for Push with formatted values.
func (b *Bar) Changed(setting string, from, to any, now time.Time) {
	b.Push(Notification{
		Setting:   setting,
		From:      fmt.Sprint(from),
		To:        fmt.Sprint(to),
		Timestamp: now,
	})
}

// Visible returns the most recent notifications.
func (b *Bar) Visible() []Notification {
	if len(b.items) <= b.visible {
		return b.items
	}
	return b.items[len(b.items)-b.visible:]
}

// Len returns the total number of buffered notifications.
func (b *Bar) Len() int {
	return len(b.items)
}

// Expire drops notifications older than maxAge.
func (b *Bar) Expire(maxAge time.Duration, now time.Time) {
	kept := b.items[:0]
	for _, n := range b.items {
		if now.Sub(n.Timestamp) <= maxAge {
			kept = append(kept, n)
		}
	}
	b.items = kept
}

// Render formats the visible notifications for display within the given width.
func (b *Bar) Render(width int, now time.Time) string {
	visible := b.Visible()
	if len(visible) == 0 {
		return ""
	}

	parts := make([]string, 0, len(visible))
	for _, n := range visible {
		parts = append(parts, formatNotification(n, now))
	}
	result := strings.Join(parts, " │ ")

	runes := []rune(result)
	if len(runes) > width {
		if width > 1 {
			result = string(runes[:width-1]) + "…"
		} else if width > 0 {
			result = string(runes[:width])
		} else {
			result = ""
		}
	}
	return result
}

func formatNotification(n Notification, now time.Time) string {
	age := now.Sub(n.Timestamp).Truncate(time.Second)
	var ageStr string
	switch {
	case age < time.Minute:
		ageStr = fmt.Sprintf("%ds ago", int(age.Seconds()))
	case age < time.Hour:
		ageStr = fmt.Sprintf("%dm ago", int(age.Minutes()))
	default:
		ageStr = fmt.Sprintf("%dh ago", int(age.Hours()))
	}

	if n.From == "" {
		return fmt.Sprintf("● %s: %s (%s)", n.Setting, n.To, ageStr)
	}
	return fmt.Sprintf("● %s: %s → %s (%s)", n.Setting, n.From, n.To, ageStr)
}

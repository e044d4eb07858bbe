package tui

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/JPM1118/flick/internal/config"
	"github.com/JPM1118/flick/internal/frames"
	"github.com/JPM1118/flick/internal/notify"
	"github.com/JPM1118/flick/internal/playback"
	"github.com/JPM1118/flick/internal/render"
	"github.com/JPM1118/flick/internal/source"
	"github.com/JPM1118/flick/internal/style"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	headerLines = 2 // title + frame info
	footerLines = 2 // notification bar + status bar
	minWidth    = 60
	minFPS      = 1
	maxFPS      = config.MaxFPS
	nudgeStep   = 1
	noticeTTL   = 10 * time.Second
)

// Messages

// frameTickMsg is one signal of the host clock. gen identifies the tick
// chain that produced it so a restarted chain retires the old one.
type frameTickMsg struct {
	gen int
	at  time.Time
}

type imageLoadedMsg struct {
	path string
	img  image.Image
	err  error
}

// Preview is the Bubble Tea model of the sprite previewer.
type Preview struct {
	session  *playback.Session
	renderer *render.Renderer
	loader   source.Loader
	styles   *style.Registry
	bar      *notify.Bar
	logger   *slog.Logger

	imagePath  string
	frameCount int
	offsets    []frames.Frame
	refresh    time.Duration
	origin     time.Time
	tickGen    int

	canvas  string
	width   int
	height  int
	loading bool
	lastErr string // transient error shown in notification bar
	err     error
}

// Option configures a Preview.
type Option func(*Preview)

// WithImage loads path through loader when the previewer starts.
func WithImage(loader source.Loader, path string) Option {
	return func(p *Preview) {
		p.loader = loader
		p.imagePath = path
	}
}

// WithStyles sets the registry used to cycle styles.
func WithStyles(r *style.Registry) Option {
	return func(p *Preview) {
		p.styles = r
	}
}

// WithFrames sets the frame count and initial offsets applied whenever an
// image is loaded.
func WithFrames(count int, offsets []frames.Frame) Option {
	return func(p *Preview) {
		p.frameCount = count
		p.offsets = offsets
	}
}

// WithRefreshInterval sets the host clock period.
func WithRefreshInterval(d time.Duration) Option {
	return func(p *Preview) {
		if d > 0 {
			p.refresh = d
		}
	}
}

// WithNotifyBar sets the bar that records setting changes.
func WithNotifyBar(b *notify.Bar) Option {
	return func(p *Preview) {
		p.bar = b
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Preview) {
		p.logger = l
	}
}

// NewPreview creates the previewer model for session, drawing through
// renderer.
func NewPreview(session *playback.Session, renderer *render.Renderer, opts ...Option) Preview {
	p := Preview{
		session:    session,
		renderer:   renderer,
		bar:        notify.NewBar(20, 2),
		logger:     slog.New(slog.DiscardHandler),
		frameCount: session.Len(),
		refresh:    playback.DefaultRefreshInterval,
		origin:     time.Now(),
	}
	for _, opt := range opts {
		opt(&p)
	}
	p.loading = p.loader != nil && p.imagePath != ""
	p.redraw()
	return p
}

// Err returns any fatal error that occurred.
func (p Preview) Err() error {
	return p.err
}

// Init starts the image load and, when already playing, the tick chain.
func (p Preview) Init() tea.Cmd {
	var cmds []tea.Cmd
	if p.loading {
		cmds = append(cmds, p.loadImage())
	}
	if p.session.Playing() {
		cmds = append(cmds, p.scheduleTick())
	}
	return tea.Batch(cmds...)
}

func (p Preview) loadImage() tea.Cmd {
	loader, path := p.loader, p.imagePath
	return func() tea.Msg {
		img, err := loader.Load(context.Background(), path)
		return imageLoadedMsg{path: path, img: img, err: err}
	}
}

func (p Preview) scheduleTick() tea.Cmd {
	gen := p.tickGen
	return tea.Tick(p.refresh, func(t time.Time) tea.Msg {
		return frameTickMsg{gen: gen, at: t}
	})
}

// Update handles messages.
func (p Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return p.handleKey(msg)

	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		return p, nil

	case frameTickMsg:
		return p.handleTick(msg)

	case imageLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.lastErr = fmt.Sprintf("Load failed: %s", msg.err.Error())
			p.logger.Error("image load failed", "path", msg.path, "err", msg.err)
			return p, nil
		}
		p.renderer.SetImage(msg.img)
		p.resetFrames()
		p.lastErr = ""
		p.bar.Push(notify.Notification{Setting: "image", To: filepath.Base(msg.path), Timestamp: time.Now()})
		p.logger.Info("image loaded", "path", msg.path, "bounds", msg.img.Bounds().String())
		p.redraw()
		return p, nil
	}

	return p, nil
}

// handleTick runs one host clock signal. A paused session lets the chain
// lapse; resuming starts a new one.
func (p Preview) handleTick(msg frameTickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != p.tickGen || !p.session.Playing() {
		return p, nil
	}

	ev, err := p.session.Tick(msg.at.Sub(p.origin), func(i int) {
		p.logger.Debug("frame changed", "index", i)
	})
	if err != nil {
		p.lastErr = err.Error()
		p.logger.Error("tick failed", "err", err)
	}
	if ev.Advanced {
		p.canvas = paintCanvas(p.renderer.Surface().Image())
		p.bar.Expire(noticeTTL, msg.at)
	}
	return p, p.scheduleTick()
}

func (p Preview) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()

	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit

	case " ", "p":
		playing := p.session.Toggle()
		p.bar.Changed("playback", playLabel(!playing), playLabel(playing), now)
		if playing {
			p.tickGen++
			return p, p.scheduleTick()
		}
		return p, nil

	case "l", "right":
		p.step(1)
		return p, nil

	case "h", "left":
		p.step(-1)
		return p, nil

	case "w", "up":
		p.nudge(0, -nudgeStep)
		return p, nil

	case "s", "down":
		p.nudge(0, nudgeStep)
		return p, nil

	case "a":
		p.nudge(-nudgeStep, 0)
		return p, nil

	case "d":
		p.nudge(nudgeStep, 0)
		return p, nil

	case "x":
		snap := p.session.Snapshot()
		if err := p.session.SetFrame(snap.Index, frames.Frame{}); err != nil {
			p.lastErr = err.Error()
			return p, nil
		}
		p.redraw()
		return p, nil

	case "+", "=":
		p.changeFPS(1, now)
		return p, nil

	case "-", "_":
		p.changeFPS(-1, now)
		return p, nil

	case "tab":
		from := p.session.Style()
		if from == "" {
			from = style.None
		}
		to := p.styles.Next(from)
		p.session.SetStyle(to)
		p.bar.Changed("style", from, to, now)
		p.redraw()
		return p, nil

	case "r":
		if p.loader == nil || p.imagePath == "" {
			return p, nil
		}
		p.loading = true
		return p, p.loadImage()
	}

	return p, nil
}

func (p *Preview) step(delta int) {
	if _, err := p.session.Step(delta); err != nil {
		p.lastErr = err.Error()
		return
	}
	p.redraw()
}

func (p *Preview) nudge(dx, dy float64) {
	if err := p.session.NudgeFrame(dx, dy); err != nil {
		p.lastErr = err.Error()
		return
	}
	p.redraw()
}

func (p *Preview) changeFPS(delta float64, now time.Time) {
	from := p.session.FPS()
	to := min(max(float64(int(from+0.5))+delta, minFPS), maxFPS)
	if to == from {
		return
	}
	if err := p.session.SetFPS(to); err != nil {
		p.lastErr = err.Error()
		return
	}
	p.bar.Changed("fps", formatFPS(from), formatFPS(to), now)
}

// resetFrames recreates the sequence for a newly loaded image and applies the
// configured offsets.
func (p *Preview) resetFrames() {
	p.session.ResetFrames(p.frameCount)
	for i, f := range p.offsets {
		if err := p.session.SetFrame(i, f); err != nil {
			p.logger.Warn("offset ignored", "index", i, "err", err)
		}
	}
}

// redraw renders the current state outside the tick chain and refreshes the
// cached canvas.
func (p *Preview) redraw() {
	if err := p.session.Render(); err != nil {
		p.lastErr = err.Error()
		p.logger.Error("render failed", "err", err)
		return
	}
	if p.renderer != nil && p.renderer.Surface() != nil {
		p.canvas = paintCanvas(p.renderer.Surface().Image())
	}
}

// View renders the previewer.
func (p Preview) View() string {
	sw, sh := p.surfaceSize()
	needW := max(minWidth, sw)
	needH := headerLines + (sh+1)/2 + footerLines
	if p.width < needW || p.height < needH {
		return fmt.Sprintf("\n  Terminal too small (need %dx%d, got %dx%d)\n", needW, needH, p.width, p.height)
	}

	var b strings.Builder

	// Header
	b.WriteString(p.renderHeader())
	b.WriteString("\n")

	// Frame info
	b.WriteString(p.renderFrameInfo())
	b.WriteString("\n")

	// Canvas
	b.WriteString(p.canvas)
	b.WriteString("\n")

	// Notification bar
	b.WriteString(p.renderNotificationBar())
	b.WriteString("\n")

	// Status bar
	b.WriteString(p.renderStatusBar())

	return b.String()
}

func (p Preview) surfaceSize() (int, int) {
	if p.renderer == nil || p.renderer.Surface() == nil {
		return 0, 0
	}
	return p.renderer.Surface().Size()
}

func (p Preview) renderHeader() string {
	title := headerStyle.Render("flick")
	if p.imagePath != "" {
		title += infoStyle.Render("  " + filepath.Base(p.imagePath))
	}

	playing := p.session.Playing()
	right := playStyle(playing).Render(playLabel(playing))

	gap := p.width - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + right
}

func (p Preview) renderFrameInfo() string {
	snap := p.session.Snapshot()
	if p.loading {
		return infoStyle.Render("Loading image...")
	}
	if len(snap.Frames) == 0 {
		return infoStyle.Render("No frames")
	}

	frame := accentStyle.Render(fmt.Sprintf("frame %d/%d", snap.Index+1, len(snap.Frames)))
	offset := fmt.Sprintf("offset (%+g, %+g)", snap.Frame.OffsetX, snap.Frame.OffsetY)
	styleName := snap.Style
	if styleName == "" {
		styleName = style.None
	}
	rest := fmt.Sprintf("  %s  %s fps  style %s (%s)",
		offset, formatFPS(snap.FPS), styleName, p.styles.Lookup(styleName))
	return frame + infoStyle.Render(rest)
}

func (p Preview) renderNotificationBar() string {
	if p.lastErr != "" {
		return errorStyle.Render("  " + truncate(p.lastErr, p.width-4))
	}
	return notificationBarStyle.Render("  " + p.bar.Render(p.width-4, time.Now()))
}

func (p Preview) renderStatusBar() string {
	return statusBarStyle.Render("  space:play/pause  h/l:step  wasd:nudge  x:zero  +/-:fps  tab:style  r:reload  q:quit")
}

// Helpers

func formatFPS(fps float64) string {
	return fmt.Sprintf("%g", float64(int(fps*10+0.5))/10)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

// Package viewer is a terminal pager that streams a markdown file in at a
// modem-like rate. Every visible prefix is repaired with remend before it
// is rendered, so math blocks cut off mid-stream still display.
package viewer

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/earentir/remend/internal/log"
	"github.com/earentir/remend/internal/remend"
	"github.com/earentir/remend/internal/render"
	"github.com/earentir/remend/internal/stream"
)

// Config holds the startup settings for a Model.
type Config struct {
	Path          string
	Style         string
	Wrap          int // 0 follows the terminal width
	Baudrate      int // 0 shows the document at once
	NormalizeMath bool
	// Watcher, when set, feeds file changes into the model.
	Watcher *Watcher
}

// Model is the bubbletea model for the pager.
type Model struct {
	path      string
	style     string
	wrapWidth int
	normalize bool
	watcher   *Watcher

	view          viewport.Model
	renderer      *glamour.TermRenderer
	rendererWidth int
	emitter       *stream.Emitter
	renderedLines []string
	totalLines    int
	streamDone    bool
	err           error

	fileMod  time.Time
	fileSize int64

	// smooth scroll animation
	animating    bool
	targetOffset int
	ticking      bool

	now func() time.Time
}

// New builds a Model over src, the current contents of cfg.Path. An "auto"
// style is resolved here, so call New before the program takes the terminal.
func New(cfg Config, src string, mod time.Time, size int64) Model {
	v := viewport.New(0, 0)
	v.YPosition = 1

	return Model{
		path:      cfg.Path,
		style:     render.ResolveStyle(cfg.Style),
		wrapWidth: cfg.Wrap,
		normalize: cfg.NormalizeMath,
		watcher:   cfg.Watcher,
		view:      v,
		emitter:   stream.New(src, cfg.Baudrate),
		fileMod:   mod,
		fileSize:  size,
		ticking:   true, // Init starts the first tick
		now:       time.Now,
	}
}

// ---------- rendering ----------

// Resize sets the terminal size and re-renders the visible prefix.
func (m *Model) Resize(width, height int) {
	bodyHeight := height - 2 // header + footer
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.view.Width = width
	m.view.Height = bodyHeight
	m.refresh(true)
}

// ensureRenderer builds the glamour renderer when none exists for the
// current wrap width.
func (m *Model) ensureRenderer() error {
	wrap := m.wrapWidth
	if wrap <= 0 {
		wrap = m.view.Width
	}
	if m.renderer != nil && m.rendererWidth == wrap {
		return nil
	}
	r, err := render.NewRenderer(wrap, m.style)
	if err != nil {
		m.renderer = nil
		return err
	}
	m.renderer, m.rendererWidth = r, wrap
	return nil
}

// refresh re-renders when the stream grew, force is set, or the last
// render failed.
func (m *Model) refresh(force bool) {
	prefix, done, grew := m.emitter.Prefix(m.now())
	m.streamDone = done
	if !grew && !force && m.err == nil {
		return
	}

	out, err := m.renderPrefix(prefix)
	if err != nil {
		log.Errorf("render %s: %v", m.path, err)
		m.err = err
		return
	}
	m.err = nil

	atBottom := m.view.AtBottom()
	m.renderedLines = strings.Split(strings.TrimRight(out, "\n"), "\n")
	m.totalLines = len(m.renderedLines)
	m.view.SetContent(strings.Join(m.renderedLines, "\n"))
	if atBottom && !done && !m.animating {
		m.view.GotoBottom()
	}
}

func (m *Model) renderPrefix(prefix string) (string, error) {
	if err := m.ensureRenderer(); err != nil {
		return "", err
	}
	return m.renderer.Render(remend.Process(prefix, remend.WithNormalizeMath(m.normalize)))
}

// ---------- animation helpers ----------

type tickMsg struct{}

func ticker() tea.Cmd {
	// ~60 FPS; smooth without cooking the CPU
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return tickMsg{} })
}

// ensureTicking starts the tick loop unless one is already running.
func (m *Model) ensureTicking() tea.Cmd {
	if m.ticking {
		return nil
	}
	m.ticking = true
	return ticker()
}

func (m *Model) startScrollTo(target int) tea.Cmd {
	m.targetOffset = clamp(target, 0, max(0, m.totalLines-m.view.Height))
	if m.view.YOffset == m.targetOffset {
		m.animating = false
		return nil
	}
	m.animating = true
	return m.ensureTicking()
}

func (m *Model) stepScroll() {
	cur := m.view.YOffset
	tgt := m.targetOffset
	if cur == tgt {
		m.animating = false
		return
	}
	diff := tgt - cur
	step := diff / 5
	if step == 0 {
		if diff > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	next := cur + step
	if (diff > 0 && next > tgt) || (diff < 0 && next < tgt) {
		next = tgt
	}
	m.view.SetYOffset(next)
	if next == tgt {
		m.animating = false
	}
}

// ---------- bubbletea plumbing ----------

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ticker()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Next())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyUp:
			return m, m.startScrollTo(m.view.YOffset - 1)
		case tea.KeyDown:
			return m, m.startScrollTo(m.view.YOffset + 1)
		case tea.KeyPgUp, tea.KeyCtrlB:
			return m, m.startScrollTo(m.view.YOffset - m.view.Height)
		case tea.KeyPgDown, tea.KeyCtrlF:
			return m, m.startScrollTo(m.view.YOffset + m.view.Height)
		case tea.KeyHome:
			m.animating = false
			m.view.GotoTop()
			return m, nil
		case tea.KeyEnd:
			m.animating = false
			m.view.GotoBottom()
			return m, nil
		}

		switch strings.ToLower(msg.String()) {
		case "q":
			return m, tea.Quit
		case "n":
			m.normalize = !m.normalize
			log.Debugf("math normalization %v", m.normalize)
			m.refresh(true)
			return m, nil
		case "r":
			m.emitter.Restart(m.now())
			m.view.GotoTop()
			m.refresh(true)
			return m, m.ensureTicking()
		}

	case FileChangedMsg:
		log.Debugf("reload %s (%d bytes)", m.path, msg.Size)
		m.fileMod, m.fileSize = msg.ModTime, msg.Size
		m.emitter.Reset(msg.Content, m.now())
		m.refresh(true)
		return m, tea.Batch(m.ensureTicking(), m.watcher.Next())

	case WatchErrorMsg:
		log.Warnf("watch %s: %v", m.path, msg.Err)
		return m, m.watcher.Next()

	case tickMsg:
		m.ticking = false
		if !m.streamDone || m.err != nil {
			m.refresh(false)
		}
		if m.animating {
			m.stepScroll()
		}
		if !m.streamDone || m.animating || m.err != nil {
			return m, m.ensureTicking()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/goldmark"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// numbers formats counts with thousands separators.
var numbers = message.NewPrinter(language.English)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the progress TUI.
type Model struct {
	// Viewport shows the selected result. Exported for test access.
	Viewport viewport.Model
	// Spinner marks the step in flight. Exported for test access.
	Spinner spinner.Model

	title    string
	finalKey string
	run      RunFunc
	theme    scribe.Theme
	styles   Styles

	steps    []*stepBlock
	selected int  // index into steps, -1 = none
	follow   bool // select each new result as it arrives

	totals    scribe.Totals
	running   bool
	completed bool
	cancelled bool
	fatal     string
	err       error
	ready     bool

	ctx     context.Context
	cancel  context.CancelFunc
	eventCh chan scribe.Event
	doneCh  chan error
}

// Option configures a [Model].
type Option func(*Model)

// WithTitle sets the header line.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithFinalKey sets the result key selected when the run completes.
func WithFinalKey(key string) Option {
	return func(m *Model) { m.finalKey = key }
}

// New creates a Model that executes run when the program starts and lists
// the steps of plan. Cancelling ctx cancels the run.
func New(ctx context.Context, run RunFunc, plan scribe.Plan, theme scribe.Theme, opts ...Option) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	styles := NewStyles(theme)
	sp.Style = styles.Running

	steps := make([]*stepBlock, len(plan))
	for i, s := range plan {
		steps[i] = newStepBlock(s, styles)
	}
	if len(steps) > 0 {
		steps[0].status = statusRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	m := Model{
		Spinner:  sp,
		title:    "scribe",
		run:      run,
		theme:    theme,
		styles:   styles,
		steps:    steps,
		selected: -1,
		follow:   true,
		running:  true,
		ctx:      runCtx,
		cancel:   cancel,
		eventCh:  make(chan scribe.Event, 16),
		doneCh:   make(chan error, 1),
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Running reports whether the run function has not yet returned.
func (m Model) Running() bool { return m.running }

// Completed reports whether the complete event was received.
func (m Model) Completed() bool { return m.completed }

// Err returns the run error, if any. Cancellation is not an error.
func (m Model) Err() error { return m.err }

// Fatal returns the message of a fatal error event, if one was received.
func (m Model) Fatal() string { return m.fatal }

// Totals returns the usage accumulated from step events.
func (m Model) Totals() scribe.Totals { return m.totals }

// Selected returns the result key shown in the viewport, or "" if none.
func (m Model) Selected() string {
	if m.selected < 0 {
		return ""
	}
	return m.steps[m.selected].resultKey
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		startRun(m.ctx, m.run, m.eventCh, m.doneCh),
		listenForEvent(m.eventCh, m.doneCh),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case EventMsg:
		m = m.processEvent(msg.Event)
		return m, listenForEvent(m.eventCh, m.doneCh)

	case RunDoneMsg:
		m.running = false
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			m.err = msg.Err
		}
		for _, s := range m.steps {
			if s.status == statusRunning {
				s.status = statusPending
			}
		}
		if m.follow {
			if i := m.indexOfKey(m.finalKey); i >= 0 && m.steps[i].status == statusDone {
				m = m.selectStep(i)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(runewidth.Truncate(m.title, m.Viewport.Width, "…")))
	b.WriteString("\n")
	b.WriteString(m.renderSteps())
	b.WriteString(m.styles.Muted.Render(strings.Repeat("─", m.Viewport.Width)))
	b.WriteString("\n")
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	chrome := 1 + len(m.steps) + 1 + 1 // header, steps, rule, status
	vpHeight := max(msg.Height-chrome, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderResult())
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.running {
			m.cancelled = true
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case "q":
		if !m.running {
			return m, tea.Quit
		}
		return m, nil

	case "tab":
		m.follow = false
		return m.cycleSelection(1), nil

	case "shift+tab":
		m.follow = false
		return m.cycleSelection(-1), nil
	}

	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	return m, cmd
}

// processEvent folds one run event into the step list and totals.
func (m Model) processEvent(evt scribe.Event) Model {
	switch e := evt.(type) {
	case scribe.EventStep:
		i := m.indexOfEvent(e.EventName)
		if i < 0 {
			return m
		}
		s := m.steps[i]
		s.status = statusDone
		s.text = e.Text
		s.usage = e.Usage
		m.totals.Add(e.Usage)
		m = m.advance(i)
		if m.follow {
			m = m.selectStep(i)
		}

	case scribe.EventError:
		if i := m.indexOfEvent(e.Step); i >= 0 {
			m.steps[i].status = statusFailed
			m.steps[i].message = e.Message
			if !e.Fatal {
				m.totals.Failures++
				m = m.advance(i)
			}
		}
		if e.Fatal {
			m.fatal = e.Message
			for _, s := range m.steps {
				if s.status == statusRunning {
					s.status = statusPending
				}
			}
		}

	case scribe.EventComplete:
		m.completed = true
	}
	return m
}

// advance marks the step after i as running.
func (m Model) advance(i int) Model {
	if i+1 < len(m.steps) && m.steps[i+1].status == statusPending {
		m.steps[i+1].status = statusRunning
	}
	return m
}

func (m Model) selectStep(i int) Model {
	if i == m.selected {
		return m
	}
	m.selected = i
	m.Viewport.SetContent(m.renderResult())
	m.Viewport.GotoTop()
	return m
}

// cycleSelection moves the selection by dir among completed steps,
// wrapping around.
func (m Model) cycleSelection(dir int) Model {
	n := len(m.steps)
	if n == 0 {
		return m
	}
	start := m.selected
	if start < 0 {
		start = n - 1
		if dir < 0 {
			start = 0
		}
	}
	for k := 1; k <= n; k++ {
		i := ((start+dir*k)%n + n) % n
		if m.steps[i].status == statusDone {
			return m.selectStep(i)
		}
	}
	return m
}

func (m Model) indexOfEvent(name string) int {
	if name == "" {
		return -1
	}
	for i, s := range m.steps {
		if s.eventName == name {
			return i
		}
	}
	return -1
}

func (m Model) indexOfKey(key string) int {
	if key == "" {
		return -1
	}
	for i, s := range m.steps {
		if s.resultKey == key {
			return i
		}
	}
	return -1
}

func (m Model) renderSteps() string {
	labelWidth := 0
	for _, s := range m.steps {
		labelWidth = max(labelWidth, runewidth.StringWidth(s.label()))
	}
	var b strings.Builder
	for i, s := range m.steps {
		b.WriteString(s.view(m.Viewport.Width, labelWidth, m.Spinner.View(), i == m.selected))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderResult() string {
	if m.selected < 0 {
		return m.styles.Muted.Render("Waiting for the first result...")
	}
	return goldmark.Render(m.steps[m.selected].text, m.Viewport.Width, m.theme)
}

func (m Model) statusLine() string {
	switch {
	case m.fatal != "":
		return m.styles.Error.Render("Error: " + m.fatal)
	case m.err != nil:
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	case m.running && m.cancelled:
		return m.styles.Muted.Render("Cancelling...")
	case m.running:
		for i, s := range m.steps {
			if s.status == statusRunning {
				return m.Spinner.View() + m.styles.Muted.Render(fmt.Sprintf(" Generating %s (%d/%d)", s.label(), i+1, len(m.steps)))
			}
		}
		return m.Spinner.View() + m.styles.Muted.Render(" Finishing")
	case m.cancelled:
		return m.styles.Muted.Render("Cancelled · q to quit")
	}

	t := m.totals
	parts := []string{
		fmt.Sprintf("Done %d/%d", t.Steps, len(m.steps)),
		numbers.Sprintf("%d in / %d out tok", t.InputTokens, t.OutputTokens),
		t.Cost().String(),
	}
	if m.selected >= 0 {
		parts = append(parts, numbers.Sprintf("%d words", goldmark.Summarize(m.steps[m.selected].text).Words))
	}
	parts = append(parts, "tab next · q quit")
	line := runewidth.Truncate(strings.Join(parts, " · "), m.Viewport.Width, "…")
	return m.styles.Muted.Render(line)
}

// startRun executes the run function in a goroutine and signals completion.
func startRun(ctx context.Context, run RunFunc, eventCh chan<- scribe.Event, doneCh chan<- error) tea.Cmd {
	return func() tea.Msg {
		err := run(ctx, scribe.SinkFunc(func(e scribe.Event) error {
			select {
			case eventCh <- e:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}))
		close(eventCh)
		doneCh <- err
		return nil
	}
}

// listenForEvent waits for the next event from the channel. When the
// channel closes, it reads the error from doneCh and returns RunDoneMsg.
func listenForEvent(ch <-chan scribe.Event, doneCh <-chan error) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return RunDoneMsg{Err: <-doneCh}
		}
		return EventMsg{Event: evt}
	}
}

package app

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"attn/internal/client/cache"
	"attn/internal/client/controller"
	sessiondto "attn/internal/modules/session/dto"
	statsdto "attn/internal/modules/stats/dto"
	"attn/internal/platform/clock"
	apperrors "attn/internal/platform/errors"
	"attn/internal/ui/theme"
	focusview "attn/internal/ui/views/focus"
	statsview "attn/internal/ui/views/stats"
)

// ─── ports ───────────────────────────────────────────────────────────────────

// sessionAPI is the slice of the REST client this model needs.
type sessionAPI interface {
	Start(ctx context.Context) (sessiondto.Session, error)
	Active(ctx context.Context) (sessiondto.Session, error)
	Distract(ctx context.Context, sessionID string) (sessiondto.Distraction, error)
	End(ctx context.Context, sessionID string) (sessiondto.EndOutput, error)
	Stats(ctx context.Context) (statsdto.Stats, error)
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Start    key.Binding
	Distract key.Binding
	End      key.Binding
	Stats    key.Binding
	Dismiss  key.Binding
	Quit     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Distract: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "distraction")),
		End:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end")),
		Stats:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "stats")),
		Dismiss:  key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "dismiss")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Distract, k.End, k.Stats, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Start, k.Distract, k.End}, {k.Stats, k.Dismiss, k.Quit}}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It is a thin translator: key presses
// become controller events, controller effects become commands, and the
// controller state is what gets rendered. No session logic lives here.
type Model struct {
	ctrl  controller.State
	api   sessionAPI
	cache cache.Store
	clock clock.Clock

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int
}

func NewModel(api sessionAPI, cacheStore cache.Store, clk clock.Clock) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Foam)

	return Model{
		ctrl:    controller.NewState(clk.Now()),
		api:     api,
		cache:   cacheStore,
		clock:   clk,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
	}
}

func (m Model) Init() tea.Cmd {
	return m.loadCacheCmd()
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.StatsLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case controller.Event:
		return m.apply(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Start):
		return m.apply(controller.Start{})
	case key.Matches(msg, m.keys.Distract):
		return m.apply(controller.Distract{})
	case key.Matches(msg, m.keys.End):
		return m.apply(controller.End{})
	case key.Matches(msg, m.keys.Stats):
		return m.apply(controller.ToggleStats{})
	case key.Matches(msg, m.keys.Dismiss):
		return m.apply(controller.Dismiss{})
	}
	return m, nil
}

func (m Model) apply(ev controller.Event) (tea.Model, tea.Cmd) {
	next, effects := controller.Apply(m.ctrl, ev, m.clock.Now())
	m.ctrl = next

	cmds := make([]tea.Cmd, 0, len(effects)+1)
	for _, effect := range effects {
		cmds = append(cmds, m.run(effect))
	}
	if m.ctrl.StatsLoading {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

// run turns one controller effect into a command whose result is fed back
// as a controller completion event.
func (m Model) run(effect controller.Effect) tea.Cmd {
	switch effect := effect.(type) {
	case controller.StartSession:
		return func() tea.Msg {
			session, err := m.api.Start(context.Background())
			return controller.StartDone{Epoch: effect.Epoch, Session: session, Err: err}
		}
	case controller.RecordDistraction:
		return func() tea.Msg {
			_, err := m.api.Distract(context.Background(), effect.SessionID)
			return controller.DistractDone{Epoch: effect.Epoch, Err: err}
		}
	case controller.EndSession:
		return func() tea.Msg {
			out, err := m.api.End(context.Background(), effect.SessionID)
			return controller.EndDone{Epoch: effect.Epoch, Out: out, Err: err}
		}
	case controller.FetchActive:
		return func() tea.Msg {
			session, err := m.api.Active(context.Background())
			if errors.Is(err, apperrors.ErrNoActiveSession) {
				return controller.ActiveDone{Epoch: effect.Epoch, Found: false}
			}
			return controller.ActiveDone{Epoch: effect.Epoch, Session: session, Found: err == nil, Err: err}
		}
	case controller.FetchStats:
		return func() tea.Msg {
			stats, err := m.api.Stats(context.Background())
			return controller.StatsDone{Epoch: effect.Epoch, Stats: stats, Err: err}
		}
	case controller.SaveCache:
		entry := effect.Entry
		return func() tea.Msg {
			_ = m.cache.Save(entry)
			return nil
		}
	case controller.ClearCache:
		return func() tea.Msg {
			_ = m.cache.Clear()
			return nil
		}
	case controller.ScheduleTick:
		return tea.Tick(time.Second, func(t time.Time) tea.Msg {
			return controller.Tick{Now: t}
		})
	}
	return nil
}

func (m Model) loadCacheCmd() tea.Cmd {
	return func() tea.Msg {
		entry, err := m.cache.Load()
		return controller.CacheLoaded{Entry: entry, OK: err == nil}
	}
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	var body string
	if m.ctrl.StatsOpen {
		body = statsview.Render(m.ctrl, m.spinner, m.width)
	} else {
		body = focusview.Render(m.ctrl, m.width)
	}
	return theme.App.Render(body + "\n\n" + m.help.View(m.keys))
}

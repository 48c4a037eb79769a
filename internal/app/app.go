// Package app contains the root application model.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/airdesk/internal/config"
	"github.com/zjrosen/airdesk/internal/conversation"
	"github.com/zjrosen/airdesk/internal/keys"
	"github.com/zjrosen/airdesk/internal/log"
	"github.com/zjrosen/airdesk/internal/pubsub"
	"github.com/zjrosen/airdesk/internal/seatmap"
	"github.com/zjrosen/airdesk/internal/ui/composer"
	"github.com/zjrosen/airdesk/internal/ui/logoverlay"
	"github.com/zjrosen/airdesk/internal/ui/markdown"
	"github.com/zjrosen/airdesk/internal/ui/overlay"
	"github.com/zjrosen/airdesk/internal/ui/panels"
	"github.com/zjrosen/airdesk/internal/ui/seatgrid"
	"github.com/zjrosen/airdesk/internal/ui/styles"
	"github.com/zjrosen/airdesk/internal/ui/toaster"
	"github.com/zjrosen/airdesk/internal/ui/transcript"
)

const (
	chatTitle       = "Customer Service"
	minPanelWidth   = 32
	maxPanelWidth   = 60
	minSplitWidth   = 90
	bootstrapWindow = 2 * time.Minute
)

// SeatRecorder persists the seat picked in a conversation.
type SeatRecorder interface {
	SaveSelectedSeat(ctx context.Context, conversationID, seat string) error
}

// Services are the long-lived collaborators the console drives. Store and
// Seats are required.
type Services struct {
	Store    *conversation.Store
	Seats    *seatmap.Controller
	Reloader *seatmap.Reloader
	History  SeatRecorder
	Config   config.Config
}

type bootstrapDoneMsg struct{ err error }

type seatSavedMsg struct{ err error }

// Model is the root application state.
type Model struct {
	services      Services
	debugMode     bool
	bootstrapping bool

	width  int
	height int

	snap       conversation.Snapshot
	transcript transcript.Model
	composer   composer.Model
	panels     panels.Model
	seatGrid   *seatgrid.Model

	toaster    toaster.Model
	logOverlay logoverlay.Model

	ctx               context.Context
	cancel            context.CancelFunc
	snapshotListener  *pubsub.ContinuousListener[conversation.Snapshot]
	inventoryListener *pubsub.ContinuousListener[[]string]
	logListener       *log.LogListener
}

// New creates the console. debugMode enables the log overlay (ctrl+x).
func New(services Services, debugMode bool) Model {
	ctx, cancel := context.WithCancel(context.Background())
	ui := services.Config.UI

	m := Model{
		services:   services,
		debugMode:  debugMode,
		transcript: transcript.New(markdown.NewCache(ui.MarkdownStyle)),
		composer:   composer.New(),
		panels: panels.New(panels.Options{
			ShowAgents:  ui.ShowAgentPanel,
			ShowContext: ui.ShowContextView,
			ShowEvents:  ui.ShowEventPanel,
		}),
		toaster:          toaster.New(),
		logOverlay:       logoverlay.New(),
		ctx:              ctx,
		cancel:           cancel,
		snapshotListener: pubsub.NewContinuousListener(ctx, services.Store.Broker()),
	}
	if services.Reloader != nil {
		m.inventoryListener = pubsub.NewContinuousListener(ctx, services.Reloader.Broker())
	}
	if debugMode {
		m.logListener = log.NewListener(ctx)
	}

	// Init issues the first bootstrap.
	m.bootstrapping = true
	m, _ = m.applySnapshot(services.Store.Snapshot())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.snapshotListener.Listen(),
		m.bootstrap(),
	}
	if m.inventoryListener != nil {
		cmds = append(cmds, m.inventoryListener.Listen())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

func (m Model) bootstrap() tea.Cmd {
	store := m.services.Store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), bootstrapWindow)
		defer cancel()
		return bootstrapDoneMsg{err: store.Bootstrap(ctx)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.logOverlay.SetSize(msg.Width, msg.Height)
		return m.layout(), nil

	case pubsub.Event[conversation.Snapshot]:
		var cmd tea.Cmd
		m, cmd = m.applySnapshot(msg.Payload)
		return m, tea.Batch(cmd, m.snapshotListener.Listen())

	case pubsub.Event[[]string]:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Notify(fmt.Sprintf("Seat inventory reloaded (%d occupied)", len(msg.Payload)), toaster.StyleInfo)
		return m, tea.Batch(cmd, m.inventoryListener.Listen())

	case log.LogEvent:
		if m.logOverlay.Visible() {
			m.logOverlay.Refresh()
		}
		return m, m.logListener.Listen()

	case bootstrapDoneMsg:
		m.bootstrapping = false
		if msg.err == nil {
			return m, nil
		}
		log.ErrorErr(log.CatStore, "bootstrap failed", msg.err)
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Notify(
			fmt.Sprintf("Could not reach the agents: %v (%s to retry)", msg.err, keys.Console.Retry.Help().Key),
			toaster.StyleError,
		)
		return m, cmd

	case composer.SubmitMsg:
		m.services.Store.Submit(msg.Text)
		return m, nil

	case seatgrid.PickedMsg:
		return m.handlePick(msg)

	case seatSavedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "saving selected seat failed", msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logoverlay.CloseMsg:
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Console.Quit) {
		return m, tea.Quit
	}
	if m.debugMode && key.Matches(msg, keys.Console.Logs) {
		m.logOverlay.Toggle()
		return m, nil
	}
	if m.logOverlay.Visible() {
		var cmd tea.Cmd
		m.logOverlay, cmd = m.logOverlay.Update(msg)
		return m, cmd
	}

	if m.seatGrid != nil {
		grid, cmd := m.seatGrid.Update(msg)
		m.seatGrid = &grid
		return m, cmd
	}

	if m.panels.Focused() {
		if key.Matches(msg, keys.Panel.FocusComposer) {
			m.panels = m.panels.Blur()
			var cmd tea.Cmd
			m.composer, cmd = m.composer.Focus()
			return m, cmd
		}
		var cmd tea.Cmd
		m.panels, cmd = m.panels.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, keys.Console.Retry):
		if m.bootstrapping || m.services.Store.Snapshot().Initialized() {
			return m, nil
		}
		m.bootstrapping = true
		log.Info(log.CatStore, "retrying bootstrap")
		return m, m.bootstrap()
	case key.Matches(msg, keys.Console.FocusPanel) && !m.panels.Empty():
		m.composer = m.composer.Blur()
		m.panels = m.panels.Focus()
		return m, nil
	case key.Matches(msg, keys.Console.ScrollUp, keys.Console.ScrollDown):
		var cmd tea.Cmd
		m.transcript, cmd = m.transcript.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.logOverlay.Visible():
	case m.seatGrid != nil:
		grid, c := m.seatGrid.Update(msg)
		m.seatGrid = &grid
		cmd = c
	case !m.panels.Empty() && msg.X >= m.chatWidth():
		m.panels, cmd = m.panels.Update(msg)
	default:
		m.transcript, cmd = m.transcript.Update(msg)
	}
	return m, cmd
}

// applySnapshot pushes store state into every view and opens the seat
// overlay when the transcript asks for it.
func (m Model) applySnapshot(snap conversation.Snapshot) (Model, tea.Cmd) {
	prev := m.snap
	m.snap = snap

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.transcript, cmd = m.transcript.SetMessages(snap.Messages, snap.Pending)
	cmds = append(cmds, cmd)
	m.panels = m.panels.SetSnapshot(snap)

	if m.services.Seats.Evaluate(snap.Messages) || (m.seatGrid == nil && m.services.Seats.State().Visible) {
		grid := seatgrid.New(m.services.Seats)
		m.seatGrid = &grid
		m.composer = m.composer.Blur()
		log.Debug(log.CatUI, "seat overlay shown")
	}

	if snap.LastError != nil && snap.Failures != prev.Failures {
		m.toaster, cmd = m.toaster.Notify(snap.LastError.Error(), toaster.StyleError)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handlePick(msg seatgrid.PickedMsg) (tea.Model, tea.Cmd) {
	if !msg.Accepted {
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Notify(msg.Reason, toaster.StyleWarn)
		return m, cmd
	}

	m.seatGrid = nil
	var focusCmd, toastCmd tea.Cmd
	m.composer, focusCmd = m.composer.Focus()
	m.toaster, toastCmd = m.toaster.Notify("Requested seat "+msg.Seat, toaster.StyleSuccess)
	return m, tea.Batch(focusCmd, toastCmd, m.saveSeat(msg.Seat))
}

func (m Model) saveSeat(seat string) tea.Cmd {
	history := m.services.History
	id := m.snap.ConversationID
	if history == nil || id == "" {
		return nil
	}
	return func() tea.Msg {
		return seatSavedMsg{err: history.SaveSelectedSeat(context.Background(), id, seat)}
	}
}

func (m Model) chatWidth() int {
	if m.panels.Empty() || m.width < minSplitWidth {
		return m.width
	}
	return m.width - min(max(m.width*2/5, minPanelWidth), maxPanelWidth)
}

func (m Model) layout() Model {
	chatW := m.chatWidth()
	m.composer = m.composer.SetWidth(chatW)
	m.transcript = m.transcript.SetSize(max(chatW-2, 1), max(m.height-m.composer.Height()-2, 1))
	if chatW < m.width {
		m.panels = m.panels.SetSize(m.width-chatW, m.height)
	}
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	title := chatTitle
	if m.snap.Pending {
		title += " · working"
	}
	chatH := max(m.height-m.composer.Height(), 3)
	left := lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderPanel(m.transcript.View(), title, m.chatWidth(), chatH, !m.panels.Focused()),
		m.composer.View(),
	)

	view := left
	if m.chatWidth() < m.width {
		view = lipgloss.JoinHorizontal(lipgloss.Top, left, m.panels.View())
	}

	if m.seatGrid != nil {
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height}, m.seatGrid.View(), view)
	}
	view = m.toaster.Overlay(view, m.width, m.height)
	if m.debugMode && m.logOverlay.Visible() {
		view = m.logOverlay.Overlay(view)
	}
	return zone.Scan(view)
}

// Close stops the model's subscriptions.
func (m *Model) Close() error {
	m.cancel()
	return nil
}

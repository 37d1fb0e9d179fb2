package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gorilla/websocket"
	"github.com/muesli/termenv"

	"pokerroom/internal/deck"
	"pokerroom/internal/engine"
	"pokerroom/internal/protocol"
)

var CLI struct {
	URL    string `short:"u" default:"ws://localhost:8080/ws" help:"Room server WebSocket URL"`
	Player string `short:"p" help:"Subscribe as this player id (shows their hole cards)"`
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	boardStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	actorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	foldedStyle = lipgloss.NewStyle().Strikethrough(true).Faint(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// updateMsg carries one pushed frame from the read loop.
type updateMsg protocol.StateUpdateData

type errMsg struct{ err error }

type model struct {
	conn    *websocket.Conn
	updates chan tea.Msg
	spin    spinner.Model

	public *engine.PublicView
	view   *engine.PlayerView
	err    error
}

func newModel(conn *websocket.Conn) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return model{
		conn:    conn,
		updates: make(chan tea.Msg, 64),
		spin:    s,
	}
}

func (m model) Init() tea.Cmd {
	go m.readLoop()
	return tea.Batch(m.spin.Tick, m.waitForUpdate())
}

// readLoop feeds server frames into the updates channel.
func (m model) readLoop() {
	for {
		_, payload, err := m.conn.ReadMessage()
		if err != nil {
			m.updates <- errMsg{err}
			return
		}
		var msg protocol.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Type != protocol.TypeStateUpdate {
			continue
		}
		var data protocol.StateUpdateData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			continue
		}
		m.updates <- updateMsg(data)
	}
}

func (m model) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case updateMsg:
		m.public = msg.Public
		m.view = msg.View
		return m, m.waitForUpdate()
	case errMsg:
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.err != nil {
		return errStyle.Render("connection lost: "+m.err.Error()) + "\n"
	}
	if m.public == nil && m.view == nil {
		return fmt.Sprintf("\n %s waiting for the first snapshot…\n", m.spin.View())
	}
	if m.view != nil {
		return renderPlayerView(m.view)
	}
	return renderPublicView(m.public)
}

func renderPublicView(v *engine.PublicView) string {
	out := titleStyle.Render(fmt.Sprintf("table %s", v.TableID))
	out += dimStyle.Render(fmt.Sprintf("  %s · round %d · %s\n\n", v.TableStatus, v.Round.Number, v.Phase.Street))
	out += boardStyle.Render("board: "+cards(v.Community)) + fmt.Sprintf("   pot %d\n\n", v.Pot)
	for _, p := range v.Players {
		out += seatLine(p, v.CurrentPlayerID, v.DealerID)
	}
	out += resultLine(v.LastRoundResult, v.Winner)
	out += dimStyle.Render("\npress q to quit\n")
	return out
}

func renderPlayerView(v *engine.PlayerView) string {
	out := titleStyle.Render(fmt.Sprintf("%s (you)", v.Name))
	out += dimStyle.Render(fmt.Sprintf("  %s · round %d · %s\n\n", v.TableStatus, v.Round.Number, v.Phase.Street))
	out += boardStyle.Render("hand:  "+cards(v.Hand)) + "\n"
	out += boardStyle.Render("board: "+cards(v.Community)) + fmt.Sprintf("   pot %d\n\n", v.Pot)
	out += seatLine(engine.OpponentView{
		ID: v.PlayerID, Name: v.Name + " (you)",
		Status: v.Self.Status, Chips: v.Self.Chips, Bet: v.Self.Bet,
	}, v.CurrentPlayerID, v.DealerID)
	for _, p := range v.Opponents {
		out += seatLine(p, v.CurrentPlayerID, v.DealerID)
	}
	out += resultLine(v.LastRoundResult, v.Winner)
	out += dimStyle.Render("\npress q to quit\n")
	return out
}

func seatLine(p engine.OpponentView, actorID, dealerID string) string {
	marker := "  "
	if p.ID == dealerID {
		marker = "D "
	}
	line := fmt.Sprintf("%s%-12s %6d chips  bet %d/%d", marker, p.Name, p.Chips, p.Bet.Phase, p.Bet.Round)
	if len(p.Hand) > 0 {
		line += "  " + cards(p.Hand)
	}
	switch {
	case p.ID == actorID:
		line = actorStyle.Render(line + "  ← to act")
	case p.Status == engine.StatusFolded:
		line = foldedStyle.Render(line)
	case p.Status == engine.StatusAllIn:
		line += dimStyle.Render("  (all-in)")
	}
	return line + "\n"
}

func resultLine(result *engine.RoundResult, winner string) string {
	out := ""
	if result != nil {
		out += dimStyle.Render(fmt.Sprintf("\nlast round: pot %d to %v\n", result.Pot, result.WinnerIDs))
	}
	if winner != "" {
		out += titleStyle.Render(fmt.Sprintf("\ngame over — winner %s\n", winner))
	}
	return out
}

func cards(cs []deck.Card) string {
	if len(cs) == 0 {
		return dimStyle.Render("--")
	}
	out := ""
	for i, c := range cs {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}

func main() {
	kong.Parse(&CLI,
		kong.Name("pokerroom-watch"),
		kong.Description("Terminal observer for a pokerroom server."),
	)

	lipgloss.SetColorProfile(termenv.ColorProfile())

	conn, _, err := websocket.DefaultDialer.Dial(CLI.URL, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dialing %s: %v\n", CLI.URL, err)
		os.Exit(1)
	}
	defer conn.Close()

	sub, err := protocol.NewMessage(protocol.TypeSubscribe, protocol.SubscribeData{PlayerID: CLI.Player})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	payload, _ := json.Marshal(sub)
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		fmt.Fprintf(os.Stderr, "subscribing: %v\n", err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(newModel(conn)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

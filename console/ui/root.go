package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"user-grid/network"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const (
	msgFetchFailed = "Failed to fetch users"
	msgFetchError  = "Error fetching users"
)

// Lister retrieves the full user list.
type Lister interface {
	ListUsers(ctx context.Context) ([]network.User, error)
}

// API is everything the console needs from the users service.
type API interface {
	Lister
	Creator
}

type usersLoadedMsg struct {
	seq   uint64
	users []network.User
	err   error
}

// RootModel is the application shell. It alone owns the user list.
type RootModel struct {
	api API
	ctx context.Context
	log zerolog.Logger

	Users   []network.User
	Loading bool
	Err     string
	Form    FormModel

	// seq identifies the latest fetch; older results are dropped
	seq uint64

	list     viewport.Model
	spin     spinner.Model
	width    int
	height   int
	Quitting bool
}

func NewRootModel(ctx context.Context, api API, log zerolog.Logger) RootModel {
	vp := viewport.New(defaultWidth, 10)
	vp.KeyMap = viewport.KeyMap{PageUp: keys.PageUp, PageDown: keys.PageDown}

	return RootModel{
		api:     api,
		ctx:     ctx,
		log:     log,
		Loading: true,
		Form:    NewFormModel(ctx, api, log),
		seq:     1,
		list:    vp,
		spin:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(focusedStyle)),
	}
}

// Init issues the single start-up fetch.
func (m RootModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(m.seq), m.spin.Tick, m.Form.Init())
}

// FetchAll enters Loading and requests the list again. Only the result of
// the most recently issued fetch is applied.
func (m RootModel) FetchAll() (RootModel, tea.Cmd) {
	m.Loading = true
	m.Err = ""
	m.seq++
	return m, tea.Batch(m.fetchCmd(m.seq), m.spin.Tick)
}

func (m RootModel) fetchCmd(seq uint64) tea.Cmd {
	api, ctx := m.api, m.ctx
	return func() tea.Msg {
		users, err := api.ListUsers(ctx)
		return usersLoadedMsg{seq: seq, users: users, err: err}
	}
}

func (m RootModel) handleLoaded(msg usersLoadedMsg) RootModel {
	if msg.seq != m.seq {
		m.log.Debug().Uint64("seq", msg.seq).Uint64("latest", m.seq).Msg("dropping superseded fetch")
		return m
	}
	m.Loading = false

	switch {
	case msg.err == nil:
		m.Users = msg.users
	case errors.Is(msg.err, network.ErrNoPayload), network.IsStatus(msg.err):
		m.Err = msgFetchFailed
	default:
		m.Err = msgFetchError
		m.log.Error().Err(msg.err).Msg(msgFetchError)
	}
	m.syncList()
	return m
}

func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncList()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.Quitting = true
			return m, tea.Quit
		case key.Matches(msg, keys.Refresh):
			return m.FetchAll()
		}
		if m.Loading || m.Err != "" {
			return m, nil
		}
		if key.Matches(msg, keys.PageUp, keys.PageDown) {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

	case usersLoadedMsg:
		return m.handleLoaded(msg), nil

	case RecordCreatedMsg:
		m.Users = append(m.Users, msg.User)
		m.syncList()
		return m, nil

	case spinner.TickMsg:
		if !m.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	// the form keeps receiving its own results whatever the shell shows
	var cmd tea.Cmd
	m.Form, cmd = m.Form.Update(msg)
	cmds = append(cmds, cmd)
	m.syncList()

	return m, tea.Batch(cmds...)
}

// syncList refreshes the grid content and fits the viewport under the
// header and form.
func (m *RootModel) syncList() {
	if m.width > 0 {
		m.list.Width = m.width - 4
	}
	if m.height > 0 {
		h := m.height - lipgloss.Height(m.chrome()) - 2
		m.list.Height = max(h, 4)
	}
	m.list.SetContent(RenderGrid(m.Users, m.list.Width))
}

func (m RootModel) chrome() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("User Management System") + "\n")
	b.WriteString(subtitleStyle.Render("Terminal console for the users API") + "\n\n")
	b.WriteString(sectionStyle.Render(m.Form.View()) + "\n\n")

	header := sectionTitleStyle.Render(fmt.Sprintf("Users (%d)", len(m.Users)))
	refresh := renderButton("Refresh", false, "#28A745")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, header, "  ", refresh) + "\n")
	return b.String()
}

func (m RootModel) View() string {
	if m.Quitting {
		return "Bye!\n"
	}
	if m.Loading {
		return docStyle.Render(m.spin.View() + " Loading users...")
	}
	if m.Err != "" {
		return docStyle.Render(errorMessageStyle("Error: "+m.Err) + "\n\n" +
			blurredStyle.Render(helpLine(keys.Refresh, keys.Quit)))
	}

	var b strings.Builder
	b.WriteString(m.chrome() + "\n")
	switch {
	case len(m.Users) == 0:
		b.WriteString(blurredStyle.Render("No users found"))
	case m.height == 0:
		// no size reported yet; show the grid unclipped
		b.WriteString(RenderGrid(m.Users, m.list.Width))
	default:
		b.WriteString(m.list.View())
	}
	b.WriteString("\n\n")
	b.WriteString(blurredStyle.Render(helpLine(keys.Next, keys.Enter, keys.RoleNext, keys.Refresh, keys.PageDown, keys.Quit)))
	return docStyle.Render(b.String())
}

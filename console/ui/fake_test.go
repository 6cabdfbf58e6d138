package ui

import (
	"context"
	"sync"

	"user-grid/network"

	tea "github.com/charmbracelet/bubbletea"
)

type listResult struct {
	users []network.User
	err   error
}

type createResult struct {
	user *network.User
	err  error
}

// fakeAPI answers from queued results; the last one repeats once the
// queue is drained.
type fakeAPI struct {
	mu          sync.Mutex
	lists       []listResult
	creates     []createResult
	listCalls   int
	createCalls int
	lastCreate  network.CreateUserRequest
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]network.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if len(f.lists) == 0 {
		return nil, network.ErrNoPayload
	}
	r := f.lists[0]
	if len(f.lists) > 1 {
		f.lists = f.lists[1:]
	}
	return r.users, r.err
}

func (f *fakeAPI) CreateUser(ctx context.Context, req network.CreateUserRequest) (*network.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastCreate = req
	if len(f.creates) == 0 {
		return nil, network.ErrNoPayload
	}
	r := f.creates[0]
	if len(f.creates) > 1 {
		f.creates = f.creates[1:]
	}
	return r.user, r.err
}

// collect runs cmd and flattens batches into the messages they produce.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// appMsgs keeps only the messages produced by the console itself, leaving
// out spinner and cursor ticks.
func appMsgs(msgs []tea.Msg) []tea.Msg {
	var out []tea.Msg
	for _, msg := range msgs {
		switch msg.(type) {
		case usersLoadedMsg, createResultMsg, RecordCreatedMsg:
			out = append(out, msg)
		}
	}
	return out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

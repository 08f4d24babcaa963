package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notetabs/internal/notes"
)

// StatusBridge forwards save status changes from the store, which may report
// from a timer goroutine, into the program's message loop. Handle never
// blocks; when the buffer is full the oldest status is dropped.
type StatusBridge struct {
	ch chan SaveStatusMsg
}

func NewStatusBridge() *StatusBridge {
	return &StatusBridge{ch: make(chan SaveStatusMsg, 16)}
}

// Handle is a notes.StatusHandler.
func (b *StatusBridge) Handle(status notes.SaveStatus, err error) {
	msg := SaveStatusMsg{Status: status, Err: err}
	for {
		select {
		case b.ch <- msg:
			return
		default:
		}

		select {
		case <-b.ch:
		default:
		}
	}
}

// wait returns a command that delivers the next status. A nil bridge never
// delivers anything.
func (b *StatusBridge) wait() tea.Cmd {
	if b == nil {
		return nil
	}
	return func() tea.Msg {
		return <-b.ch
	}
}

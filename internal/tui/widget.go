// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"time"

	"github.com/MKhiriev/go-promise-sync/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// EntrySource feeds the widget. RefreshScheduler implements it.
type EntrySource interface {
	// Entries streams every produced entry.
	Entries() <-chan models.Entry
	// Trigger asks for a reload without blocking.
	Trigger()
}

// Widget is the bubbletea model that renders the newest entry. It reloads on
// demand and once more when the shown entry reaches its ValidUntil.
type Widget struct {
	source    EntrySource
	buildInfo models.AppBuildInfo
	now       func() time.Time

	spinner spinner.Model

	entry         models.Entry
	loaded        bool
	loading       bool
	closed        bool
	showBuildInfo bool
	width         int
}

// NewWidget returns a Widget waiting for its first entry.
func NewWidget(source EntrySource, buildInfo models.AppBuildInfo) Widget {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return Widget{
		source:    source,
		buildInfo: buildInfo,
		now:       time.Now,
		spinner:   s,
		loading:   true,
	}
}

func (w Widget) Init() tea.Cmd {
	return tea.Batch(w.spinner.Tick, w.waitForEntry())
}

func (w Widget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return w.handleKey(msg)

	case tea.WindowSizeMsg:
		w.width = msg.Width
		return w, nil

	case entryMsg:
		w.entry = msg.entry
		w.loaded = true
		w.loading = false
		return w, tea.Batch(w.waitForEntry(), w.scheduleDeadline(msg.entry.ValidUntil))

	case deadlineMsg:
		// A newer entry reschedules its own deadline.
		if !w.loaded || !w.entry.ValidUntil.Equal(msg.validUntil) {
			return w, nil
		}
		return w.reload()

	case entriesClosedMsg:
		w.closed = true
		w.loading = false
		return w, nil

	case spinner.TickMsg:
		if !w.loading {
			return w, nil
		}
		var cmd tea.Cmd
		w.spinner, cmd = w.spinner.Update(msg)
		return w, cmd
	}

	return w, nil
}

func (w Widget) View() string {
	if w.showBuildInfo {
		return renderBuildInfoWindow(w.buildInfo)
	}
	return w.renderEntry()
}

func (w Widget) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return w, tea.Quit
	case key.Matches(msg, keys.esc):
		w.showBuildInfo = false
		return w, nil
	case key.Matches(msg, keys.about):
		w.showBuildInfo = !w.showBuildInfo
		return w, nil
	case w.showBuildInfo:
		return w, nil
	case key.Matches(msg, keys.reload):
		return w.reload()
	}
	return w, nil
}

func (w Widget) reload() (tea.Model, tea.Cmd) {
	if w.closed {
		return w, nil
	}
	w.source.Trigger()
	if w.loading {
		return w, nil
	}
	w.loading = true
	return w, w.spinner.Tick
}

func (w Widget) waitForEntry() tea.Cmd {
	entries := w.source.Entries()
	return func() tea.Msg {
		entry, ok := <-entries
		if !ok {
			return entriesClosedMsg{}
		}
		return entryMsg{entry: entry}
	}
}

func (w Widget) scheduleDeadline(validUntil time.Time) tea.Cmd {
	if validUntil.IsZero() {
		return nil
	}
	d := validUntil.Sub(w.now())
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return deadlineMsg{validUntil: validUntil}
	})
}

package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-promise-sync/models"
)

const (
	maxPromiseRows  = 8
	defaultRowWidth = 48
	clockLayout     = "15:04"
)

const hotKeys = "r: reload  v: about  q: quit"

func (w Widget) renderEntry() string {
	if !w.loaded {
		if w.closed {
			return renderPage("PROMISES", "Updates stopped.", hotKeys)
		}
		return renderPage("PROMISES", w.spinner.View()+" Loading promises...", hotKeys)
	}

	s := w.entry.Snapshot
	var b strings.Builder

	b.WriteString(w.renderHeader(s))
	b.WriteString("\n\n")

	switch {
	case !s.IsAuthenticated:
		b.WriteString("Sign in to the app to see your promises.")
	case s.Total() == 0:
		b.WriteString("No promises yet.")
	default:
		fmt.Fprintf(&b, "%d of %d kept (%d%%), %d pending\n\n",
			s.Completed(), s.Total(), s.CompletionPercentage(), s.Pending())
		b.WriteString(w.renderPromises(s.Promises))
	}

	b.WriteString("\n\n")
	b.WriteString(w.renderFooter())

	title := "PROMISES"
	if w.loading {
		title += " " + w.spinner.View()
	}
	return renderPage(title, b.String(), hotKeys)
}

func (w Widget) renderHeader(s models.Snapshot) string {
	if !s.IsAuthenticated {
		return signedOutBadgeStyle.Render("● signed out")
	}

	who := s.UserEmailOrEmpty()
	if who == "" {
		who = s.UserIDOrEmpty()
	}
	if who == "" {
		who = "-"
	}
	return signedInBadgeStyle.Render("● signed in") + "  " + fitText(who, w.rowWidth())
}

func (w Widget) renderPromises(promises []models.PromiseRecord) string {
	rows := make([]string, 0, maxPromiseRows+1)
	width := w.rowWidth()

	for i, p := range promises {
		if i == maxPromiseRows {
			rows = append(rows, helpStyle.Render(fmt.Sprintf("+%d more", len(promises)-maxPromiseRows)))
			break
		}
		if p.Resolved {
			rows = append(rows, resolvedStyle.Render("✓ "+fitText(p.Content, width)))
		} else {
			rows = append(rows, pendingStyle.Render("• "+fitText(p.Content, width)))
		}
	}
	return strings.Join(rows, "\n")
}

func (w Widget) renderFooter() string {
	s := w.entry.Snapshot

	updated := "never"
	if !s.LastUpdated.IsZero() {
		updated = s.LastUpdated.Local().Format(clockLayout)
	}

	parts := []string{
		"updated " + updated,
		fmt.Sprintf("v%d", s.Version),
		"from " + sourceLabel(w.entry.Source),
	}
	if !w.entry.ValidUntil.IsZero() {
		parts = append(parts, "next check "+w.entry.ValidUntil.Local().Format(clockLayout))
	}
	return footerStyle.Render(strings.Join(parts, " | "))
}

func (w Widget) rowWidth() int {
	// Padding plus the row marker.
	if w.width > 8 {
		return w.width - 8
	}
	return defaultRowWidth
}

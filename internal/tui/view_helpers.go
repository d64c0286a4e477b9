package tui

import (
	"strings"

	"github.com/MKhiriev/go-promise-sync/internal/service"
	"github.com/MKhiriev/go-promise-sync/internal/store"
)

const uiDivider = "────────────────────────────────────────"

func renderPage(title, data, hotKeys string) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(uiDivider)
	b.WriteString("\n")

	if strings.TrimSpace(data) != "" {
		b.WriteString(data)
		b.WriteString("\n")
	} else {
		b.WriteString("-\n")
	}

	b.WriteString(uiDivider)
	b.WriteString("\n")
	if strings.TrimSpace(hotKeys) != "" {
		b.WriteString(helpStyle.Render(hotKeys))
	}

	return appStyle.Render(b.String())
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}

// fitText truncates v to max runes, marking the cut with an ellipsis.
func fitText(v string, max int) string {
	r := []rune(v)
	if max <= 0 || len(r) <= max {
		return v
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

// sourceLabel names where the shown data came from in user terms.
func sourceLabel(source string) string {
	switch source {
	case "remote":
		return "cloud"
	case "file":
		return "shared file"
	case "kv:" + store.KeySnapshot:
		return "local mirror"
	case service.LegacySourceName:
		return "legacy store"
	case service.DefaultSourceName, "":
		return "no data"
	default:
		return source
	}
}

package job

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/easel-app/easel/internal/ui"
)

// Column display widths for consistent alignment across CLI and TUI renderers.
// Use these constants with lipgloss.NewStyle().Width(N).Render() for ANSI-safe padding.
const (
	// ColWidthStatus is the display width of the status tag column.
	ColWidthStatus = 9
	// ColWidthPayment is the display width of the payment tag column.
	ColWidthPayment = 7
)

// FormatStatusTag returns a fixed-width styled workflow-status indicator,
// shared by the CLI list output and the TUI browser.
func FormatStatusTag(s Status) string {
	label := StatusLabel(s)
	var styled string
	switch s {
	case StatusInProgress:
		styled = ui.Accent.Render(label)
	case StatusPending:
		styled = ui.Info.Render(label)
	case StatusCompleted:
		styled = ui.Success.Render(label)
	case StatusCancelled, StatusRejected:
		styled = ui.Muted.Render(label)
	default:
		styled = ui.Subtitle.Render(label)
	}
	return lipgloss.NewStyle().Width(ColWidthStatus).Render(styled)
}

// FormatPaymentTag returns a fixed-width styled payment indicator.
func FormatPaymentTag(p PaymentStatus) string {
	var styled string
	switch p {
	case PaymentPaid:
		styled = ui.Success.Render("paid")
	case PaymentPartial:
		styled = ui.Warning.Render("partial")
	default:
		styled = ui.Muted.Render("unpaid")
	}
	return lipgloss.NewStyle().Width(ColWidthPayment).Render(styled)
}

// FormatDue renders a due date relative to today (both YYYY-MM-DD), coloring
// overdue and imminent deadlines.
func FormatDue(dueDate, today string) string {
	if dueDate == "" {
		return ui.Muted.Render("no due date")
	}
	switch {
	case dueDate < today:
		return ui.Error.Render(ui.IconOverdue + " " + dueDate)
	case dueDate == today:
		return ui.Warning.Render("due today")
	default:
		return ui.Subtitle.Render(dueDate)
	}
}

// FormatCost renders a commission price, or a muted dash when unset.
func FormatCost(cost float64, currency string) string {
	if cost <= 0 {
		return ui.Muted.Render("—")
	}
	if currency == "" {
		currency = "$"
	}
	return ui.ValueStyle.Render(fmt.Sprintf("%s%.0f", currency, cost))
}

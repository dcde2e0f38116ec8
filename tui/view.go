package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/hemlineco/stylist/pkg/conversation"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	return b.String()
}

func (m Model) headerView() string {
	title := titleStyle.Render("stylist")

	session := "no session yet"
	if m.hasSession {
		session = "session " + m.sessionID
	}
	if m.hasModelImage {
		session += " · model photo set"
	}

	return title + " " + sessionStyle.Render(session)
}

func (m Model) statusView() string {
	if m.status != "" {
		return statusStyle.Render(truncateLine(m.status, m.width))
	}
	if len(m.staged) > 0 {
		return statusStyle.Render(truncateLine(fmt.Sprintf("Staged: %s", strings.Join(m.staged, ", ")), m.width))
	}
	return ""
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder
	for _, msg := range m.transcript {
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}

	if m.pending != nil {
		b.WriteString(m.renderPending())
		b.WriteString("\n")
	}
	if m.loading {
		// Transient row only; never part of the log.
		b.WriteString(m.spin.View() + thinkingStyle.Render("Thinking..."))
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}

func (m Model) renderMessage(msg conversation.Message) string {
	var b strings.Builder

	switch msg.Role {
	case conversation.RoleUser:
		b.WriteString(userBadge.Render("You") + " " + msg.Content + "\n")
	case conversation.RoleAssistant:
		b.WriteString(assistantBadge.Render("Stylist") + "\n")
		b.WriteString(m.renderMarkdown(msg.Content))
	}

	for _, img := range msg.Images {
		b.WriteString(m.renderImageRef(img))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderPending() string {
	var b strings.Builder
	b.WriteString(userBadge.Render("You") + " " + m.pending.text + "\n")
	for i, path := range m.pending.attachments {
		b.WriteString(m.renderImageRef(conversation.ImageRef{
			ID:   fmt.Sprintf("local-%d", i),
			URL:  path,
			Kind: conversation.KindUserProvided,
		}))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMarkdown(content string) string {
	if m.markdown == nil {
		return content + "\n"
	}
	rendered, err := m.markdown.Render(content)
	if err != nil {
		return content + "\n"
	}
	return rendered
}

// renderImageRef draws a placard for an image the terminal can't inline:
// provenance badge, location, and bounding box when present.
func (m Model) renderImageRef(img conversation.ImageRef) string {
	badge := "[" + string(img.Kind) + "]"
	if style, ok := kindBadges[string(img.Kind)]; ok {
		badge = style.Render(badge)
	}

	line := badge + " " + img.URL
	if img.BBox != nil {
		line += fmt.Sprintf(" bbox=(%.0f,%.0f,%.0f,%.0f)", img.BBox.X, img.BBox.Y, img.BBox.W, img.BBox.H)
	}

	return placardStyle.Render(truncateLine(line, m.width-6))
}

// truncateLine trims a styled line to the given display width.
func truncateLine(s string, width int) string {
	if width <= 3 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width-3, "...")
}

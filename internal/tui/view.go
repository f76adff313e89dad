package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"flashgenius/internal/models"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("FlashGenius"))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.modal != "" {
		b.WriteString(m.styles.Modal.Render(m.modal))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("esc dismiss"))
		return b.String()
	}

	switch m.tab {
	case tabCreate:
		b.WriteString(m.renderCreate())
	case tabCards:
		b.WriteString(m.renderCards())
	case tabLibrary:
		b.WriteString(m.renderLibrary())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderTabs() string {
	rendered := make([]string, 0, int(tabCount))
	for t := tabCreate; t < tabCount; t++ {
		style := m.styles.TabInactive
		if t == m.tab {
			style = m.styles.TabActive
		}
		rendered = append(rendered, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderCreate() string {
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	kb := "off"
	if m.useKB {
		kb = "on"
	}
	settings := fmt.Sprintf("cards: %d   difficulty: %s   knowledge base: %s",
		cardCounts[m.countIdx], models.DifficultyLevels[m.diffIdx], kb)
	b.WriteString(m.styles.Muted.Render(settings))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("ctrl+g generate • ctrl+j count • ctrl+d difficulty • ctrl+k kb • ctrl+a speak • ctrl+v mic • tab switch"))
	return b.String()
}

func (m Model) renderCards() string {
	deck := m.session.Deck()
	if len(deck) == 0 {
		return m.styles.Muted.Render("No flashcards yet. Generate some from the Create tab.")
	}

	card, _ := m.session.Current()
	var b strings.Builder
	if m.flipped {
		b.WriteString(m.styles.CardLabel.Render("Answer"))
		b.WriteString("\n\n")
		b.WriteString(card.Answer)
		if len(card.Sources) > 0 {
			b.WriteString("\n\n")
			b.WriteString(m.styles.Muted.Render("Sources:"))
			for _, source := range card.Sources {
				b.WriteString("\n")
				b.WriteString(m.styles.Muted.Render("- " + source.Title))
			}
		}
	} else {
		b.WriteString(m.styles.CardLabel.Render("Question"))
		b.WriteString("\n\n")
		b.WriteString(card.Question)
	}

	var out strings.Builder
	out.WriteString(m.styles.Card.Render(b.String()))
	out.WriteString("\n")
	out.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d / %d", m.session.Index()+1, len(deck))))
	out.WriteString("\n\n")
	out.WriteString(m.styles.Help.Render("enter flip • ←/→ navigate • v variations • a speak • e download • s share • q quit"))
	return out.String()
}

func (m Model) renderLibrary() string {
	docs := m.documents()
	if len(docs) == 0 {
		return m.styles.Muted.Render("The knowledge base is empty. Add documents with `flashgenius kb add`.")
	}

	var b strings.Builder
	for i, doc := range docs {
		cursor := "  "
		if i == m.libIndex {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%s  (%d chunks, %s)", cursor, doc.Title,
			len(doc.Chunks), doc.Date.Format("2006-01-02"))
		if i == m.libIndex {
			b.WriteString(m.styles.Title.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("↑/↓ select • x remove • q quit"))
	return b.String()
}

func (m Model) renderStatus() string {
	switch {
	case m.loading:
		return m.spin.View() + " Generating flashcards..."
	case m.listening:
		return m.spin.View() + " Listening..."
	case m.notification != "":
		return m.styles.Notification.Render(m.notification)
	default:
		return ""
	}
}

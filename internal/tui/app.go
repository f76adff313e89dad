// Package tui implements the interactive study screen as a Bubbletea
// program: a create form, a flashcard carousel, and the knowledge-base
// library.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"flashgenius/internal/generate"
	"flashgenius/internal/models"
	"flashgenius/internal/speech"
	"flashgenius/internal/voice"
)

type tab int

const (
	tabCreate tab = iota
	tabCards
	tabLibrary
	tabCount
)

func (t tab) String() string {
	switch t {
	case tabCreate:
		return "Create"
	case tabCards:
		return "Cards"
	case tabLibrary:
		return "Library"
	default:
		return "?"
	}
}

var cardCounts = []int{5, 10, 15, 20}

const (
	notifyDuration = 3 * time.Second
	exportFileName = "flashcards.txt"
)

// Messages delivered by async commands.
type (
	deckReadyMsg struct {
		cards []models.FlashCard
		err   error
	}
	variationsMsg struct {
		cards []models.FlashCard
		err   error
	}
	speechDoneMsg struct{ err error }
	voiceDoneMsg  struct {
		transcript string
		err        error
	}
	docRemovedMsg  struct{ err error }
	clearNotifyMsg struct{}
)

// Library lists and removes knowledge-base documents. *store.Store
// satisfies it.
type Library interface {
	Documents() []models.Document
	Remove(ctx context.Context, id string) error
}

// Model is the Bubbletea model for the study screen.
type Model struct {
	styles  *Styles
	ctx     context.Context
	session *generate.Session
	library Library
	speaker *speech.Speaker
	voice   *voice.Controller

	input textarea.Model
	spin  spinner.Model

	tab          tab
	countIdx     int
	diffIdx      int
	useKB        bool
	flipped      bool
	libIndex     int
	loading      bool
	listening    bool
	modal        string
	notification string
	width        int
	height       int
}

var _ tea.Model = Model{}

// New builds the study screen. library and voiceCtl may be nil when the
// knowledge base or microphone is unavailable.
func New(ctx context.Context, session *generate.Session, library Library, speaker *speech.Speaker, voiceCtl *voice.Controller) Model {
	input := textarea.New()
	input.Placeholder = "Enter a topic or paste learning material..."
	input.SetHeight(6)
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		styles:   DefaultStyles(),
		ctx:      ctx,
		session:  session,
		library:  library,
		speaker:  speaker,
		voice:    voiceCtl,
		input:    input,
		spin:     spin,
		diffIdx:  1, // intermediate
		useKB:    true,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(min(msg.Width-4, 72))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.loading && !m.listening {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case deckReadyMsg:
		m.loading = false
		if msg.err != nil {
			m.modal = "There was an error generating your flashcards: " + msg.err.Error()
			return m, nil
		}
		m.tab = tabCards
		m.flipped = false
		m.notification = fmt.Sprintf("Generated %d flashcards!", len(msg.cards))
		return m, clearNotifyAfter()

	case variationsMsg:
		m.loading = false
		if msg.err != nil {
			m.modal = "There was an error generating variations: " + msg.err.Error()
			return m, nil
		}
		var b strings.Builder
		b.WriteString("Variations:\n")
		for i, card := range msg.cards {
			fmt.Fprintf(&b, "\n%d. Q: %s\n   A: %s\n", i+1, card.Question, card.Answer)
		}
		m.modal = b.String()
		return m, nil

	case speechDoneMsg:
		// a deliberate stop cancels the narration context and is not an error
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) && m.ctx.Err() == nil {
			m.modal = "There was an error playing the audio."
		}
		return m, nil

	case voiceDoneMsg:
		m.listening = false
		if msg.err != nil {
			var recErr *voice.RecognitionError
			if errors.As(msg.err, &recErr) {
				m.notification = recErr.Message()
				return m, clearNotifyAfter()
			}
			m.modal = msg.err.Error()
			return m, nil
		}
		if msg.transcript == "" {
			return m, nil
		}
		m.input.SetValue(msg.transcript)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.generateCmd())

	case docRemovedMsg:
		if msg.err != nil {
			m.modal = "Could not remove the document: " + msg.err.Error()
			return m, nil
		}
		if m.libIndex > 0 {
			m.libIndex--
		}
		m.notification = "Document removed from knowledge base"
		return m, clearNotifyAfter()

	case clearNotifyMsg:
		m.notification = ""
		return m, nil
	}

	if m.tab == tabCreate {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.modal != "" {
		if key == "esc" || key == "enter" {
			m.modal = ""
		}
		return m, nil
	}

	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		m.tab = (m.tab + 1) % tabCount
		m.syncFocus()
		return m, nil
	case "shift+tab":
		m.tab = (m.tab + tabCount - 1) % tabCount
		m.syncFocus()
		return m, nil
	}

	switch m.tab {
	case tabCreate:
		return m.handleCreateKey(msg)
	case tabCards:
		return m.handleCardsKey(key)
	case tabLibrary:
		return m.handleLibraryKey(key)
	}
	return m, nil
}

func (m *Model) syncFocus() {
	if m.tab == tabCreate {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+g":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.generateCmd())
	case "ctrl+k":
		m.useKB = !m.useKB
		if m.useKB {
			m.notification = "Knowledge base enabled"
		} else {
			m.notification = "Knowledge base disabled"
		}
		return m, clearNotifyAfter()
	case "ctrl+j":
		m.countIdx = (m.countIdx + 1) % len(cardCounts)
		return m, nil
	case "ctrl+d":
		m.diffIdx = (m.diffIdx + 1) % len(models.DifficultyLevels)
		return m, nil
	case "ctrl+a":
		return m, m.speakCmd(m.input.Value())
	case "ctrl+v":
		return m.toggleVoice()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleCardsKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "left", "h":
		if m.session.Prev() {
			m.flipped = false
		}
		return m, nil
	case "right", "l":
		if m.session.Next() {
			m.flipped = false
		}
		return m, nil
	case "enter", " ":
		if m.session.Len() > 0 {
			m.flipped = !m.flipped
		}
		return m, nil
	case "a":
		card, ok := m.session.Current()
		if !ok {
			return m, nil
		}
		text := card.Question
		if m.flipped {
			text = card.Answer
		}
		return m, m.speakCmd(text)
	case "v":
		if m.loading {
			return m, nil
		}
		card, ok := m.session.Current()
		if !ok {
			return m, nil
		}
		m.loading = true
		session, ctx := m.session, m.ctx
		return m, tea.Batch(m.spin.Tick, func() tea.Msg {
			cards, err := session.Variations(ctx, card, 0)
			return variationsMsg{cards: cards, err: err}
		})
	case "e":
		return m.exportDeck()
	case "s":
		share, err := m.session.RenderShare()
		if err != nil {
			m.modal = "No flashcards to share!"
			return m, nil
		}
		m.modal = share
		return m, nil
	}
	return m, nil
}

func (m Model) handleLibraryKey(key string) (tea.Model, tea.Cmd) {
	docs := m.documents()
	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.libIndex > 0 {
			m.libIndex--
		}
	case "down", "j":
		if m.libIndex+1 < len(docs) {
			m.libIndex++
		}
	case "x", "delete":
		if m.library == nil || len(docs) == 0 {
			return m, nil
		}
		id := docs[m.libIndex].ID
		library, ctx := m.library, m.ctx
		return m, func() tea.Msg {
			return docRemovedMsg{err: library.Remove(ctx, id)}
		}
	}
	return m, nil
}

func (m Model) exportDeck() (tea.Model, tea.Cmd) {
	content, err := m.session.RenderDownload(time.Now())
	if err != nil {
		m.modal = "No flashcards to download!"
		return m, nil
	}
	if err := os.WriteFile(exportFileName, []byte(content), 0o644); err != nil {
		m.modal = "Could not save the flashcards: " + err.Error()
		return m, nil
	}
	m.notification = "Flashcards downloaded successfully!"
	return m, clearNotifyAfter()
}

func (m Model) generateCmd() tea.Cmd {
	input := m.input.Value()
	opts := generate.Options{
		Count:        cardCounts[m.countIdx],
		Difficulty:   models.DifficultyLevels[m.diffIdx],
		UseKnowledge: m.useKB && m.library != nil,
	}
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		cards, err := session.Generate(ctx, input, opts)
		return deckReadyMsg{cards: cards, err: err}
	}
}

// speakCmd narrates text; a second activation stops the narration in
// flight.
func (m Model) speakCmd(text string) tea.Cmd {
	if m.speaker == nil || text == "" {
		return nil
	}
	if m.speaker.Speaking() {
		m.speaker.Stop()
		return nil
	}
	speaker, ctx := m.speaker, m.ctx
	return func() tea.Msg {
		return speechDoneMsg{err: speaker.Speak(ctx, text, speech.Events{})}
	}
}

func (m Model) toggleVoice() (tea.Model, tea.Cmd) {
	if m.voice == nil {
		m.notification = "Speech recognition is not supported on this device."
		return m, clearNotifyAfter()
	}
	if m.voice.Active() {
		m.voice.Stop()
		m.listening = false
		return m, nil
	}
	m.listening = true
	voiceCtl, ctx := m.voice, m.ctx
	return m, tea.Batch(m.spin.Tick, func() tea.Msg {
		var transcript string
		err := voiceCtl.Listen(ctx, voice.Hooks{
			OnTranscript: func(t string) { transcript = t },
		})
		return voiceDoneMsg{transcript: transcript, err: err}
	})
}

func (m Model) documents() []models.Document {
	if m.library == nil {
		return nil
	}
	return m.library.Documents()
}

func clearNotifyAfter() tea.Cmd {
	return tea.Tick(notifyDuration, func(time.Time) tea.Msg {
		return clearNotifyMsg{}
	})
}

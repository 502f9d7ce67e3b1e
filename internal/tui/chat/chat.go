// ABOUTME: Medical Q&A chat screen as a bubbletea model
// ABOUTME: Viewport message history with a text input and simulated assistant replies

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/medquery/medquery-cli/internal/tui/icons"
	"github.com/medquery/medquery-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the chat screen
type BackMsg struct{}

// replyMsg delivers a simulated assistant response after a short delay
type replyMsg struct {
	id   string
	text string
}

// Message is one entry in the conversation history
type Message struct {
	ID        string
	Sender    string // "user" or "assistant"
	Text      string
	Timestamp time.Time
}

// Chat is the medical Q&A screen model
type Chat struct {
	viewport viewport.Model
	input    textinput.Model
	messages []Message
	typing   bool
	width    int
	height   int
}

const disclaimer = "This assistant provides general health information only and is not a substitute for professional medical advice."

// New creates a chat screen with a greeting from the assistant
func New(width, height int) *Chat {
	ti := textinput.New()
	ti.Placeholder = "Ask a health question..."
	ti.CharLimit = 500
	ti.Focus()

	vp := viewport.New(width, height-4)

	c := &Chat{
		viewport: vp,
		input:    ti,
		width:    width,
		height:   height,
	}

	c.messages = append(c.messages, Message{
		ID:        uuid.NewString(),
		Sender:    "assistant",
		Text:      "Hello! I'm the MedQuery assistant. How can I help you today?",
		Timestamp: time.Now(),
	})
	c.refreshViewport()

	return c
}

// SetSize updates the chat dimensions
func (c *Chat) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.viewport.Width = width
	c.viewport.Height = height - 4
	c.refreshViewport()
}

// Init implements tea.Model
func (c *Chat) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (c *Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return c, func() tea.Msg { return BackMsg{} }
		case "enter":
			return c, c.send()
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return c, cmd
		}

	case replyMsg:
		c.typing = false
		c.messages = append(c.messages, Message{
			ID:        msg.id,
			Sender:    "assistant",
			Text:      msg.text,
			Timestamp: time.Now(),
		})
		c.refreshViewport()
		return c, nil
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

// send appends the typed message and schedules a simulated reply
func (c *Chat) send() tea.Cmd {
	text := strings.TrimSpace(c.input.Value())
	if text == "" || c.typing {
		return nil
	}

	c.messages = append(c.messages, Message{
		ID:        uuid.NewString(),
		Sender:    "user",
		Text:      text,
		Timestamp: time.Now(),
	})
	c.input.Reset()
	c.typing = true
	c.refreshViewport()

	reply := replyFor(text)
	id := uuid.NewString()
	return tea.Tick(1200*time.Millisecond, func(time.Time) tea.Msg {
		return replyMsg{id: id, text: reply}
	})
}

// replyFor picks a canned assistant response based on keywords in the question
func replyFor(question string) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "symptom") || strings.Contains(q, "pain") || strings.Contains(q, "fever"):
		return "I understand you're asking about symptoms. While I can provide general information, please describe your symptoms in detail, and remember to consult a healthcare professional for an accurate diagnosis. " + disclaimer
	case strings.Contains(q, "medication") || strings.Contains(q, "drug") || strings.Contains(q, "prescription"):
		return "Medication questions are important. Always follow your prescribing doctor's instructions and ask your pharmacist about interactions. Never adjust a dose without consulting your provider. " + disclaimer
	case strings.Contains(q, "appointment") || strings.Contains(q, "schedule") || strings.Contains(q, "visit"):
		return "You can view and manage your appointments from the dashboard. If you need an urgent consultation, please contact your clinic directly."
	case strings.Contains(q, "record") || strings.Contains(q, "result") || strings.Contains(q, "report"):
		return "Your medical records and recent results are available in the documents section. Uploaded files are reviewed by your care team before they appear."
	default:
		return "Thanks for your question. I can help with general health information, medication guidance, appointments, and your records. Could you tell me a bit more about what you'd like to know? " + disclaimer
	}
}

// refreshViewport re-renders the message history into the viewport
func (c *Chat) refreshViewport() {
	var sb strings.Builder
	wrapWidth := c.width - 8
	if wrapWidth < 20 {
		wrapWidth = 20
	}

	for _, m := range c.messages {
		ts := m.Timestamp.Format("15:04")
		if m.Sender == "user" {
			sb.WriteString(styles.Help.Render(fmt.Sprintf("You · %s", ts)))
			sb.WriteString("\n")
			sb.WriteString(styles.UserBubble.Width(wrapWidth).Render(m.Text))
		} else {
			sb.WriteString(styles.Help.Render(fmt.Sprintf("%s MedQuery · %s", icons.Chat.String(), ts)))
			sb.WriteString("\n")
			sb.WriteString(styles.AssistantBubble.Width(wrapWidth).Render(m.Text))
		}
		sb.WriteString("\n\n")
	}

	if c.typing {
		sb.WriteString(styles.Help.Render("MedQuery is typing..."))
		sb.WriteString("\n")
	}

	c.viewport.SetContent(sb.String())
	c.viewport.GotoBottom()
}

// View implements tea.Model
func (c *Chat) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Chat.String() + " Medical Assistant"))
	sb.WriteString("\n")
	sb.WriteString(c.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(c.input.View())

	return sb.String()
}

// Messages returns a copy of the conversation history
func (c *Chat) Messages() []Message {
	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

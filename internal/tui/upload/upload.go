// ABOUTME: Document upload screen as a bubbletea model
// ABOUTME: Validates file type and size, then simulates staged upload progress

package upload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/medquery/medquery-cli/internal/tui/icons"
	"github.com/medquery/medquery-cli/internal/tui/styles"
)

// BackMsg is sent when the user leaves the upload screen
type BackMsg struct{}

// tickMsg advances the simulated upload progress
type tickMsg struct {
	uploadID string
}

// MaxFileSize is the largest accepted document in bytes
const MaxFileSize = 10 * 1024 * 1024

// allowedExtensions lists the accepted document types
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// uploadState tracks the phase of the current upload
type uploadState int

const (
	statePickFile uploadState = iota
	stateUploading
	stateDone
)

// Item is one completed upload entry
type Item struct {
	ID   string
	Name string
	Size int64
}

// Upload is the document upload screen model
type Upload struct {
	input    textinput.Model
	state    uploadState
	current  string
	currID   string
	currSize int64
	progress float64
	errMsg   string
	done     []Item
	width    int
	height   int
}

// New creates an upload screen with the path input focused
func New(width, height int) *Upload {
	ti := textinput.New()
	ti.Placeholder = "/path/to/document.pdf"
	ti.CharLimit = 512
	ti.Focus()

	return &Upload{
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetSize updates the screen dimensions
func (u *Upload) SetSize(width, height int) {
	u.width = width
	u.height = height
}

// Init implements tea.Model
func (u *Upload) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (u *Upload) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if u.state == stateUploading {
				return u, nil
			}
			return u, func() tea.Msg { return BackMsg{} }
		case "enter":
			if u.state == statePickFile || u.state == stateDone {
				return u, u.startUpload()
			}
			return u, nil
		}

	case tickMsg:
		if u.state != stateUploading || msg.uploadID != u.currID {
			return u, nil
		}
		u.progress += 20
		if u.progress >= 100 {
			u.progress = 100
			u.state = stateDone
			u.done = append(u.done, Item{ID: u.currID, Name: filepath.Base(u.current), Size: u.currSize})
			u.input.Reset()
			u.input.Focus()
			return u, nil
		}
		return u, u.tick()
	}

	if u.state != stateUploading {
		var cmd tea.Cmd
		u.input, cmd = u.input.Update(msg)
		return u, cmd
	}
	return u, nil
}

// startUpload validates the chosen file and begins the simulated transfer
func (u *Upload) startUpload() tea.Cmd {
	path := strings.TrimSpace(u.input.Value())
	if path == "" {
		u.errMsg = "Enter a file path"
		return nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !allowedExtensions[ext] {
		u.errMsg = fmt.Sprintf("File type %s is not supported. Allowed: PDF, DOC, DOCX, JPG, PNG", ext)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		u.errMsg = "Cannot read file: " + err.Error()
		return nil
	}
	if info.IsDir() {
		u.errMsg = "Path is a directory, not a file"
		return nil
	}
	if info.Size() > MaxFileSize {
		u.errMsg = "File exceeds the 10 MB limit"
		return nil
	}

	u.errMsg = ""
	u.current = path
	u.currID = uuid.NewString()
	u.currSize = info.Size()
	u.progress = 0
	u.state = stateUploading
	u.input.Blur()

	return u.tick()
}

func (u *Upload) tick() tea.Cmd {
	id := u.currID
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{uploadID: id}
	})
}

// View implements tea.Model
func (u *Upload) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(icons.Upload.String() + " Upload Documents"))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render("PDF, DOC, DOCX, JPG, or PNG up to 10 MB"))
	sb.WriteString("\n\n")

	sb.WriteString(u.input.View())
	sb.WriteString("\n\n")

	if u.errMsg != "" {
		sb.WriteString(styles.StatusCritical.Render(u.errMsg))
		sb.WriteString("\n\n")
	}

	if u.state == stateUploading {
		sb.WriteString(fmt.Sprintf("Uploading %s\n", filepath.Base(u.current)))
		sb.WriteString(styles.ProgressBar(u.progress, 30))
		sb.WriteString(fmt.Sprintf(" %.0f%%\n\n", u.progress))
	}

	if len(u.done) > 0 {
		sb.WriteString(styles.Subtitle.Render("Uploaded"))
		sb.WriteString("\n")
		for _, item := range u.done {
			sb.WriteString(fmt.Sprintf("  %s %s (%s)\n",
				styles.StatusOK.Render(icons.CheckOK.String()),
				item.Name,
				formatSize(item.Size)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("enter Upload  esc Back"))

	return sb.String()
}

// Uploaded returns the completed uploads
func (u *Upload) Uploaded() []Item {
	out := make([]Item, len(u.done))
	copy(out, u.done)
	return out
}

// formatSize renders a byte count in human-readable form
func formatSize(n int64) string {
	switch {
	case n >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	case n >= 1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

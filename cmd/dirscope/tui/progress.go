package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dirscope/dirscope/pkg/dirscope/types"
)

// ProgressMsg carries a scan progress update into the model.
type ProgressMsg types.ScanProgress

// DoneMsg signals that the scan finished, successfully or not.
type DoneMsg struct {
	Err error
}

// ProgressModel shows a spinner and live counters while a scan runs.
type ProgressModel struct {
	rootPath    string
	spinner     spinner.Model
	progress    types.ScanProgress
	currentPath string
	startTime   time.Time
	width       int
	done        bool
	err         error
}

// NewProgressModel creates the progress display for a scan of rootPath.
func NewProgressModel(rootPath string) ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ProgressModel{
		rootPath:  rootPath,
		spinner:   s,
		startTime: time.Now(),
		width:     80,
	}
}

// Init starts the spinner.
func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.err = fmt.Errorf("interrupted")
			m.done = true
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.progress = types.ScanProgress(msg)
		m.currentPath = msg.CurrentPath
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Err returns the scan error, if any, once the program exits.
func (m ProgressModel) Err() error {
	return m.err
}

// View renders the progress display.
func (m ProgressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("dirscope"))
	b.WriteString(mutedTextStyle.Render("  " + m.rootPath))
	b.WriteString("\n\n")

	switch {
	case m.done && m.err != nil:
		b.WriteString(errorTextStyle.Render(fmt.Sprintf("  Scan failed: %v", m.err)))
	case m.done:
		b.WriteString(successTextStyle.Render("  Scan complete"))
	default:
		b.WriteString(fmt.Sprintf("  %s Scanning %s",
			m.spinner.View(),
			truncatePath(m.currentPath, m.width-16)))
	}
	b.WriteString("\n\n")

	elapsed := time.Since(m.startTime).Round(100 * time.Millisecond)
	b.WriteString(fmt.Sprintf("  %s folders   %s files   %s   %s\n",
		statValueStyle.Render(humanize.Comma(m.progress.DirsScanned)),
		statValueStyle.Render(humanize.Comma(m.progress.FilesScanned)),
		statValueStyle.Render(humanize.Bytes(uint64(m.progress.BytesScanned))),
		mutedTextStyle.Render(elapsed.String()),
	))

	return b.String()
}

// truncatePath shortens a path to fit, keeping its tail.
func truncatePath(path string, maxLen int) string {
	if maxLen < 10 {
		maxLen = 10
	}
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type recStartMsg struct{}
type recStopMsg struct{}
type levelMsg struct{ db float64 }
type textMsg struct{ text string }
type noSpeechMsg struct{}
type errMsg struct{ err error }
type tickMsg time.Time

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

// tuiSend is safe to call whether or not the TUI is running.
func tuiSend(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func startTUI(key, device string) {
	tuiMu.Lock()
	// the TUI renders on stderr, keeping stdout clean for the stdout target
	tuiProgram = tea.NewProgram(tuiModel{key: key, device: device}, tea.WithOutput(os.Stderr))
	tuiMu.Unlock()
	go tuiProgram.Run()
}

func stopTUI() {
	tuiMu.Lock()
	p := tuiProgram
	tuiProgram = nil
	tuiMu.Unlock()
	if p != nil {
		p.Quit()
		p.Wait()
	}
}

var (
	recStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	textStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	noSpeechStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	meterOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

type tuiModel struct {
	key       string
	device    string
	recording bool
	started   time.Time
	level     float64 // smoothed dBFS
	lastText  string
	noSpeech  bool
	lastErr   error
	count     int
}

func tuiTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tickMsg:
		return m, tuiTick()
	case recStartMsg:
		m.recording = true
		m.started = time.Now()
		m.level = -120
		m.lastErr = nil
		m.noSpeech = false
	case recStopMsg:
		m.recording = false
	case levelMsg:
		m.level = m.level*0.6 + msg.db*0.4
	case textMsg:
		m.count++
		m.lastText = msg.text
		m.noSpeech = false
	case noSpeechMsg:
		m.noSpeech = true
	case errMsg:
		m.lastErr = msg.err
	}
	return m, nil
}

// meter renders the smoothed level as a 20-cell bar over -60..0 dBFS.
func meter(db float64) string {
	const cells = 20
	frac := (db + 60) / 60
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	on := int(frac * cells)
	return meterOnStyle.Render(strings.Repeat("█", on)) + idleStyle.Render(strings.Repeat("░", cells-on))
}

func (m tuiModel) View() string {
	var b strings.Builder

	if m.recording {
		b.WriteString(recStyle.Render(fmt.Sprintf("● REC %.1fs", time.Since(m.started).Seconds())))
		b.WriteString("  " + meter(m.level))
	} else {
		b.WriteString(idleStyle.Render("○ idle"))
	}
	b.WriteString("\n")
	b.WriteString(idleStyle.Render("mic: "+m.device) + "\n\n")

	switch {
	case m.lastErr != nil:
		b.WriteString(errStyle.Render("error: "+m.lastErr.Error()) + "\n")
	case m.noSpeech:
		b.WriteString(noSpeechStyle.Render("(no speech detected)") + "\n")
	case m.lastText != "":
		b.WriteString(idleStyle.Render(fmt.Sprintf("#%d ", m.count)))
		b.WriteString(textStyle.Render(m.lastText) + "\n")
	default:
		b.WriteString(idleStyle.Render("no transcriptions yet") + "\n")
	}

	b.WriteString("\n" + helpStyle.Render(fmt.Sprintf("hold %s to record · q to quit", m.key)))
	return b.String()
}

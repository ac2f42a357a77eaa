package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harborview/eventscrape"
	"github.com/harborview/eventscrape/config"
	"github.com/harborview/eventscrape/export"
)

const (
	fieldSeeds = iota
	fieldOutput
	fieldDelay
	fieldRun
	fieldCount
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	runStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	focusStyle = runStyle.Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)

// progressMsg wraps one pipeline notification for the update loop.
type progressMsg eventscrape.Progress

// finishedMsg reports the end of a background run.
type finishedMsg struct {
	count  int
	output string
	err    error
}

// formErrMsg is a configuration problem caught before any fetching.
type formErrMsg struct{ err error }

type model struct {
	inputs   []textinput.Model
	focus    int
	log      viewport.Model
	lines    []string
	running  bool
	finished *finishedMsg
	busCh    <-chan eventscrape.Progress
	width    int
}

func initialModel() model {
	inputs := make([]textinput.Model, 3)

	seeds := textinput.New()
	seeds.Placeholder = "seeds.txt"
	seeds.Width = 48
	seeds.Focus()
	inputs[fieldSeeds] = seeds

	output := textinput.New()
	output.Placeholder = "events.xlsx"
	output.SetValue("events.xlsx")
	output.Width = 48
	inputs[fieldOutput] = output

	delay := textinput.New()
	delay.SetValue("1.0")
	delay.Width = 8
	delay.CharLimit = 8
	inputs[fieldDelay] = delay

	log := viewport.New(72, 12)

	return model{inputs: inputs, log: log}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// waitForProgress turns the next bus notification into a message. The
// command re-arms itself from Update until the bus closes.
func waitForProgress(ch <-chan eventscrape.Progress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(p)
	}
}

// startRun validates the form and launches the pipeline on a background
// goroutine, exactly one run at a time.
func (m *model) startRun() tea.Cmd {
	seedPath := strings.TrimSpace(m.inputs[fieldSeeds].Value())
	if seedPath == "" {
		return func() tea.Msg {
			return formErrMsg{err: fmt.Errorf("select a seed URLs file first")}
		}
	}

	delay, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[fieldDelay].Value()), 64)
	if err != nil {
		return func() tea.Msg {
			return formErrMsg{err: fmt.Errorf("delay must be a number")}
		}
	}

	output := strings.TrimSpace(m.inputs[fieldOutput].Value())
	if output == "" {
		output = "events.xlsx"
	}

	seeds, err := config.LoadSeeds(seedPath)
	if err != nil {
		return func() tea.Msg { return formErrMsg{err: err} }
	}

	cfg := eventscrape.DefaultPipelineConfig()
	cfg.Delay = time.Duration(delay * float64(time.Second))

	bus := eventscrape.NewProgressBus(64)
	pipeline := eventscrape.NewPipeline(cfg, nil, bus)

	m.running = true
	m.finished = nil
	m.busCh = bus.Channel()
	m.appendLine(fmt.Sprintf("Loaded %d seed URLs from %s. Starting scrape...", len(seeds), seedPath))

	run := func() tea.Msg {
		events, runErr := pipeline.Run(context.Background(), seeds)
		bus.Close()
		if runErr == nil {
			runErr = export.WriteXLSX(events, output)
		}
		return finishedMsg{count: len(events), output: output, err: runErr}
	}

	return tea.Batch(run, waitForProgress(m.busCh))
}

func (m *model) appendLine(line string) {
	m.lines = append(m.lines, line)
	m.log.SetContent(strings.Join(m.lines, "\n"))
	m.log.GotoBottom()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.log.Width = msg.Width - 4
		if h := msg.Height - 12; h > 4 {
			m.log.Height = h
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if !m.running {
				return m, tea.Quit
			}
		case "tab", "down":
			if !m.running {
				m.setFocus((m.focus + 1) % fieldCount)
			}
			return m, nil
		case "shift+tab", "up":
			if !m.running {
				m.setFocus((m.focus + fieldCount - 1) % fieldCount)
			}
			return m, nil
		case "enter":
			if !m.running && m.focus == fieldRun {
				return m, m.startRun()
			}
			if !m.running {
				m.setFocus((m.focus + 1) % fieldCount)
				return m, nil
			}
		}

	case progressMsg:
		m.appendLine(progressLine(eventscrape.Progress(msg)))
		return m, waitForProgress(m.busCh)

	case finishedMsg:
		m.running = false
		msgCopy := msg
		m.finished = &msgCopy
		if msg.err != nil {
			m.appendLine(errStyle.Render("Error during scraping: " + msg.err.Error()))
		} else {
			m.appendLine(fmt.Sprintf("Done. %d events saved to %s.", msg.count, msg.output))
		}
		return m, nil

	case formErrMsg:
		m.appendLine(errStyle.Render(msg.err.Error()))
		return m, nil
	}

	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.log, cmd = m.log.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *model) setFocus(focus int) {
	m.focus = focus
	for i := range m.inputs {
		if i == focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

func progressLine(p eventscrape.Progress) string {
	switch p.Kind {
	case eventscrape.ProgressRunStarted:
		return fmt.Sprintf("Run %s started over %d seeds", p.RunID, p.Count)
	case eventscrape.ProgressSeedRouted:
		return fmt.Sprintf("Routing %s via %s", p.URL, p.Source)
	case eventscrape.ProgressPageScraped:
		return "Scraped " + p.URL
	case eventscrape.ProgressFetchSkipped:
		return "Skipping " + p.URL + ": " + p.Message
	case eventscrape.ProgressFeedIngested:
		return fmt.Sprintf("Ingested %d feed entries from %s", p.Count, p.URL)
	case eventscrape.ProgressRunFinished:
		return fmt.Sprintf("Run finished with %d events", p.Count)
	}
	return ""
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Event Scraper"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("URLs file:   ") + m.inputs[fieldSeeds].View() + "\n")
	b.WriteString(labelStyle.Render("Output xlsx: ") + m.inputs[fieldOutput].View() + "\n")
	b.WriteString(labelStyle.Render("Delay (s):   ") + m.inputs[fieldDelay].View() + "\n\n")

	button := runStyle.Render("[ Run Scraper ]")
	if m.focus == fieldRun {
		button = focusStyle.Render("[ Run Scraper ]")
	}
	if m.running {
		button = labelStyle.Render("Scraping...")
	}
	b.WriteString(button + "\n\n")

	b.WriteString(m.log.View() + "\n")

	if m.finished != nil {
		if m.finished.err != nil {
			b.WriteString(errStyle.Render(fmt.Sprintf("An error occurred: %v", m.finished.err)) + "\n")
		} else {
			b.WriteString(doneStyle.Render(fmt.Sprintf("Finished: %d events saved to %s", m.finished.count, m.finished.output)) + "\n")
		}
	}

	b.WriteString(labelStyle.Render("tab: next field  enter: run  esc: quit"))
	return b.String()
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

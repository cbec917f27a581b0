package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const confirmPrompt = "Accept? [y] or enter a new message: "

// decision is the outcome of the confirmation step.
type decision struct {
	aborted bool   // user interrupted, nothing must be committed
	message string // final commit message text
}

// confirmFunc collects the user's decision about a generated draft.
// Tests replace the Runner's confirm to script the interaction.
type confirmFunc func(stdin io.Reader, stdout io.Writer, draft string) (decision, error)

// defaultConfirm picks the bubbletea prompt on a TTY and the plain scanner
// prompt otherwise, mirroring how the draft will actually be read.
func defaultConfirm(stdin io.Reader, stdout io.Writer, draft string) (decision, error) {
	if isTerminal(stdin) {
		return confirmWithModel(stdin, stdout, draft)
	}
	return confirmWithScanner(stdin, stdout, draft)
}

// confirmWithScanner prompts on stdout and reads one line at a time from
// stdin. Empty or whitespace-only input re-prompts; EOF aborts.
func confirmWithScanner(stdin io.Reader, stdout io.Writer, draft string) (decision, error) {
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, confirmPrompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return decision{}, fmt.Errorf("reading confirmation: %w", err)
			}
			fmt.Fprintln(stdout)
			return decision{aborted: true}, nil
		}

		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			fmt.Fprintln(stdout, "Please enter 'y' or a replacement message.")
		case strings.EqualFold(text, "y"):
			return decision{message: draft}, nil
		default:
			return decision{message: text}, nil
		}
	}
}

// confirmModel is the bubbletea prompt used on interactive terminals.
type confirmModel struct {
	input   textinput.Model
	draft   string
	hint    string
	done    bool
	aborted bool
	result  string
}

var confirmHintStyle = lipgloss.NewStyle().Faint(true)

func newConfirmModel(draft string) confirmModel {
	input := textinput.New()
	input.Prompt = confirmPrompt
	input.Focus()
	return confirmModel{input: input, draft: draft}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			switch {
			case text == "":
				m.hint = "Please enter 'y' or a replacement message."
				m.input.SetValue("")
				return m, nil
			case strings.EqualFold(text, "y"):
				m.result = m.draft
			default:
				m.result = text
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	view := m.input.View()
	if m.hint != "" {
		view += "\n" + confirmHintStyle.Render(m.hint)
	}
	return view + "\n"
}

// confirmWithModel runs the textinput prompt as a small inline program.
func confirmWithModel(stdin io.Reader, stdout io.Writer, draft string) (decision, error) {
	p := tea.NewProgram(newConfirmModel(draft), tea.WithInput(stdin), tea.WithOutput(stdout))

	final, err := p.Run()
	if err != nil {
		return decision{}, fmt.Errorf("running confirmation prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok || m.aborted || !m.done {
		return decision{aborted: true}, nil
	}
	return decision{message: m.result}, nil
}

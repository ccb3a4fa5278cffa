package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/pterm/pterm"

	"go-qualifier/internal/models"
)

type inputModel struct {
	textInput textinput.Model
	submitted bool
	cancelled bool
}

func newInputModel(prompt, placeholder string) inputModel {
	ti := textinput.New()
	ti.Prompt = pterm.Bold.Sprint(pterm.Cyan(prompt))
	ti.Placeholder = placeholder
	ti.Focus()
	ti.SetSuggestions(CommandNames())
	ti.ShowSuggestions = true
	return inputModel{textInput: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.submitted = true
			return m, tea.Quit
		case tea.KeyCtrlC:
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	return m.textInput.View()
}

// ReadInput reads one line with slash-command completion. Ctrl+C yields
// "/exit".
func ReadInput(prompt, placeholder string) string {
	m := newInputModel(prompt, placeholder)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return ""
	}
	result := finalModel.(inputModel)
	if result.cancelled {
		return "/exit"
	}
	return strings.TrimSpace(result.textInput.Value())
}

func ConfirmYesNo(question string) bool {
	s := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("%s [Y/n]: ", pterm.Bold.Sprint(question))
		if !s.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(s.Text())) {
		case "", "y", "yes":
			return true
		case "n", "no":
			return false
		}
	}
}

func IsExitCommand(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "/exit", "exit", "quit":
		return true
	}
	return false
}

// ReadPersonName asks for the person to qualify, starting from current.
func ReadPersonName(current string) (string, error) {
	name := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Who should be qualified?").
				Description("Full name, optionally with company or role").
				Placeholder("Jane Doe from Acme").
				Value(&name).
				Validate(func(s string) error {
					if !models.IsPersonValid(s) {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		).Title("Person"),
	)
	if err := form.Run(); err != nil {
		return current, fmt.Errorf("person input: %w", err)
	}
	return name, nil
}

// EditEventDetails edits the scalar manual fields of d in place.
// Requirements are edited with /req.
func EditEventDetails(d *models.EventDetails) error {
	edited := *d
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Event name").Placeholder("GopherCon EU").Value(&edited.Name),
			huh.NewInput().Title("Event type").Placeholder("conference, workshop, meetup").Value(&edited.Type),
			huh.NewInput().Title("Audience").Placeholder("Go developers").Value(&edited.Audience),
			huh.NewInput().Title("Format").Placeholder("talk, panel, workshop").Value(&edited.Format),
		).Title("Event details"),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("event details input: %w", err)
	}
	*d = edited
	return nil
}

// ReadDraftText asks for free event text to draft details from.
func ReadDraftText() (string, error) {
	var text string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Paste the event description").
				Description("An event page, call for speakers or invitation email").
				CharLimit(8000).
				Value(&text),
		),
	)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("draft input: %w", err)
	}
	return text, nil
}

// Spinner shows a pterm spinner while a submission waits on the service.
type Spinner struct {
	Text    string
	printer *pterm.SpinnerPrinter
}

func (s *Spinner) Started() {
	s.printer, _ = pterm.DefaultSpinner.WithRemoveWhenDone(true).Start(s.Text)
}

func (s *Spinner) Settled(r models.QualificationResult) {
	if s.printer != nil {
		_ = s.printer.Stop()
		s.printer = nil
	}
}

package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"go-qualifier/internal/form"
	"go-qualifier/internal/models"
	"go-qualifier/internal/submission"
	"go-qualifier/internal/ui"
)

// Drafter fills manual event details from free text.
type Drafter interface {
	Draft(ctx context.Context, text string) (models.EventDetails, error)
}

var errExit = errors.New("exit requested")

type Runner struct {
	controller *submission.Controller
	drafter    Drafter
	logger     zerolog.Logger
	form       *form.Form
}

// NewRunner wires the interactive flow. drafter may be nil, which disables
// /draft.
func NewRunner(controller *submission.Controller, drafter Drafter, logger zerolog.Logger) *Runner {
	return &Runner{
		controller: controller,
		drafter:    drafter,
		logger:     logger,
		form:       form.New(),
	}
}

func (r *Runner) Run(ctx context.Context) error {
	ui.PrintWelcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch r.form.Step() {
		case form.StepPerson:
			err = r.personStep()
		case form.StepEvent:
			err = r.eventStep(ctx)
		}
		if errors.Is(err, errExit) {
			ui.PrintFarewell()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (r *Runner) personStep() error {
	name, err := ui.ReadPersonName(r.form.Person().Name)
	if err != nil {
		return errExit
	}
	r.form.SetPersonName(name)
	if !r.form.Next() {
		ui.PrintError("A person name is required before choosing the event.")
		return nil
	}
	pterm.Println()
	ui.PrintStatus("Enter the event URL, or switch to manual details with /mode manual. /help lists all commands.")
	pterm.Println()
	return nil
}

func (r *Runner) eventStep(ctx context.Context) error {
	ui.PrintEventForm(r.form)

	placeholder := "/url https://…"
	if r.form.Mode() == form.ModeManual {
		placeholder = "/edit"
	}
	input := ui.ReadInput("> ", placeholder)
	if input == "" {
		return nil
	}
	if ui.IsExitCommand(input) {
		return errExit
	}

	cmd, ok := ui.ParseCommand(input)
	if !ok {
		if r.form.Mode() == form.ModeURL {
			r.form.SetEventURL(input)
			return nil
		}
		ui.PrintError("Unknown input. Type /help to see the commands.")
		return nil
	}

	switch cmd.Name {
	case "/help":
		ui.PrintCommands()
	case "/clear":
		pterm.Print("\033[H\033[2J")
	case "/back":
		r.form.Back()
	case "/reset":
		r.form.Reset()
	case "/edit":
		d := r.form.Details()
		if err := ui.EditEventDetails(&d); err != nil {
			ui.PrintCancelled()
			return nil
		}
		r.form.SetDetails(d)
		r.form.SetMode(form.ModeManual)
	case "/draft":
		r.draft(ctx)
	case "/submit":
		return r.submit(ctx)
	default:
		if err := applyEdit(r.form, cmd); err != nil {
			ui.PrintError(err.Error())
		}
	}
	return nil
}

func (r *Runner) draft(ctx context.Context) {
	if r.drafter == nil {
		ui.PrintError("Drafting needs a Gemini API key. Run `qualifier config` to add one.")
		return
	}
	text, err := ui.ReadDraftText()
	if err != nil {
		ui.PrintCancelled()
		return
	}

	spinner, _ := pterm.DefaultSpinner.WithRemoveWhenDone(true).Start("Reading the event description...")
	details, err := r.drafter.Draft(ctx, text)
	_ = spinner.Stop()
	if err != nil {
		r.logger.Warn().Err(err).Msg("draft failed")
		ui.PrintError("Could not draft event details: " + err.Error())
		return
	}

	r.form.SetDetails(details)
	r.form.SetMode(form.ModeManual)
	pterm.Success.Println("Event details drafted. Review them before submitting.")
}

func (r *Runner) submit(ctx context.Context) error {
	if !r.form.CanSubmit() {
		ui.PrintMissing(r.form.Missing())
		return nil
	}

	spinner := &ui.Spinner{Text: fmt.Sprintf("Qualifying %s, this can take a minute...", r.form.Person().Name)}
	res, err := r.controller.Submit(ctx, r.form, spinner)
	if err != nil {
		ui.PrintError(err.Error())
		return nil
	}
	ui.PrintResult(res)

	if !ui.ConfirmYesNo("Qualify someone else?") {
		return errExit
	}
	r.form.Reset()
	pterm.Println()
	return nil
}

// applyEdit handles the commands that only change form state.
func applyEdit(f *form.Form, cmd ui.Command) error {
	switch cmd.Name {
	case "/mode":
		if cmd.Args == "" {
			f.ToggleMode()
			return nil
		}
		m, err := form.ParseMode(cmd.Args)
		if err != nil {
			return err
		}
		f.SetMode(m)
	case "/url":
		f.SetEventURL(cmd.Args)
		f.SetMode(form.ModeURL)
	case "/req":
		return applyRequirement(f, cmd.Args)
	default:
		return fmt.Errorf("unknown command %s, type /help to see the commands", cmd.Name)
	}
	return nil
}

func applyRequirement(f *form.Form, args string) error {
	words, rest := ui.SplitArgs(args, 1)
	if len(words) == 0 {
		return errors.New("usage: /req add [text] | set <n> <text> | rm <n>")
	}

	switch strings.ToLower(words[0]) {
	case "add":
		f.AddRequirement(rest)
		return nil
	case "set":
		idx, text := ui.SplitArgs(rest, 1)
		if len(idx) == 0 {
			return errors.New("usage: /req set <n> <text>")
		}
		i, err := requirementIndex(idx[0])
		if err != nil {
			return err
		}
		if !f.UpdateRequirement(i, text) {
			return fmt.Errorf("there is no requirement %s", idx[0])
		}
		return nil
	case "rm", "remove":
		i, err := requirementIndex(rest)
		if err != nil {
			return err
		}
		if !f.CanRemoveRequirement() {
			return errors.New("the last requirement cannot be removed, clear it with /req set 1 instead")
		}
		if !f.RemoveRequirement(i) {
			return fmt.Errorf("there is no requirement %s", rest)
		}
		return nil
	}
	return fmt.Errorf("unknown requirement action %q", words[0])
}

// requirementIndex converts a 1-based number typed by the operator.
func requirementIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("requirement number must be a positive integer, got %q", s)
	}
	return n - 1, nil
}

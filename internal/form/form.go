// Package form holds the in-progress qualification input across the person
// and event steps. Both submission modes keep their data while the other one
// is active; only the mode decides what Request builds.
package form

import (
	"fmt"
	"strings"

	"go-qualifier/internal/models"
)

type Step int

const (
	StepPerson Step = iota
	StepEvent
)

func (s Step) String() string {
	switch s {
	case StepPerson:
		return "person"
	case StepEvent:
		return "event"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

type Mode int

const (
	ModeURL Mode = iota
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeURL:
		return "url"
	case ModeManual:
		return "manual"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseMode accepts "url" and "manual", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "url":
		return ModeURL, nil
	case "manual":
		return ModeManual, nil
	}
	return 0, fmt.Errorf("unknown submission mode %q", s)
}

type Form struct {
	step     Step
	mode     Mode
	person   models.Person
	eventURL string
	details  models.EventDetails
}

func New() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset discards everything and starts over at the person step in URL mode.
func (f *Form) Reset() {
	*f = Form{
		step:    StepPerson,
		mode:    ModeURL,
		details: models.EventDetails{Requirements: []string{""}},
	}
}

func (f *Form) Step() Step { return f.step }

func (f *Form) Mode() Mode { return f.mode }

func (f *Form) Person() models.Person { return f.person }

func (f *Form) EventURL() string { return f.eventURL }

// Details returns a copy of the manual event details.
func (f *Form) Details() models.EventDetails { return f.details.Clone() }

func (f *Form) SetPersonName(name string) { f.person.Name = name }

func (f *Form) SetEventURL(u string) { f.eventURL = u }

func (f *Form) SetEventName(v string) { f.details.Name = v }

func (f *Form) SetEventType(v string) { f.details.Type = v }

func (f *Form) SetAudience(v string) { f.details.Audience = v }

func (f *Form) SetFormat(v string) { f.details.Format = v }

// SetDetails replaces the manual details. An empty requirement list gets one
// blank slot so the editor always has something to edit.
func (f *Form) SetDetails(d models.EventDetails) {
	f.details = d.Clone()
	if len(f.details.Requirements) == 0 {
		f.details.Requirements = []string{""}
	}
}

func (f *Form) SetMode(m Mode) { f.mode = m }

func (f *Form) ToggleMode() {
	if f.mode == ModeURL {
		f.mode = ModeManual
		return
	}
	f.mode = ModeURL
}

func (f *Form) CanAdvance() bool {
	return models.IsPersonValid(f.person.Name)
}

// Next moves from the person step to the event step. It reports false and
// leaves the form untouched when the person is not valid yet.
func (f *Form) Next() bool {
	if f.step != StepPerson || !f.CanAdvance() {
		return false
	}
	f.step = StepEvent
	return true
}

func (f *Form) Back() {
	f.step = StepPerson
}

func (f *Form) Requirements() []string {
	return append([]string(nil), f.details.Requirements...)
}

func (f *Form) AddRequirement(value string) {
	f.details.Requirements = append(f.details.Requirements, value)
}

func (f *Form) CanRemoveRequirement() bool {
	return len(f.details.Requirements) > 1
}

// RemoveRequirement deletes the entry at i. The last remaining entry is
// never removed.
func (f *Form) RemoveRequirement(i int) bool {
	if !f.CanRemoveRequirement() || i < 0 || i >= len(f.details.Requirements) {
		return false
	}
	f.details.Requirements = append(f.details.Requirements[:i:i], f.details.Requirements[i+1:]...)
	return true
}

func (f *Form) UpdateRequirement(i int, value string) bool {
	if i < 0 || i >= len(f.details.Requirements) {
		return false
	}
	f.details.Requirements[i] = value
	return true
}

func (f *Form) CanSubmit() bool {
	if !models.IsPersonValid(f.person.Name) {
		return false
	}
	switch f.mode {
	case ModeURL:
		return models.IsURLModeValid(f.eventURL)
	case ModeManual:
		return models.IsManualModeValid(f.details)
	}
	return false
}

// Missing explains why CanSubmit is false. It is empty when the form can be
// submitted.
func (f *Form) Missing() []string {
	var out []string
	if !models.IsPersonValid(f.person.Name) {
		out = append(out, "person name is required")
	}
	switch f.mode {
	case ModeURL:
		if !models.IsURLModeValid(f.eventURL) {
			out = append(out, "event URL is required")
		}
	case ModeManual:
		if !models.IsManualModeValid(f.details) {
			out = append(out, "event name is required")
		}
	}
	return out
}

// Request derives the payload for the active mode.
func (f *Form) Request() (models.QualificationRequest, bool) {
	if !f.CanSubmit() {
		return nil, false
	}
	if f.mode == ModeManual {
		return models.NewManualRequest(f.person.Name, f.details), true
	}
	return models.URLRequest{PersonName: f.person.Name, EventURL: f.eventURL}, true
}

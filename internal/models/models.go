package models

import (
	"strings"
	"time"
)

type Person struct {
	Name string `json:"name"`
}

type EventDetails struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Requirements []string `json:"requirements"`
	Audience     string   `json:"audience"`
	Format       string   `json:"format"`
}

// Clone returns a copy that does not share the requirements slice.
func (d EventDetails) Clone() EventDetails {
	out := d
	out.Requirements = append([]string(nil), d.Requirements...)
	return out
}

// Submittable returns the details as sent to the service: blank requirements
// are dropped, the remaining entries keep their order and text.
func (d EventDetails) Submittable() EventDetails {
	out := d
	out.Requirements = make([]string, 0, len(d.Requirements))
	for _, r := range d.Requirements {
		if strings.TrimSpace(r) == "" {
			continue
		}
		out.Requirements = append(out.Requirements, r)
	}
	return out
}

type InformationSource struct {
	Query         string `json:"query"`
	Source        string `json:"source"`
	FoundExisting bool   `json:"found_existing"`
}

type QualificationResult struct {
	PersonName             string              `json:"person_name"`
	QualificationScore     float64             `json:"qualification_score"`
	QualificationReasoning string              `json:"qualification_reasoning"`
	SearchesPerformed      int                 `json:"searches_performed"`
	InformationSources     []InformationSource `json:"information_sources"`
	Timestamp              string              `json:"timestamp"`
	Error                  *string             `json:"error,omitempty"`

	// Returned by the service for URL submissions.
	EventURL              string        `json:"event_url,omitempty"`
	EventExtractedFromURL bool          `json:"event_extracted_from_url,omitempty"`
	EventDetails          *EventDetails `json:"event_details,omitempty"`
}

func (r QualificationResult) Failed() bool {
	return r.Error != nil
}

func (r QualificationResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// FailedResult synthesizes the result shown when the service could not
// produce one.
func FailedResult(personName, message string, now time.Time) QualificationResult {
	msg := message
	return QualificationResult{
		PersonName:         personName,
		InformationSources: []InformationSource{},
		Timestamp:          now.UTC().Format(time.RFC3339Nano),
		Error:              &msg,
	}
}

func IsPersonValid(name string) bool {
	return strings.TrimSpace(name) != ""
}

func IsURLModeValid(eventURL string) bool {
	return strings.TrimSpace(eventURL) != ""
}

func IsManualModeValid(details EventDetails) bool {
	return strings.TrimSpace(details.Name) != ""
}

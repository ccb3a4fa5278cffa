package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"go-qualifier/internal/models"
)

// ErrNoDetails is returned when the model found no usable event in the text.
var ErrNoDetails = errors.New("no event details found in text")

const maxInputChars = 8000

type Drafter struct {
	client *genai.Client
	model  string
}

func NewDrafter(ctx context.Context, apiKey, model string) (*Drafter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Drafter{client: client, model: model}, nil
}

// Draft extracts manual event details from free text such as a pasted event
// page or invitation email.
func (d *Drafter) Draft(ctx context.Context, text string) (models.EventDetails, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.EventDetails{}, ErrNoDetails
	}
	if len(text) > maxInputChars {
		text = text[:maxInputChars]
	}

	resp, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(buildPrompt(text)), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.1),
		ResponseMIMEType: "application/json",
		ResponseSchema:   eventDetailsSchema,
	})
	if err != nil {
		return models.EventDetails{}, fmt.Errorf("generate content: %w", err)
	}

	return parseEventDetails(extractText(resp))
}

var eventDetailsSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":     {Type: genai.TypeString, Description: "Event name"},
		"type":     {Type: genai.TypeString, Description: "conference, workshop, meetup, panel, ..."},
		"audience": {Type: genai.TypeString, Description: "Target audience"},
		"format":   {Type: genai.TypeString, Description: "presentation, panel, workshop, ..."},
		"requirements": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "What a speaker or participant is expected to bring",
		},
	},
	Required: []string{"name", "type", "audience", "format", "requirements"},
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`Extract the details of the event described below.

Return a JSON object with:
- name: the event name
- type: the kind of event (conference, workshop, meetup, ...)
- audience: who the event is for
- format: how sessions are delivered (presentation, panel, workshop, ...)
- requirements: a list of qualifications expected from speakers or participants

Use an empty string or empty list when the text does not say. Do not invent details.

Event text:
%s`, text)
}

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	return resp.Text()
}

// parseEventDetails accepts the model output with or without a fenced code
// block around the JSON.
func parseEventDetails(text string) (models.EventDetails, error) {
	jsonStr := strings.TrimSpace(text)
	if idx := strings.Index(jsonStr, "```json"); idx >= 0 {
		rest := jsonStr[idx+len("```json"):]
		if end := strings.Index(rest, "```"); end >= 0 {
			jsonStr = rest[:end]
		}
	} else if start, end := strings.Index(jsonStr, "{"), strings.LastIndex(jsonStr, "}"); start >= 0 && end > start {
		jsonStr = jsonStr[start : end+1]
	}

	var d models.EventDetails
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &d); err != nil {
		return models.EventDetails{}, fmt.Errorf("decode event details: %w", err)
	}

	d.Name = strings.TrimSpace(d.Name)
	d.Type = strings.TrimSpace(d.Type)
	d.Audience = strings.TrimSpace(d.Audience)
	d.Format = strings.TrimSpace(d.Format)
	d = d.Submittable()

	if !models.IsManualModeValid(d) {
		return models.EventDetails{}, ErrNoDetails
	}
	return d, nil
}

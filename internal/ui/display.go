package ui

import (
	"fmt"
	"strings"

	"go-qualifier/internal/form"
	"go-qualifier/internal/models"
	"go-qualifier/internal/present"

	"github.com/pterm/pterm"
)

func PrintWelcome() {
	pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Println("Event Qualifier")
	pterm.Println(pterm.Gray("Find out whether a person fits your event"))
	pterm.Println()
}

// PrintEventForm shows the event step: the active mode first, the inactive
// one dimmed so the operator can see it is kept.
func PrintEventForm(f *form.Form) {
	pterm.DefaultSection.WithStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold)).
		Printfln("Event for %s", f.Person().Name)

	urlTitle, manualTitle := "Event URL", "Manual details"
	if f.Mode() == form.ModeURL {
		urlTitle = pterm.FgGreen.Sprint("● " + urlTitle + " (active)")
		manualTitle = pterm.Gray("○ " + manualTitle)
	} else {
		urlTitle = pterm.Gray("○ " + urlTitle)
		manualTitle = pterm.FgGreen.Sprint("● " + manualTitle + " (active)")
	}

	pterm.Println(urlTitle)
	pterm.Println("  " + orPlaceholder(f.EventURL()))
	pterm.Println()

	d := f.Details()
	pterm.Println(manualTitle)
	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Name", orPlaceholder(d.Name)},
		{"Type", orPlaceholder(d.Type)},
		{"Audience", orPlaceholder(d.Audience)},
		{"Format", orPlaceholder(d.Format)},
	}
	for i, r := range d.Requirements {
		tableData = append(tableData, []string{fmt.Sprintf("Requirement %d", i+1), orPlaceholder(r)})
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
	pterm.Println()

	if missing := f.Missing(); len(missing) > 0 {
		PrintMissing(missing)
	} else {
		pterm.Println(pterm.FgGreen.Sprint("Ready. Type /submit to request the qualification."))
	}
	pterm.Println()
}

func PrintMissing(missing []string) {
	pterm.Println(pterm.Gray("Submit is disabled: " + strings.Join(missing, ", ")))
}

func PrintResult(r models.QualificationResult) {
	band := present.Classify(r)
	pterm.Println()

	if band == present.Failed {
		pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(pterm.BgRed)).
			WithTextStyle(pterm.NewStyle(pterm.FgWhite, pterm.Bold)).
			Println(band.Label())
		pterm.Error.Println(r.ErrorMessage())
		pterm.Println()
		return
	}

	pterm.DefaultHeader.WithBackgroundStyle(pterm.NewStyle(bandColor(band))).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack, pterm.Bold)).
		Printfln("%s · %s/10 · %s", r.PersonName, formatScore(r.QualificationScore), band.Label())
	pterm.Println()

	if r.EventDetails != nil && r.EventDetails.Name != "" {
		pterm.Println(pterm.Gray("Event: ") + r.EventDetails.Name)
	}
	if r.EventExtractedFromURL {
		pterm.Println(pterm.Gray("Event details were extracted from " + r.EventURL))
	}

	PrintTypewriter(r.QualificationReasoning)

	pterm.Println(pterm.Gray(fmt.Sprintf("Searches performed: %d", r.SearchesPerformed)))
	if len(r.InformationSources) > 0 {
		tableData := pterm.TableData{{"#", "Query", "Source", "Cached"}}
		for i, s := range r.InformationSources {
			cached := ""
			if s.FoundExisting {
				cached = pterm.FgGreen.Sprint("yes")
			}
			tableData = append(tableData, []string{fmt.Sprintf("%d", i+1), s.Query, s.Source, cached})
		}
		pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
	}
	if r.Timestamp != "" {
		pterm.Println(pterm.Gray("Generated at " + r.Timestamp))
	}
	pterm.Println()
}

func bandColor(b present.Band) pterm.Color {
	switch b {
	case present.HighlyQualified:
		return pterm.BgGreen
	case present.WellQualified:
		return pterm.BgCyan
	case present.MinimallyQualified:
		return pterm.BgYellow
	default:
		return pterm.BgRed
	}
}

func formatScore(score float64) string {
	if score == float64(int64(score)) {
		return fmt.Sprintf("%d", int64(score))
	}
	return fmt.Sprintf("%.1f", score)
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return pterm.Gray("—")
	}
	return s
}

func PrintCancelled() {
	pterm.Warning.Println("Cancelled.")
}

func PrintFarewell() {
	pterm.Println()
	pterm.Println(pterm.Gray("Bye!"))
	pterm.Println()
}

func PrintError(msg string) {
	pterm.Println(pterm.Gray("⚠ " + msg))
}

func PrintStatus(msg string) {
	pterm.Println(pterm.Gray(msg))
}

package ui

import (
	"strings"

	"github.com/pterm/pterm"
)

type Command struct {
	Name string
	Args string
}

type CommandDef struct {
	Name        string
	Usage       string
	Description string
}

var AvailableCommands = []CommandDef{
	{Name: "/mode", Usage: "/mode [url|manual]", Description: "Switch between event URL and manual details"},
	{Name: "/url", Usage: "/url <link>", Description: "Set the event URL"},
	{Name: "/edit", Usage: "/edit", Description: "Edit event name, type, audience and format"},
	{Name: "/req", Usage: "/req add [text] | set <n> <text> | rm <n>", Description: "Edit event requirements"},
	{Name: "/draft", Usage: "/draft", Description: "Fill event details from pasted text (Gemini)"},
	{Name: "/submit", Usage: "/submit", Description: "Request the qualification"},
	{Name: "/back", Usage: "/back", Description: "Go back to the person step"},
	{Name: "/reset", Usage: "/reset", Description: "Start over"},
	{Name: "/help", Usage: "/help", Description: "Show this list"},
	{Name: "/clear", Usage: "/clear", Description: "Clear the screen"},
	{Name: "/exit", Usage: "/exit", Description: "Quit"},
}

func CommandNames() []string {
	names := make([]string, len(AvailableCommands))
	for i, cmd := range AvailableCommands {
		names[i] = cmd.Name
	}
	return names
}

func ParseCommand(input string) (Command, bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return Command{}, false
	}
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd, true
}

// SplitArgs splits off the first n whitespace-separated words of args and
// returns the rest untouched.
func SplitArgs(args string, n int) ([]string, string) {
	var words []string
	rest := strings.TrimSpace(args)
	for len(words) < n && rest != "" {
		idx := strings.IndexAny(rest, " \t")
		if idx < 0 {
			words = append(words, rest)
			rest = ""
			break
		}
		words = append(words, rest[:idx])
		rest = strings.TrimSpace(rest[idx+1:])
	}
	return words, rest
}

func PrintCommands() {
	pterm.Println(pterm.Gray("Available commands:"))
	for _, cmd := range AvailableCommands {
		pterm.Println(pterm.Cyan("  "+cmd.Usage) + pterm.Gray("  "+cmd.Description))
	}
	pterm.Println()
}

package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/voxcore/voxcore/internal/tui"
)

// exitCommands end the session when typed on their own.
var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
}

// IsExitCommand reports whether a submitted line asks to leave.
func IsExitCommand(line string) bool {
	return exitCommands[strings.ToLower(strings.TrimSpace(line))]
}

// commandResult tells the orchestrator what a slash command did.
type commandResult struct {
	handled bool
	quit    bool
	// message, when set, is posted to the transcript as a system line.
	message string
	// theme, when set, names a theme to switch to.
	theme string
	// speakStatus asks for a spoken system report.
	speakStatus bool
	// clear wipes the transcript.
	clear bool
}

type slashCommand struct {
	name    string
	summary string
	run     func(args []string) commandResult
}

// Commands dispatches slash commands and offers fuzzy suggestions while
// the user types.
type Commands struct {
	table map[string]slashCommand
	names []string
}

// NewCommands builds the command table.
func NewCommands() *Commands {
	c := &Commands{table: map[string]slashCommand{}}

	c.register("/help", "list available commands", func([]string) commandResult {
		return commandResult{handled: true, message: c.helpText()}
	})
	c.register("/status", "speak a system status report", func([]string) commandResult {
		return commandResult{handled: true, speakStatus: true}
	})
	c.register("/theme", "switch color theme", func(args []string) commandResult {
		if len(args) == 0 {
			return commandResult{
				handled: true,
				message: "themes: " + strings.Join(tui.ThemeNames(), ", "),
			}
		}
		return commandResult{handled: true, theme: args[0]}
	})
	c.register("/clear", "clear the transcript", func([]string) commandResult {
		return commandResult{handled: true, clear: true}
	})

	return c
}

func (c *Commands) register(name, summary string, run func([]string) commandResult) {
	c.table[name] = slashCommand{name: name, summary: summary, run: run}
	c.names = append(c.names, name)
	sort.Strings(c.names)
}

// Dispatch runs a submitted line if it is a slash command. The first
// return reports whether it was one.
func (c *Commands) Dispatch(line string) commandResult {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return commandResult{}
	}

	fields := strings.Fields(line)
	cmd, ok := c.table[strings.ToLower(fields[0])]
	if !ok {
		msg := "unknown command " + fields[0]
		if s := c.Suggest(fields[0]); s != "" {
			msg += " (did you mean " + s + "?)"
		}
		return commandResult{handled: true, message: msg}
	}
	return cmd.run(fields[1:])
}

// Suggest fuzzy-matches a partial slash command against the table and
// returns the best candidate, or "" when nothing is close.
func (c *Commands) Suggest(partial string) string {
	partial = strings.TrimSpace(partial)
	if len(partial) < 2 || !strings.HasPrefix(partial, "/") {
		return ""
	}
	if _, ok := c.table[strings.ToLower(partial)]; ok {
		return ""
	}
	matches := fuzzy.Find(partial, c.names)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}

func (c *Commands) helpText() string {
	var b strings.Builder
	b.WriteString("commands:\n")
	for _, name := range c.names {
		fmt.Fprintf(&b, "  %-9s %s\n", name, c.table[name].summary)
	}
	b.WriteString("  exit      leave the session (also quit, /exit, /quit)")
	return b.String()
}

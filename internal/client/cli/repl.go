package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/quickqr/internal/client/client"
)

var errUsage = errors.New("usage")

// command is one REPL verb.
type command struct {
	usage string
	help  string
	// auth marks commands that need a logged-in user.
	auth bool
	run  func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register": {"register", "create an account", false, a.register},
		"login":    {"login", "log in and remember the session", false, a.login},
		"logout":   {"logout", "forget the stored session", false, a.logout},
		"whoami":   {"whoami", "show the logged-in user", true, a.whoami},

		"new":     {"new [type]", "start a new code", false, a.newCode},
		"type":    {"type <type>", "switch the content type", false, a.setType},
		"set":     {"set <field> <value>", "set a content field", false, a.setField},
		"style":   {"style [<key> <value>]", "change the look, or list style keys", false, a.style},
		"preset":  {"preset [<name|file> | save <file>]", "apply or save a style preset", false, a.preset},
		"name":    {"name <text>", "name the code", false, a.setName},
		"mode":    {"mode static|dynamic", "choose how the symbol resolves", false, a.setCodeMode},
		"show":    {"show", "show the code being edited", false, a.show},
		"payload": {"payload", "print what the symbol encodes", false, a.payload},

		"save":   {"save", "save the code to your account", true, a.save},
		"list":   {"list [all|<owner id>]", "list saved codes", true, a.list},
		"open":   {"open <id>", "load a saved code into the editor", true, a.open},
		"delete": {"delete <id>", "delete a saved code", true, a.deleteCode},
		"scans":  {"scans <id>", "show scan history of a dynamic code", true, a.scans},
		"logo":   {"logo <file|url|clear>", "set the centre logo", false, a.logo},

		"download": {"download [png|svg|jpeg|webp] [filename]", "export the current code", false, a.download},
		"draft":    {"draft save|load|delete <name> | draft list", "keep work in progress locally", false, a.draft},
		"preview":  {"preview [on|off]", "show or hide live previews", false, a.previewCmd},
	}
}

// runREPL reads commands line by line and dispatches them until EOF, exit
// or quit. Handler errors are reported to the user and never end the loop.
// Lines come from the same buffered reader the prompts use, so piped input
// can mix commands and prompt answers.
func runREPL(ctx context.Context, a *App) {
	cmds := a.commands()
	for {
		fmt.Fprintf(a.out, "qr %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return
		case "help", "?":
			a.help(cmds)
			continue
		}

		cmd, ok := cmds[name]
		if !ok {
			fmt.Fprintln(a.out, "Unknown command:", name)
			continue
		}
		if cmd.auth && !a.isLoggedIn() {
			fmt.Fprintln(a.out, "Please log in first.")
			continue
		}
		if ctx.Err() != nil {
			return
		}
		if name == "set" {
			args = fieldAndRest(line)
		}
		a.report(ctx, cmd, cmd.run(ctx, args))
	}
}

// fieldAndRest splits "set <field> <value>" so the value keeps its inner
// and trailing spaces. A "field=value" argument is returned whole.
func fieldAndRest(line string) []string {
	_, rest := cutBlank(strings.TrimRight(line, "\r\n"))
	if rest == "" {
		return nil
	}
	field, value := cutBlank(rest)
	switch {
	case strings.Contains(field, "="):
		return []string{rest}
	case value == "":
		return []string{field}
	}
	return []string{field, value}
}

// cutBlank returns the first word of s and what follows the blanks after it.
func cutBlank(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}

func (a *App) report(ctx context.Context, cmd command, err error) {
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.out, "Usage:", cmd.usage)
	case errors.Is(err, client.ErrUnauthorized):
		if lerr := a.authService.Logout(ctx); lerr != nil {
			a.logger.Error(ctx, "clear session", "error", lerr)
		}
		fmt.Fprintln(a.out, client.UserMessage(err))
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, client.UserMessage(err))
	default:
		a.logger.Debug(ctx, "command failed", "error", err)
		fmt.Fprintln(a.out, client.UserMessage(err))
	}
}

func (a *App) help(cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	for n, c := range cmds {
		if c.auth && !a.isLoggedIn() {
			continue
		}
		names = append(names, n)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, n := range names {
		fmt.Fprintf(tw, "  %s\t%s\n", cmds[n].usage, cmds[n].help)
	}
	fmt.Fprintf(tw, "  %s\t%s\n", "exit", "leave the program")
	_ = tw.Flush()
}

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/providers/ai"
)

// Version is the shell release string, stamped at build time.
var Version = "dev"

// REPL drives the interactive loop over a booted session.
type REPL struct {
	session  *Session
	renderer *Renderer
	in       io.Reader
}

// NewREPL wires a REPL over the session. in defaults to stdin.
func NewREPL(session *Session, renderer *Renderer, in io.Reader) *REPL {
	if in == nil {
		in = os.Stdin
	}
	return &REPL{session: session, renderer: renderer, in: in}
}

// Run reads and evaluates input until EOF, /exit, or ctx cancellation.
// Evaluation and command errors are rendered and the loop continues.
func (r *REPL) Run(ctx context.Context) error {
	s := r.session
	r.renderer.Banner(Version, s.DB.Path(), bootShortcuts(s), bootProperties(s))

	reader := bufio.NewReader(r.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := r.readMultiline(reader)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if err := s.DB.AppendHistory(s.ID, input); err != nil {
			s.log.Warn("failed to persist history", zap.Error(err))
		}

		switch {
		case strings.HasPrefix(input, "/"):
			if r.command(ctx, input) {
				return nil
			}
		case strings.HasPrefix(input, "ai:"):
			r.complete(ctx, strings.TrimSpace(strings.TrimPrefix(input, "ai:")))
		default:
			val, err := s.Engine.Eval(ctx, input)
			if err != nil {
				r.renderer.Error(err)
				continue
			}
			r.renderer.Value(val)
		}
	}
}

// readMultiline reads one logical input. A trailing backslash
// continues onto the next line.
func (r *REPL) readMultiline(reader *bufio.Reader) (string, error) {
	var lines []string
	for {
		fmt.Fprint(os.Stderr, r.renderer.Prompt(len(lines) > 0))
		line, err := reader.ReadString('\n')
		if err != nil {
			if len(lines) == 0 || !errors.Is(err, io.EOF) {
				return "", err
			}
			lines = append(lines, strings.TrimRight(line, "\r\n"))
			return strings.Join(lines, "\n"), nil
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasSuffix(line, "\\") {
			lines = append(lines, strings.TrimSuffix(line, "\\"))
			continue
		}
		lines = append(lines, line)
		return strings.Join(lines, "\n"), nil
	}
}

// command handles a slash command; returns true when the loop should exit.
func (r *REPL) command(ctx context.Context, input string) bool {
	s := r.session
	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/exit", "/quit":
		return true

	case "/help":
		r.renderer.Text(commandHelp)

	case "/status":
		r.renderer.Text(formatValue(s.Engine.Runtime().ToValue(s.Status())))

	case "/shortcuts":
		infos, err := s.Shortcuts.List()
		if err != nil {
			r.renderer.Error(err)
			break
		}
		if len(infos) == 0 {
			r.renderer.Notice("no shortcuts defined")
			break
		}
		for _, info := range infos {
			r.renderer.Text(fmt.Sprintf("%-20s → home.%s", info.Name, info.Path))
		}

	case "/history":
		entries, err := s.DB.RecentHistory(20)
		if err != nil {
			r.renderer.Error(err)
			break
		}
		for i := len(entries) - 1; i >= 0; i-- {
			r.renderer.Text(entries[i].Input)
		}

	case "/export":
		if len(args) != 1 {
			r.renderer.Error(errors.New("usage: /export <path>"))
			break
		}
		n, err := s.Export(args[0])
		if err != nil {
			r.renderer.Error(err)
			break
		}
		r.renderer.Notice("exported %d properties to %s", n, args[0])

	case "/import":
		if len(args) != 1 {
			r.renderer.Error(errors.New("usage: /import <path>"))
			break
		}
		accepted, skipped, err := s.Import(args[0])
		if err != nil {
			r.renderer.Error(err)
			break
		}
		r.renderer.Notice("imported %d properties, skipped %d", accepted, skipped)

	case "/reset":
		n, err := r.reset()
		if err != nil {
			r.renderer.Error(err)
			break
		}
		r.renderer.Notice("removed %d custom properties", n)

	default:
		r.renderer.Error(fmt.Errorf("unknown command %s", cmd))
		r.renderer.Text(commandHelp)
	}
	return false
}

// reset deletes every custom property, row and binding both.
// Shortcuts and modules are left alone.
func (r *REPL) reset() (int, error) {
	s := r.session
	rows, err := s.DB.ListProperties()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, row := range rows {
		if err := s.Port.Delete(row.Key); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func (r *REPL) complete(ctx context.Context, prompt string) {
	if prompt == "" {
		r.renderer.Error(errors.New("usage: ai: <prompt>"))
		return
	}
	resp, err := r.session.AI.Complete(ctx, ai.CompletionRequest{Prompt: prompt})
	if err != nil {
		r.renderer.Error(err)
		return
	}
	r.renderer.AI(strings.TrimSpace(resp.Content))
}

func bootShortcuts(s *Session) int {
	if s.Boot == nil {
		return 0
	}
	return s.Boot.Shortcuts
}

func bootProperties(s *Session) int {
	if s.Boot == nil {
		return 0
	}
	return s.Boot.Properties
}

const commandHelp = `Commands:
  /help             show this help
  /status           session, store, and breaker state
  /shortcuts        list shortcut bindings
  /history          recent input lines
  /export <path>    dump custom properties (.json/.yaml/.toml, .gz ok)
  /import <path>    replay a dump through the namespace
  /reset            delete all custom properties
  /exit             leave the shell

Anything else is evaluated as a script. Assignments to home.* persist
across restarts. Prefix a line with "ai:" to ask the model.`

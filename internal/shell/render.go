package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
	"github.com/fatih/color"
)

// Renderer owns the REPL's terminal output.
type Renderer struct {
	out  io.Writer
	errw io.Writer
	opts RenderOptions
}

// RenderOptions control output shape.
type RenderOptions struct {
	NoColor bool
	Quiet   bool
	JSON    bool
}

// NewRenderer creates a renderer writing to stdout/stderr.
func NewRenderer(opts RenderOptions) *Renderer {
	color.NoColor = opts.NoColor
	return &Renderer{out: os.Stdout, errw: os.Stderr, opts: opts}
}

// Banner prints the startup line.
func (r *Renderer) Banner(version, dbPath string, shortcuts, properties int) {
	if r.opts.Quiet {
		return
	}
	fmt.Fprintln(r.errw, color.New(color.FgHiBlack).Sprintf(
		"agentshell %s · %s · restored %d shortcuts, %d properties",
		version, dbPath, shortcuts, properties))
}

// Prompt returns the colored input prompt.
func (r *Renderer) Prompt(continuation bool) string {
	if continuation {
		return color.New(color.FgHiBlack).Sprint("... ")
	}
	return color.New(color.FgCyan, color.Bold).Sprint("home › ")
}

// Value prints an evaluation result. Undefined is silent, matching
// what statement evaluation usually yields.
func (r *Renderer) Value(v goja.Value) {
	if v == nil || goja.IsUndefined(v) {
		return
	}
	if r.opts.JSON {
		b, err := sonic.Marshal(map[string]interface{}{"type": "value", "value": v.Export()})
		if err == nil {
			fmt.Fprintln(r.out, string(b))
			return
		}
	}
	fmt.Fprintln(r.out, formatValue(v))
}

// Text prints plain informational output.
func (r *Renderer) Text(s string) {
	if r.opts.JSON {
		b, _ := sonic.Marshal(map[string]string{"type": "text", "text": s})
		fmt.Fprintln(r.out, string(b))
		return
	}
	fmt.Fprintln(r.out, s)
}

// AI prints a model completion.
func (r *Renderer) AI(text string) {
	if r.opts.JSON {
		b, _ := sonic.Marshal(map[string]string{"type": "ai", "text": text})
		fmt.Fprintln(r.out, string(b))
		return
	}
	fmt.Fprintf(r.out, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("ai ›"), text)
}

// Error prints an evaluation or command error without killing the loop.
func (r *Renderer) Error(err error) {
	if r.opts.JSON {
		b, _ := sonic.Marshal(map[string]string{"type": "error", "error": err.Error()})
		fmt.Fprintln(r.out, string(b))
		return
	}
	fmt.Fprintln(r.errw, color.New(color.FgRed).Sprintf("error: %v", err))
}

// Notice prints a dim status line, used for slash command feedback.
func (r *Renderer) Notice(format string, args ...interface{}) {
	if r.opts.Quiet {
		return
	}
	fmt.Fprintln(r.errw, color.New(color.FgHiBlack).Sprintf(format, args...))
}

func formatValue(v goja.Value) string {
	exported := v.Export()
	switch exported.(type) {
	case map[string]interface{}, []interface{}:
		b, err := sonic.MarshalIndent(exported, "", "  ")
		if err == nil {
			return string(b)
		}
	}
	return v.String()
}

// Package clipboard implements an in-process clipboard with history.
// Entries live in a bounded ring; the newest entry is what paste
// returns.
package clipboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

const historyLimit = 50

// Entry is one clipboard item.
type Entry struct {
	ID       uint64 `json:"id"`
	Data     string `json:"data"`
	Format   string `json:"format"`
	CopiedAt int64  `json:"copied_at"`
}

// Provider implements clipboard tools.
type Provider struct {
	mu      sync.Mutex
	entries []Entry
	nextID  uint64
	copies  uint64
	pastes  uint64
}

// NewProvider creates an empty clipboard.
func NewProvider() *Provider {
	return &Provider{}
}

// Definition returns service metadata.
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "clipboard",
		Name:        "Clipboard",
		Description: "Clipboard with history and usage statistics",
		Category:    types.CategoryClipboard,
		Capabilities: []string{
			"copy",
			"paste",
			"history",
			"statistics",
		},
		Tools: []types.Tool{
			{
				ID: "clipboard.copy", Name: "Copy",
				Description: "Copy data to the clipboard",
				Parameters: []types.Parameter{
					{Name: "data", Type: "string", Description: "Data to copy", Required: true},
					{Name: "format", Type: "string", Description: "Data format (text, html)", Required: false},
				},
				Returns: "object",
			},
			{
				ID: "clipboard.paste", Name: "Paste",
				Description: "Return the most recent clipboard entry",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID: "clipboard.history", Name: "History",
				Description: "Return clipboard history, newest first",
				Parameters: []types.Parameter{
					{Name: "limit", Type: "number", Description: "Maximum entries", Required: false},
				},
				Returns: "array",
			},
			{
				ID: "clipboard.clear", Name: "Clear",
				Description: "Clear the clipboard and its history",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID: "clipboard.stats", Name: "Statistics",
				Description: "Copy/paste counters and history size",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a clipboard operation.
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "clipboard.copy":
		return p.copy(params)
	case "clipboard.paste":
		return p.paste()
	case "clipboard.history":
		return p.history(params)
	case "clipboard.clear":
		return p.clear()
	case "clipboard.stats":
		return p.stats()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}

func (p *Provider) copy(params map[string]interface{}) (*types.Result, error) {
	data, ok := params["data"].(string)
	if !ok {
		return types.Failure("data parameter is required")
	}
	format, _ := params["format"].(string)
	if format == "" {
		format = "text"
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	p.copies++
	entry := Entry{
		ID:       p.nextID,
		Data:     data,
		Format:   format,
		CopiedAt: time.Now().UnixMilli(),
	}
	p.entries = append(p.entries, entry)
	if len(p.entries) > historyLimit {
		p.entries = p.entries[len(p.entries)-historyLimit:]
	}
	return types.Success(map[string]interface{}{"id": entry.ID, "format": format})
}

func (p *Provider) paste() (*types.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.entries) == 0 {
		return types.Failure("clipboard is empty")
	}
	p.pastes++
	entry := p.entries[len(p.entries)-1]
	return types.Success(map[string]interface{}{
		"data":   entry.Data,
		"format": entry.Format,
		"id":     entry.ID,
	})
}

func (p *Provider) history(params map[string]interface{}) (*types.Result, error) {
	limit := historyLimit
	if l, ok := params["limit"].(float64); ok && l > 0 {
		limit = int(l)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.entries)
	if limit > n {
		limit = n
	}
	out := make([]interface{}, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		e := p.entries[i]
		out = append(out, map[string]interface{}{
			"id":        e.ID,
			"data":      e.Data,
			"format":    e.Format,
			"copied_at": e.CopiedAt,
		})
	}
	return types.Success(map[string]interface{}{"entries": out, "count": len(out)})
}

func (p *Provider) clear() (*types.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cleared := len(p.entries)
	p.entries = nil
	return types.Success(map[string]interface{}{"cleared": cleared})
}

func (p *Provider) stats() (*types.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return types.Success(map[string]interface{}{
		"copies":  p.copies,
		"pastes":  p.pastes,
		"entries": len(p.entries),
	})
}

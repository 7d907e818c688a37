// Package http exposes the shell's control plane: REST access to the
// persistent namespace, shortcuts, modules, and provider tools. Every
// mutation goes through the same kernel paths scripts use, so the
// reserved-name guard and durable-first ordering hold here too.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/dop251/goja"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
	"github.com/GriffinCanCode/AgentShell/internal/shell"
)

// Handlers serves the REST API over one shell session.
type Handlers struct {
	session *shell.Session
}

// NewHandlers creates the handler set.
func NewHandlers(session *shell.Session) *Handlers {
	return &Handlers{session: session}
}

// Root returns service identification.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "agentshell",
		"version": shell.Version,
		"session": h.session.ID,
	})
}

// Health returns liveness plus store reachability.
func (h *Handlers) Health(c *gin.Context) {
	if _, err := h.session.DB.Stats(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Status returns the session summary.
func (h *Handlers) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Status())
}

// ListNamespace returns every custom property row.
func (h *Handlers) ListNamespace(c *gin.Context) {
	rows, err := h.session.DB.ListProperties()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"key":        row.Key,
			"type":       row.Type,
			"updated_at": time.UnixMilli(row.UpdatedAt).UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"properties": out})
}

// GetProperty returns one property's live value.
func (h *Handlers) GetProperty(c *gin.Context) {
	key := c.Param("key")

	var value interface{}
	var found bool
	h.session.Engine.Do(func(rt *goja.Runtime) {
		if h.session.Port.Has(key) {
			v := h.session.Port.Get(key)
			value = v.Export()
			found = true
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such property"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": value})
}

// putPropertyRequest carries either a plain JSON value or function
// source text.
type putPropertyRequest struct {
	Value  interface{} `json:"value"`
	Source string      `json:"source"`
}

// PutProperty sets a property through the namespace port. Reserved
// names come back 403; serialization failures 400.
func (h *Handlers) PutProperty(c *gin.Context) {
	key := c.Param("key")

	var req putPropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ok bool
	var opErr error
	h.session.Engine.Do(func(rt *goja.Runtime) {
		var val goja.Value
		if req.Source != "" {
			val, opErr = h.session.Port.Serializer().Deserialize(req.Source, "function")
		} else {
			var payload []byte
			payload, opErr = sonic.Marshal(req.Value)
			if opErr == nil {
				val, opErr = h.session.Port.Serializer().Deserialize(string(payload), "object")
			}
		}
		if opErr != nil {
			return
		}
		ok, opErr = h.session.Port.Set(key, val)
	})

	switch {
	case opErr != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": opErr.Error()})
	case !ok:
		c.JSON(http.StatusForbidden, gin.H{"error": "reserved name"})
	default:
		c.JSON(http.StatusOK, gin.H{"key": key, "persisted": true})
	}
}

// DeleteProperty removes a property. Idempotent.
func (h *Handlers) DeleteProperty(c *gin.Context) {
	key := c.Param("key")

	var opErr error
	h.session.Engine.Do(func(rt *goja.Runtime) {
		opErr = h.session.Port.Delete(key)
	})
	if opErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": opErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "deleted": true})
}

// ListShortcuts returns all shortcut bindings.
func (h *Handlers) ListShortcuts(c *gin.Context) {
	infos, err := h.session.Shortcuts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(infos))
	for _, info := range infos {
		out = append(out, gin.H{
			"name":       info.Name,
			"path":       info.Path,
			"created_at": info.CreatedAt.UTC().Format(time.RFC3339),
			"updated_at": info.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"shortcuts": out})
}

// PutShortcut creates or retargets a shortcut.
func (h *Handlers) PutShortcut(c *gin.Context) {
	name := c.Param("name")

	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ok bool
	var opErr error
	h.session.Engine.Do(func(rt *goja.Runtime) {
		ok, opErr = h.session.Shortcuts.Create(name, req.Path)
	})
	switch {
	case opErr != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": opErr.Error()})
	case !ok:
		c.JSON(http.StatusConflict, gin.H{"error": "name is reserved or already taken"})
	default:
		c.JSON(http.StatusOK, gin.H{"name": name, "path": req.Path})
	}
}

// DeleteShortcut removes a shortcut. Idempotent.
func (h *Handlers) DeleteShortcut(c *gin.Context) {
	name := c.Param("name")

	var opErr error
	h.session.Engine.Do(func(rt *goja.Runtime) {
		opErr = h.session.Shortcuts.Remove(name)
	})
	if opErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": opErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "deleted": true})
}

// ListModules returns saved script modules.
func (h *Handlers) ListModules(c *gin.Context) {
	rows, err := h.session.Modules.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"name":       row.Name,
			"updated_at": time.UnixMilli(row.UpdatedAt).UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"modules": out})
}

// PutModule saves a script module.
func (h *Handlers) PutModule(c *gin.Context) {
	name := c.Param("name")

	var req struct {
		Source string `json:"source" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.session.Modules.Save(name, req.Source); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "saved": true})
}

// LoadModule evaluates a saved module in the session runtime.
func (h *Handlers) LoadModule(c *gin.Context) {
	name := c.Param("name")

	var opErr error
	h.session.Engine.Do(func(rt *goja.Runtime) {
		_, opErr = h.session.Modules.Load(name)
	})
	if opErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": opErr.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name, "loaded": true})
}

// DeleteModule removes a saved module. Idempotent.
func (h *Handlers) DeleteModule(c *gin.Context) {
	if err := h.session.Modules.Remove(c.Param("name")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": c.Param("name"), "deleted": true})
}

// Eval runs a script and returns its exported value.
func (h *Handlers) Eval(c *gin.Context) {
	var req struct {
		Script string `json:"script" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	val, err := h.session.Engine.Eval(c.Request.Context(), req.Script)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var exported interface{}
	if val != nil && !goja.IsUndefined(val) {
		exported = val.Export()
	}
	c.JSON(http.StatusOK, gin.H{"value": exported})
}

// ListServices returns provider definitions.
func (h *Handlers) ListServices(c *gin.Context) {
	var category *types.Category
	if v := c.Query("category"); v != "" {
		cat := types.Category(v)
		category = &cat
	}
	c.JSON(http.StatusOK, gin.H{"services": h.session.Providers.List(category)})
}

// DiscoverServices ranks providers against a query.
func (h *Handlers) DiscoverServices(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
		Limit int    `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}
	c.JSON(http.StatusOK, gin.H{"services": h.session.Providers.Discover(req.Query, req.Limit)})
}

// ExecuteService runs one provider tool directly.
func (h *Handlers) ExecuteService(c *gin.Context) {
	var req struct {
		ToolID string                 `json:"tool_id" binding:"required"`
		Params map[string]interface{} `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Minute)
	defer cancel()

	res, err := h.session.Providers.Execute(ctx, req.ToolID, req.Params, h.session.Context())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// History returns recent input lines, newest first.
func (h *Handlers) History(c *gin.Context) {
	entries, err := h.session.DB.RecentHistory(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		out = append(out, gin.H{
			"input": e.Input,
			"at":    time.UnixMilli(e.CreatedAt).UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

package shell

import (
	"context"
	"errors"
	"strings"

	"github.com/dop251/goja"

	"github.com/GriffinCanCode/AgentShell/internal/namespace"
	"github.com/GriffinCanCode/AgentShell/internal/service"
	"github.com/GriffinCanCode/AgentShell/internal/shared/types"
)

// BindProviders mounts every registered provider as a reserved
// namespace object: home.fs, home.computer, and so on. Each tool
// becomes a method taking one optional params object; failures are
// thrown so scripts can try/catch them.
func BindProviders(rt *goja.Runtime, port *namespace.Port, reg *service.Registry, appCtx *types.Context) {
	for _, def := range reg.List(nil) {
		obj := rt.NewObject()
		for _, tool := range def.Tools {
			parts := strings.SplitN(tool.ID, ".", 2)
			if len(parts) != 2 {
				continue
			}
			_ = obj.Set(parts[1], makeToolFunc(rt, reg, tool.ID, appCtx))
		}
		port.Bind(def.ID, obj)
	}
}

func makeToolFunc(rt *goja.Runtime, reg *service.Registry, toolID string, appCtx *types.Context) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		params := map[string]interface{}{}
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Argument(0)) && !goja.IsNull(call.Argument(0)) {
			if m, ok := call.Argument(0).Export().(map[string]interface{}); ok {
				params = m
			}
		}

		res, err := reg.Execute(context.Background(), toolID, params, appCtx)
		if err != nil {
			panic(rt.NewGoError(err))
		}
		if !res.Success {
			msg := "tool failed"
			if res.Error != nil {
				msg = *res.Error
			}
			panic(rt.NewGoError(errors.New(msg)))
		}
		return rt.ToValue(res.Data)
	}
}

package namespace

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/store/sqlite"
)

// testKernel is a fully-booted kernel over one runtime. Passing the
// same *sqlite.DB to a second newTestKernel simulates a process
// restart: fresh runtime, same durable state.
type testKernel struct {
	rt   *goja.Runtime
	db   *sqlite.DB
	port *Port
	reg  *Registry
	ser  *Serializer
	boot *BootReport
}

func newTestKernel(t *testing.T, db *sqlite.DB) *testKernel {
	t.Helper()
	if db == nil {
		var err error
		db, err = sqlite.OpenMemory()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })
	}

	rt := goja.New()
	ser, err := NewSerializer(rt)
	require.NoError(t, err)

	log := logging.NewNop()
	port := NewPort(rt, db, ser, nil, log)
	require.NoError(t, port.Install())
	reg := NewRegistry(rt, db, port, nil, log)

	report, err := NewBootstrapper(db, port, reg, ser, log).Run()
	require.NoError(t, err)

	return &testKernel{rt: rt, db: db, port: port, reg: reg, ser: ser, boot: report}
}

// eval runs a script snippet and fails the test on error.
func (k *testKernel) eval(t *testing.T, src string) goja.Value {
	t.Helper()
	v, err := k.rt.RunString(src)
	require.NoError(t, err)
	return v
}

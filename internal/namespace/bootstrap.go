package namespace

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/AgentShell/internal/store"
)

// Bootstrapper replays the kernel tables into a fresh runtime. It must
// run before any user script: shortcut globals and custom properties
// have to exist by the time the first line is evaluated.
type Bootstrapper struct {
	store store.KernelStore
	port  *Port
	reg   *Registry
	ser   *Serializer
	log   *logging.Logger
}

// BootReport summarizes what a bootstrap run restored.
type BootReport struct {
	Shortcuts  int
	Properties int
	Skipped    []string // keys of rows that failed to revive
}

// NewBootstrapper wires the bootstrap sequence.
func NewBootstrapper(st store.KernelStore, port *Port, reg *Registry, ser *Serializer, log *logging.Logger) *Bootstrapper {
	return &Bootstrapper{
		store: st,
		port:  port,
		reg:   reg,
		ser:   ser,
		log:   log.Component("bootstrap"),
	}
}

// Run creates the schema, rebinds every persisted shortcut, and
// rehydrates every custom property. One corrupt row is logged and
// skipped; it never aborts the rest and is never deleted. Only store
// access failures are fatal.
func (b *Bootstrapper) Run() (*BootReport, error) {
	if err := b.store.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize kernel tables: %w", err)
	}
	report := &BootReport{}

	shortcuts, err := b.store.ListShortcuts()
	if err != nil {
		return nil, fmt.Errorf("failed to list shortcuts: %w", err)
	}
	for _, row := range shortcuts {
		if err := b.reg.Rebind(row.Name, row.Path); err != nil {
			b.log.Warn("skipping shortcut",
				zap.String("name", row.Name), zap.Error(err))
			report.Skipped = append(report.Skipped, row.Name)
			continue
		}
		report.Shortcuts++
	}

	props, err := b.store.ListProperties()
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	for _, row := range props {
		val, err := b.ser.Deserialize(row.Value, row.Type)
		if err != nil {
			derr := &DeserializeError{Key: row.Key, Err: err}
			b.log.Warn("skipping property", zap.String("key", row.Key), zap.Error(derr))
			report.Skipped = append(report.Skipped, row.Key)
			continue
		}
		// Direct assignment: these rows are already durable, writing
		// them back through Set would be a redundant store round trip.
		b.port.Hydrate(row.Key, val)
		report.Properties++
	}

	b.log.Info("namespace rehydrated",
		zap.Int("shortcuts", report.Shortcuts),
		zap.Int("properties", report.Properties),
		zap.Int("skipped", len(report.Skipped)))
	return report, nil
}

package solver

import "github.com/kilianp07/pdptw/core/factory"

var registry = factory.NewRegistry[Solver]()

func init() {
	if err := Register("random", func(conf map[string]any) (Solver, error) {
		var c RandomConfig
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return newRandomFromConfig(c), nil
	}); err != nil {
		panic(err)
	}
}

// Register adds a solver factory identified by name.
func Register(name string, f factory.Factory[Solver]) error {
	return registry.Register(name, f)
}

// New creates the solver selected by cfg.
func New(cfg factory.ModuleConfig) (Solver, error) {
	return registry.Create(cfg)
}

// Names returns the registered solver types.
func Names() []string { return registry.Names() }

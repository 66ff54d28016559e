// Package factory provides a small generic registry used to instantiate modules
// such as solvers and metrics sinks from configuration. Modules are defined by
// a type string and a map of raw settings. Factories decode the settings into
// typed structs and return the concrete implementation.
//
// Example usage:
//
//	reg := factory.NewRegistry[solver.Solver]()
//	reg.Register("random", func(conf map[string]any) (solver.Solver, error) {
//	    var c struct{ Seed int64 `json:"seed"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return solver.NewRandomSolver(c.Seed), nil
//	})
//	s, err := reg.Create(factory.ModuleConfig{Type: "random", Conf: map[string]any{"seed": 7}})
package factory

package deconflict

// Config holds every tunable the engine needs at construction time (spec
// §6). Zero-value Config is not valid — use DefaultConfig and override,
// or construct directly and call validate via NewEngine.
type Config struct {
	BaseSafetyBuffer float64 // meters, §4.3 B_base
	ReactionTime     float64 // seconds, §4.3 t_react
	MaxAccel         float64 // m/s^2, §4.3 a_max
	GPSUncertainty   float64 // meters, §4.3 sigma_gps

	CoarseBuffer float64 // meters, §4.2 B_coarse
	CoarseStep   float64 // seconds, §4.2 delta t_coarse

	GridCellSize float64 // meters, §4.3 S
	GridTimeStep float64 // seconds, §4.3 T

	VRef   float64 // m/s, §4.4 V_ref
	DRef   float64 // seconds, §4.4 D_ref
	TTCRef float64 // seconds, §4.4 TTC_ref

	// Parallel enables errgroup-based concurrent grid build and risk
	// scoring across candidates (spec §5: "implementers MAY parallelize").
	// Output ordering is unaffected either way.
	Parallel bool
}

// DefaultConfig returns the parameter defaults enumerated in spec §6.
func DefaultConfig() Config {
	return Config{
		BaseSafetyBuffer: 50.0,
		ReactionTime:     2.5,
		MaxAccel:         5.0,
		GPSUncertainty:   10.0,

		CoarseBuffer: 200.0,
		CoarseStep:   10.0,

		GridCellSize: 100.0,
		GridTimeStep: 1.0,

		VRef:   30.0,
		DRef:   10.0,
		TTCRef: 10.0,
	}
}

// validate enforces that every buffer/step is strictly positive (spec §7:
// ConfigurationError for "non-positive buffer or step").
func (c Config) validate() error {
	fields := []struct {
		name  string
		value float64
	}{
		{"BaseSafetyBuffer", c.BaseSafetyBuffer},
		{"ReactionTime", c.ReactionTime},
		{"MaxAccel", c.MaxAccel},
		{"GPSUncertainty", c.GPSUncertainty},
		{"CoarseBuffer", c.CoarseBuffer},
		{"CoarseStep", c.CoarseStep},
		{"GridCellSize", c.GridCellSize},
		{"GridTimeStep", c.GridTimeStep},
		{"VRef", c.VRef},
		{"DRef", c.DRef},
		{"TTCRef", c.TTCRef},
	}
	for _, f := range fields {
		if f.value <= 0 {
			return wrapConfiguration(f.name, f.value)
		}
	}
	return nil
}

// Package config holds the tunable constants the solver and scroll physics
// depend on, set via functional options — mirroring the teacher's
// Style(func(s *styles.Style){...}) closure idiom (core/scroll.go's
// ConfigScroll) applied to a single process-scope settings object, per
// spec §9 "module-level state → process-scope registries with explicit
// init".
package config

import "time"

// Config holds every numeric constant named explicitly in spec.md.
type Config struct {
	// ScrollbarWidthDots is the default scrollbar reservation (§4.1.3).
	ScrollbarWidthDots float32

	// MaxReflowIterations caps scrollbar-induced reflow (§4.1.3 step 5, §4.1.5).
	MaxReflowIterations int

	// PhysicsTickRate is the frequency the scroll physics timer is driven at (§4.3.2).
	PhysicsTickRate float32 // Hz

	// DecayRate is the per-60Hz-frame velocity decay factor (§4.3.2 step 4).
	DecayRate float32

	// SpringConstant is the overscroll restoring-force constant k (§4.3.2 step 5).
	SpringConstant float32

	// StopVelocityThreshold is |v| below which the timer may terminate (§4.3.2 step 8).
	StopVelocityThreshold float32

	// EdgeThreshold is the iframe re-invoke distance in logical pixels (§4.3.2 step 6, Glossary).
	EdgeThreshold float32

	// ThumbMinRatio is the minimum scrollbar-thumb-to-track ratio (§4.3.4).
	ThumbMinRatio float32

	// FrictionMinVelocity below this, rounding to exactly zero is allowed.
	FrictionMinVelocity float32
}

// Option configures a Config value.
type Option func(*Config)

// Default returns the spec-documented default configuration.
func Default() Config {
	c := Config{
		ScrollbarWidthDots:    17,
		MaxReflowIterations:   2,
		PhysicsTickRate:       60,
		DecayRate:             0.985,
		SpringConstant:        150,
		StopVelocityThreshold: 0.1,
		EdgeThreshold:         200,
		ThumbMinRatio:         0.05,
		FrictionMinVelocity:   0.01,
	}
	return c
}

// New builds a Config from Default() plus the given options.
func New(opts ...Option) Config {
	c := Default()
	for _, o := range opts {
		o(&c)
	}
	return c
}

func WithScrollbarWidth(dots float32) Option {
	return func(c *Config) { c.ScrollbarWidthDots = dots }
}

func WithMaxReflowIterations(n int) Option {
	return func(c *Config) { c.MaxReflowIterations = n }
}

func WithPhysics(tickHz, decay, spring float32) Option {
	return func(c *Config) {
		c.PhysicsTickRate = tickHz
		c.DecayRate = decay
		c.SpringConstant = spring
	}
}

func WithEdgeThreshold(px float32) Option {
	return func(c *Config) { c.EdgeThreshold = px }
}

// TickInterval returns the physics timer period as a time.Duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(float64(time.Second) / float64(c.PhysicsTickRate))
}

package prim

import "go.uber.org/zap"

type config struct {
	strict bool
	log    *zap.Logger
}

// Option configures a Parse call.
type Option func(*config)

// WithStrictConsistency makes consistency-check violations fatal. The
// default is lenient: violations are logged and decoding continues, since
// shipped game files are known to fail some of these checks.
func WithStrictConsistency() Option {
	return func(c *config) {
		c.strict = true
	}
}

// WithLogger routes lenient-mode consistency warnings to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}

func newConfig(opts []Option) *config {
	c := &config{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// check enforces or logs a consistency violation depending on the mode.
func (c *config) check(err *ConsistencyError) error {
	if err == nil {
		return nil
	}
	if c.strict {
		return err
	}
	c.log.Warn("consistency check failed",
		zap.String("check", err.Check),
		zap.String("detail", err.Detail),
	)
	return nil
}

package composite

import "fmt"

type groupOptions struct {
	policy   CancelPolicy
	capacity int
	name     string
	logger   Logger
	metrics  *Metrics
}

func defaultGroupOptions() *groupOptions {
	return &groupOptions{
		policy:   PolicyKill,
		capacity: 0,
		logger:   NewNoopLogger(),
	}
}

type Option func(*groupOptions)

func buildGroupOptions(opts ...Option) (*groupOptions, error) {
	options := defaultGroupOptions()
	for _, fn := range opts {
		fn(options)
	}

	if options.capacity < 0 {
		return nil, fmt.Errorf("%w: capacity must not be negative, got %d", ErrInvalidArgument, options.capacity)
	}
	if !options.policy.valid() {
		return nil, fmt.Errorf("%w: unknown cancel policy %d", ErrInvalidArgument, int(options.policy))
	}
	if options.logger == nil {
		options.logger = NewNoopLogger()
	}
	return options, nil
}

// WithCancelPolicy sets the policy applied to handles removed with Group.Remove, dropped by Group.Clear, or added
// after the group has been disposed. Group.Dispose always kills its handles regardless of this setting.
// Default is PolicyKill.
func WithCancelPolicy(p CancelPolicy) Option {
	return func(options *groupOptions) {
		options.policy = p
	}
}

// WithCapacity pre-sizes the backing storage of the group. A negative capacity makes the constructor fail with
// ErrInvalidArgument.
// Default is 0.
func WithCapacity(n int) Option {
	return func(options *groupOptions) {
		options.capacity = n
	}
}

// WithName sets the name used for the group in logs and metrics. Default is the group ID.
func WithName(name string) Option {
	return func(options *groupOptions) {
		options.name = name
	}
}

// WithLogger sets the logger for the group. Default is the NoopLogger, or the scope logger for groups created with
// Scope.NewGroup.
func WithLogger(logger Logger) Option {
	return func(options *groupOptions) {
		options.logger = logger
	}
}

// WithMetrics makes the group report to m. Default is no metrics.
func WithMetrics(m *Metrics) Option {
	return func(options *groupOptions) {
		options.metrics = m
	}
}

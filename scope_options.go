package composite

type scopeOptions struct {
	logger  Logger
	metrics *Metrics
}

func defaultScopeOptions() *scopeOptions {
	return &scopeOptions{
		logger: NewNoopLogger(),
	}
}

type ScopeOption func(*scopeOptions)

func buildScopeOptions(opts ...ScopeOption) *scopeOptions {
	options := defaultScopeOptions()
	for _, fn := range opts {
		fn(options)
	}
	if options.logger == nil {
		options.logger = NewNoopLogger()
	}
	return options
}

// WithScopeLogger sets the logger for Scope. It is also the default logger of groups created with Scope.NewGroup.
// Default is the NoopLogger.
func WithScopeLogger(logger Logger) ScopeOption {
	return func(options *scopeOptions) {
		options.logger = logger
	}
}

// WithScopeMetrics sets the default metrics of groups created with Scope.NewGroup. Default is no metrics.
func WithScopeMetrics(m *Metrics) ScopeOption {
	return func(options *scopeOptions) {
		options.metrics = m
	}
}

package composite

// Must returns res, or panics with err when it is non-nil. It is meant for constructors called with options that are
// known to be valid, such as package-level groups:
//
//	var hud = composite.Must(composite.New(composite.WithName("hud"), composite.WithCapacity(16)))
//
// Errors from options built at runtime, for example a policy read from configuration, should be handled instead.
func Must[T any](res T, err error) T {
	if err == nil {
		return res
	}
	panic(err)
}

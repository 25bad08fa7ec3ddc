package composite

// Handle is a running animation owned by an external animation engine.
// A Group never creates handles, it only tracks them and forwards calls to them.
//
// Handles are compared with ==, so implementations must be pointer types or other comparable types.
// A handle whose dynamic type is not comparable is still stored, played and killed on Dispose, but Remove and
// Contains never find it.
type Handle interface {
	Play()
	Pause()
	PlayForward()
	PlayBackward()

	// Kill terminates the animation. If complete is true the completion callback of the animation is still invoked.
	Kill(complete bool)
	// Complete forces the animation to its end state. If withCallbacks is true chained / sequence callbacks are
	// invoked.
	Complete(withCallbacks bool)

	SetTimeScale(scale float64)
	SetAutoKill(autoKill bool)
}

// Link adds h to g and returns h, so a handle can be registered while it is being built.
//
// Example:
//
//	fade := composite.Link(engine.Fade(sprite, 0, time.Second), group)
func Link[H Handle](h H, g *Group) H {
	g.Add(h)
	return h
}

package composite_test

import (
	"fmt"

	"github.com/marnixbouhuis/composite"
)

// tween stands in for a handle of an animation engine.
type tween struct {
	name string
}

func (t *tween) Play()                  { fmt.Println(t.name, "play") }
func (t *tween) Pause()                 { fmt.Println(t.name, "pause") }
func (t *tween) PlayForward()           {}
func (t *tween) PlayBackward()          {}
func (t *tween) Kill(complete bool)     { fmt.Println(t.name, "kill", complete) }
func (t *tween) Complete(callback bool) { fmt.Println(t.name, "complete", callback) }
func (t *tween) SetTimeScale(_ float64) {}
func (t *tween) SetAutoKill(_ bool)     {}

func Example() {
	group := composite.Must(composite.New(
		composite.WithCancelPolicy(composite.PolicyComplete),
	))

	fade := composite.Link(&tween{name: "fade"}, group)
	composite.Link(&tween{name: "slide"}, group)

	group.Play()

	// Removing a tween applies the cancel policy.
	group.Remove(fade)

	// Disposing always kills what is left.
	group.Dispose()

	// Output:
	// fade play
	// slide play
	// fade complete false
	// slide kill false
}

func ExampleScope() {
	scope := composite.NewScope()

	camera := composite.Must(scope.NewGroup("camera", nil))
	hud := composite.Must(scope.NewGroup("hud", []*composite.Group{camera}))

	camera.Add(&tween{name: "shake"})
	hud.Add(&tween{name: "healthbar"})

	// hud depends on camera, so it is disposed first.
	scope.Dispose()

	// Output:
	// healthbar kill false
	// shake kill false
}

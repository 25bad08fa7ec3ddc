package composite

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// shrinkThreshold is the backing storage capacity above which Remove compacts the storage once less than half of it
// is in use.
const shrinkThreshold = 64

// Group is a thread-safe collection of handles that are played, paused and cancelled together.
// Create one using New, FromSlice, FromSeq or Scope.NewGroup.
//
// Every handle stored in a Group leaves it exactly once: through Remove or Clear, which apply the cancel policy of the
// group, or through Dispose, which kills it. Calls on handles are never made while the group lock is held, so handle
// callbacks may safely call back into the group.
type Group struct {
	options *groupOptions

	id   uuid.UUID
	name string
	// label is the metrics label, names given by uuid would grow the series without bound.
	label string

	lock sync.Mutex
	// members holds nil tombstones for removed handles until the storage is compacted.
	members  []Handle
	count    int
	disposed bool
}

func newGroup(members []Handle, options *groupOptions) *Group {
	id := uuid.New()
	name, label := options.name, options.name
	if name == "" {
		name, label = id.String(), unnamedLabel
	}

	g := &Group{
		options: options,
		id:      id,
		name:    name,
		label:   label,
		members: members,
		count:   len(members),
	}
	options.metrics.handlesAdded(label, g.count)
	options.metrics.addLive(label, g.count)
	return g
}

// New creates an empty group.
//
// Options can be provided to customize behavior:
//   - WithCancelPolicy: Policy applied to removed and cleared handles
//   - WithCapacity: Pre-size the backing storage
//   - WithName: Name used in logs and metrics
//   - WithLogger: Logger for group events
//   - WithMetrics: Prometheus metrics to report to
//
// Returns an error wrapping ErrInvalidArgument if the capacity is negative or the cancel policy is unknown.
func New(opts ...Option) (*Group, error) {
	options, err := buildGroupOptions(opts...)
	if err != nil {
		return nil, err
	}
	return newGroup(make([]Handle, 0, options.capacity), options), nil
}

// FromSlice creates a group holding a copy of handles, in order. Duplicates are kept.
// Returns an error wrapping ErrInvalidArgument if handles is nil.
func FromSlice(handles []Handle, opts ...Option) (*Group, error) {
	if handles == nil {
		return nil, fmt.Errorf("%w: handles must not be nil", ErrInvalidArgument)
	}

	options, err := buildGroupOptions(opts...)
	if err != nil {
		return nil, err
	}

	members := make([]Handle, len(handles), max(len(handles), options.capacity))
	copy(members, handles)
	return newGroup(members, options), nil
}

// FromSeq creates a group holding the handles yielded by seq, in order. Duplicates are kept.
// The sequence is drained once before FromSeq returns.
// Returns an error wrapping ErrInvalidArgument if seq is nil.
func FromSeq(seq iter.Seq[Handle], opts ...Option) (*Group, error) {
	if seq == nil {
		return nil, fmt.Errorf("%w: handle sequence must not be nil", ErrInvalidArgument)
	}

	options, err := buildGroupOptions(opts...)
	if err != nil {
		return nil, err
	}

	members := make([]Handle, 0, options.capacity)
	for h := range seq {
		members = append(members, h)
	}
	return newGroup(members, options), nil
}

// ID returns the unique ID of the group.
func (g *Group) ID() uuid.UUID {
	return g.id
}

// Name returns the name of the group, this is the group ID unless WithName was used.
func (g *Group) Name() string {
	return g.name
}

// Policy returns the cancel policy of the group.
func (g *Group) Policy() CancelPolicy {
	return g.options.policy
}

// Count returns the number of handles in the group.
func (g *Group) Count() int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.count
}

// IsDisposed reports whether Dispose has been called.
func (g *Group) IsDisposed() bool {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.disposed
}

// Add adds h to the group. A nil handle is ignored.
// If the group is already disposed h is not stored, instead the cancel policy is applied to it immediately.
func (g *Group) Add(h Handle) {
	if h == nil {
		return
	}

	g.lock.Lock()
	disposed := g.disposed
	if !disposed {
		g.members = append(g.members, h)
		g.count++
		g.options.metrics.addLive(g.label, 1)
	}
	g.lock.Unlock()

	if disposed {
		// The series of the group are gone, late handles are not counted.
		g.options.logger.Info(fmt.Sprintf("Handle added to disposed group \"%s\", applying cancel policy %s", g.name, g.options.policy))
		g.applyPolicy(h)
		return
	}
	g.options.metrics.handlesAdded(g.label, 1)
}

// Remove removes the first occurrence of h from the group and applies the cancel policy to it.
// It returns false, without side effects, if h is nil, not part of the group, or the group is disposed.
func (g *Group) Remove(h Handle) bool {
	if h == nil || !comparableHandle(h) {
		return false
	}

	removed := false

	g.lock.Lock()
	if !g.disposed {
		if i := slices.Index(g.members, h); i >= 0 {
			removed = true
			g.members[i] = nil
			g.count--

			if cap(g.members) > shrinkThreshold && g.count < cap(g.members)/2 {
				g.compact()
			}
			g.options.metrics.addLive(g.label, -1)
		}
	}
	g.lock.Unlock()

	if removed {
		g.cancel(h)
	}
	return removed
}

// compact moves all live handles to new storage of half the current capacity, dropping tombstones.
// Must be called with the lock held.
func (g *Group) compact() {
	old := g.members
	g.members = make([]Handle, 0, cap(old)/2)
	for _, h := range old {
		if h != nil {
			g.members = append(g.members, h)
		}
	}
}

// Clear removes all handles from the group and applies the cancel policy to each of them, in the order they were
// added. Clear does not dispose the group, handles can still be added afterward.
func (g *Group) Clear() {
	g.lock.Lock()
	snapshot := g.members
	g.members = make([]Handle, 0, g.options.capacity)
	g.options.metrics.addLive(g.label, -g.count)
	g.count = 0
	g.lock.Unlock()

	for _, h := range snapshot {
		if h != nil {
			g.cancel(h)
		}
	}
}

// Dispose kills every handle in the group and marks the group as disposed. Handles are always killed without their
// completion callback, the cancel policy of the group is not used.
// Handles added after Dispose are not stored, the cancel policy is applied to them instead.
// Multiple and concurrent calls to Dispose are supported, only the first call kills handles.
func (g *Group) Dispose() {
	g.lock.Lock()
	if g.disposed {
		g.lock.Unlock()
		return
	}
	g.disposed = true
	snapshot := g.members
	g.options.metrics.addLive(g.label, -g.count)
	g.members = nil
	g.count = 0
	g.lock.Unlock()

	handles := compacted(snapshot)
	g.options.logger.Info(fmt.Sprintf("Disposing group \"%s\", killing %d handle(s)", g.name, len(handles)))

	for _, h := range handles {
		g.options.metrics.handlesCancelled(g.label, disposeLabel)
		h.Kill(false)
	}
	g.options.metrics.forget(g.label)
}

// Close disposes the group. It always returns nil.
func (g *Group) Close() error {
	g.Dispose()
	return nil
}

// Contains reports whether h is part of the group.
func (g *Group) Contains(h Handle) bool {
	if h == nil || !comparableHandle(h) {
		return false
	}

	g.lock.Lock()
	defer g.lock.Unlock()
	return slices.Contains(g.members, h)
}

// CopyTo copies the handles of the group, in order, into dst starting at offset. Copying stops when dst is full.
// It returns the number of handles copied.
// Returns an error wrapping ErrInvalidArgument if dst is nil or offset is not a valid index of dst.
func (g *Group) CopyTo(dst []Handle, offset int) (int, error) {
	if dst == nil {
		return 0, fmt.Errorf("%w: destination must not be nil", ErrInvalidArgument)
	}
	if offset < 0 || offset >= len(dst) {
		return 0, fmt.Errorf("%w: offset %d out of range [0, %d)", ErrInvalidArgument, offset, len(dst))
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	n := 0
	for _, h := range g.members {
		if h == nil {
			continue
		}
		if offset+n >= len(dst) {
			break
		}
		dst[offset+n] = h
		n++
	}
	return n, nil
}

// Handles returns a snapshot of the handles in the group, in order.
func (g *Group) Handles() []Handle {
	g.lock.Lock()
	defer g.lock.Unlock()
	return compacted(g.members)
}

// All returns an iterator over the handles in the group. Each iteration works on a snapshot taken when it starts, the
// group can be modified while iterating.
func (g *Group) All() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for _, h := range g.Handles() {
			if !yield(h) {
				return
			}
		}
	}
}

// Play plays every handle in the group. It does nothing if the group is disposed.
func (g *Group) Play() *Group {
	g.each(Handle.Play)
	return g
}

// Pause pauses every handle in the group. It does nothing if the group is disposed.
func (g *Group) Pause() *Group {
	g.each(Handle.Pause)
	return g
}

// PlayForward plays every handle in the group forward. It does nothing if the group is disposed.
func (g *Group) PlayForward() {
	g.each(Handle.PlayForward)
}

// PlayBackward plays every handle in the group backward. It does nothing if the group is disposed.
func (g *Group) PlayBackward() {
	g.each(Handle.PlayBackward)
}

// SetAutoKill sets whether handles are killed by the engine once they complete. It does nothing if the group is
// disposed.
func (g *Group) SetAutoKill(autoKill bool) *Group {
	g.each(func(h Handle) {
		h.SetAutoKill(autoKill)
	})
	return g
}

// SetTimeScale sets the time scale of every handle in the group. It does nothing if the group is disposed.
func (g *Group) SetTimeScale(scale float64) {
	g.each(func(h Handle) {
		h.SetTimeScale(scale)
	})
}

// each calls fn for a snapshot of the live handles, outside the lock.
func (g *Group) each(fn func(Handle)) {
	g.lock.Lock()
	if g.disposed {
		g.lock.Unlock()
		return
	}
	handles := compacted(g.members)
	g.lock.Unlock()

	for _, h := range handles {
		fn(h)
	}
}

// cancel applies the cancel policy of the group to h and counts it. Must be called without the lock held.
func (g *Group) cancel(h Handle) {
	g.options.metrics.handlesCancelled(g.label, g.options.policy.String())
	g.applyPolicy(h)
}

func (g *Group) applyPolicy(h Handle) {
	policy := g.options.policy
	if !policy.valid() {
		g.options.logger.Error(fmt.Sprintf("Group \"%s\" has invalid cancel policy %d", g.name, int(policy)))
	}
	policy.apply(h)
}

// comparableHandle reports whether h can be looked up with ==. Handles of other dynamic types are still stored,
// played and killed, but can never be found by Remove or Contains.
func comparableHandle(h Handle) bool {
	return reflect.TypeOf(h).Comparable()
}

// compacted returns a copy of members without tombstones.
func compacted(members []Handle) []Handle {
	out := make([]Handle, 0, len(members))
	for _, h := range members {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

package composite

import (
	"fmt"
	"sync"
)

// Scope owns a set of named groups and disposes them together, in dependency order.
// A group is only disposed once every group that depends on it has been disposed, so handles in a dependent group
// are killed while the handles they may rely on are still alive.
// Create a new instance using NewScope().
type Scope struct {
	options *scopeOptions

	disposeOnce sync.Once

	groupsLock sync.Mutex
	isDisposed bool
	groups     []*Group
	byName     map[string]*Group
	deps       map[*Group][]*Group
}

// NewScope creates a new scope.
//
// Options can be provided to customize behavior:
//   - WithScopeLogger: Logger for the scope and its groups
//   - WithScopeMetrics: Metrics for the groups of the scope
//
// Example:
//
//	scope := composite.NewScope(
//	    composite.WithScopeLogger(composite.NewStdLogger(log.Default())),
//	)
//	defer scope.Dispose()
//
//	camera := composite.Must(scope.NewGroup("camera", nil))
//	hud := composite.Must(scope.NewGroup("hud", []*composite.Group{camera},
//	    composite.WithCancelPolicy(composite.PolicyComplete),
//	))
func NewScope(opts ...ScopeOption) *Scope {
	return &Scope{
		options: buildScopeOptions(opts...),
		byName:  make(map[string]*Group),
		deps:    make(map[*Group][]*Group),
	}
}

// NewGroup creates a new group with the given name and dependencies.
// Dependencies define the dispose order: a group is not disposed until all groups that depend on it are disposed.
//
// The name must be non-empty and unique within this scope.
// Dependencies must belong to the same scope.
//
// Returns an error if:
//   - The scope is already disposed (ErrAlreadyDisposed)
//   - A dependency belongs to a different scope (ErrInvalidDependency)
//   - The same dependency is listed multiple times (ErrInvalidDependency)
//   - The name is empty or already taken, or an option is invalid (ErrInvalidArgument)
func (s *Scope) NewGroup(name string, dependencies []*Group, opts ...Option) (*Group, error) {
	s.groupsLock.Lock()
	defer s.groupsLock.Unlock()

	if s.isDisposed {
		return nil, ErrAlreadyDisposed
	}

	if name == "" {
		return nil, fmt.Errorf("%w: group name must not be empty", ErrInvalidArgument)
	}
	if _, ok := s.byName[name]; ok {
		return nil, fmt.Errorf("%w: group \"%s\" already exists", ErrInvalidArgument, name)
	}

	// Groups can only depend on groups that already exist, so the dependency graph can not contain cycles.
	knownDeps := make(map[*Group]struct{})
	for _, dep := range dependencies {
		if dep == nil {
			return nil, fmt.Errorf("%w: nil group in dependency list", ErrInvalidDependency)
		}
		if _, ok := s.deps[dep]; !ok {
			return nil, fmt.Errorf("%w: dependency \"%s\" is not part of this scope", ErrInvalidDependency, dep.Name())
		}

		if _, ok := knownDeps[dep]; ok {
			return nil, fmt.Errorf("%w: duplicate group \"%s\" in dependency list", ErrInvalidDependency, dep.Name())
		}
		knownDeps[dep] = struct{}{}
	}

	groupOpts := make([]Option, 0, len(opts)+3)
	groupOpts = append(groupOpts, WithLogger(s.options.logger), WithMetrics(s.options.metrics))
	groupOpts = append(groupOpts, opts...)
	groupOpts = append(groupOpts, WithName(name))

	g, err := New(groupOpts...)
	if err != nil {
		return nil, err
	}

	s.groups = append(s.groups, g)
	s.byName[name] = g
	s.deps[g] = append([]*Group(nil), dependencies...)
	return g, nil
}

// Group returns the group with the given name.
func (s *Scope) Group(name string) (*Group, bool) {
	s.groupsLock.Lock()
	defer s.groupsLock.Unlock()

	g, ok := s.byName[name]
	return g, ok
}

// Groups returns all groups of the scope in the order they were created.
func (s *Scope) Groups() []*Group {
	s.groupsLock.Lock()
	defer s.groupsLock.Unlock()

	return append([]*Group(nil), s.groups...)
}

// Dispose disposes all groups in dependency order. Groups that were already disposed directly are skipped.
// After Dispose, NewGroup returns ErrAlreadyDisposed.
// Multiple calls to Dispose are supported, concurrent callers return once the groups are disposed.
func (s *Scope) Dispose() {
	s.disposeOnce.Do(s.disposeGroups)
}

// Close disposes the scope. It always returns nil.
func (s *Scope) Close() error {
	s.Dispose()
	return nil
}

func (s *Scope) disposeGroups() {
	s.options.logger.Info("Disposing groups...")

	s.groupsLock.Lock()
	s.isDisposed = true // Disable adding more groups, the group table is read-only from here on.
	s.groupsLock.Unlock()

	// Count, for every group, how many groups depend on it.
	inDegree := make(map[*Group]int, len(s.groups))
	for _, group := range s.groups {
		for _, dependency := range s.deps[group] {
			inDegree[dependency]++
		}
	}

	// Start with the groups no other group depends on, in creation order.
	queue := make([]*Group, 0, len(s.groups))
	for _, group := range s.groups {
		if inDegree[group] == 0 {
			queue = append(queue, group)
		}
	}

	disposed := 0
	for len(queue) > 0 {
		group := queue[0]
		queue = queue[1:]

		s.options.logger.Info(fmt.Sprintf("Disposing group \"%s\"", group.Name()))
		group.Dispose()
		disposed++

		for _, dependency := range s.deps[group] {
			inDegree[dependency]--
			if inDegree[dependency] == 0 {
				queue = append(queue, dependency)
			}
		}
	}

	// Sanity check, every group should have been reached.
	if disposed != len(s.groups) {
		for group, edgeCount := range inDegree {
			if edgeCount != 0 {
				s.options.logger.Error(fmt.Sprintf("Dispose error, group \"%s\" still has dependents (%d) after the whole graph has been disposed", group.Name(), edgeCount))
			}
		}
	}

	s.options.logger.Info("All groups disposed")
}

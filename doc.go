// Package composite groups animation handles ("tweens") owned by an external animation engine so they can be
// played, paused and cancelled together. Disposing a group guarantees that every member handle is terminated
// exactly once.
package composite

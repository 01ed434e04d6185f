// Package bigmap implements the append-only indexed arena that backs the
// AVL liquidation queue: a mapping from a monotonically increasing 64-bit
// handle to a node value, addressed through a Get.../Put... pair the way
// an account-keyed store is addressed, generalised here from address-keyed
// lookup to handle-keyed allocation.
package bigmap

import "errors"

// ErrDanglingHandle is returned by Get when the handle has never been
// allocated or has already been deleted.
var ErrDanglingHandle = errors.New("bigmap: dangling handle")

// Handle addresses a single node in an Arena. The zero Handle, NoHandle, is
// never allocated and stands for "no node" wherever a branch or a root may
// be absent.
type Handle uint64

// NoHandle is the sentinel meaning "no node referenced here".
const NoHandle Handle = 0

// Arena is an append-only store of N-typed nodes, keyed by Handle. Handles
// are allocated strictly increasing; deleting a handle frees its slot but
// the handle itself is never reused.
type Arena[N any] struct {
	nodes map[Handle]N
	next  Handle
}

// New returns an empty arena. The first handle New.Put produces is 1, so
// NoHandle (0) never collides with a live node.
func New[N any]() *Arena[N] {
	return &Arena[N]{nodes: make(map[Handle]N), next: 1}
}

// Put allocates a fresh handle for v and returns it.
func (a *Arena[N]) Put(v N) Handle {
	h := a.next
	a.nodes[h] = v
	a.next++
	return h
}

// Get returns the node stored at h, or ErrDanglingHandle if h is absent.
func (a *Arena[N]) Get(h Handle) (N, error) {
	v, ok := a.nodes[h]
	if !ok {
		var zero N
		return zero, ErrDanglingHandle
	}
	return v, nil
}

// MustGet is Get but panics on a dangling handle; callers use it once an
// operation has already established h is live (e.g. a handle just returned
// by Put, or read from a node this same call loaded).
func (a *Arena[N]) MustGet(h Handle) N {
	v, err := a.Get(h)
	if err != nil {
		panic(err)
	}
	return v
}

// Set overwrites the node stored at h. It panics if h is not live, matching
// Update's precondition that the caller never blind-writes a fresh handle.
func (a *Arena[N]) Set(h Handle, v N) {
	if _, ok := a.nodes[h]; !ok {
		panic(ErrDanglingHandle)
	}
	a.nodes[h] = v
}

// Update reads the node at h, applies f, and writes the result back.
func (a *Arena[N]) Update(h Handle, f func(N) N) {
	a.Set(h, f(a.MustGet(h)))
}

// Delete frees h's slot. Deleting an absent handle is a no-op, matching the
// idempotent delete semantics the AVL engine's splice-out paths rely on.
func (a *Arena[N]) Delete(h Handle) {
	delete(a.nodes, h)
}

// IsEmpty reports whether the arena holds no live nodes.
func (a *Arena[N]) IsEmpty() bool { return len(a.nodes) == 0 }

// Len returns the number of live nodes.
func (a *Arena[N]) Len() int { return len(a.nodes) }

// Handles returns every currently live handle, in no particular order. It
// exists for AssertNoDanglingHandles, which compares this set against the
// handles reachable from a declared root set.
func (a *Arena[N]) Handles() []Handle {
	out := make([]Handle, 0, len(a.nodes))
	for h := range a.nodes {
		out = append(out, h)
	}
	return out
}

package avl

// rotateRight promotes bHandle's left child over it. bHandle must be a
// branch whose left child is itself a branch (guaranteed whenever this is
// called, since a height imbalance of 2 on the left can only arise from a
// left child taller than the right by at least 2, and a leaf's height is
// always 1). Returns the new subtree root.
func rotateRight[P any](arena *Arena[P], bHandle Handle) Handle {
	b := arena.MustGet(bHandle)
	grandParent := b.parent
	lHandle := b.leftHandle
	l := arena.MustGet(lHandle)
	lRight := l.rightHandle

	setChildLeft(arena, bHandle, lRight)
	setChildRight(arena, lHandle, bHandle)
	setParent(arena, lHandle, grandParent)
	return lHandle
}

// rotateLeft is rotateRight's mirror image.
func rotateLeft[P any](arena *Arena[P], bHandle Handle) Handle {
	b := arena.MustGet(bHandle)
	grandParent := b.parent
	rHandle := b.rightHandle
	r := arena.MustGet(rHandle)
	rLeft := r.leftHandle

	setChildRight(arena, bHandle, rLeft)
	setChildLeft(arena, rHandle, bHandle)
	setParent(arena, rHandle, grandParent)
	return rHandle
}

// balance restores the AVL property at h, whose left/right height
// imbalance is assumed to be at most 2 in absolute value (true after any
// single Add/Del/Join step). It returns the (possibly different) handle of
// this subtree's root after balancing.
func balance[P any](arena *Arena[P], h Handle) Handle {
	b := arena.MustGet(h)
	diff := b.leftHeight - b.rightHeight

	switch {
	case diff == 2:
		l := arena.MustGet(b.leftHandle)
		if l.leftHeight >= l.rightHeight {
			return rotateRight(arena, h)
		}
		rotated := rotateLeft(arena, b.leftHandle)
		setChildLeft(arena, h, rotated)
		return rotateRight(arena, h)
	case diff == -2:
		r := arena.MustGet(b.rightHandle)
		if r.rightHeight >= r.leftHeight {
			return rotateLeft(arena, h)
		}
		rotated := rotateRight(arena, b.rightHandle)
		setChildRight(arena, h, rotated)
		return rotateLeft(arena, h)
	default:
		return h
	}
}

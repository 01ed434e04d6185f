package avl

import "fmt"

// AssertInvariants walks the tree rooted at root and panics if any
// structural invariant is violated: AVL balance, correct cached
// height/collateral aggregates, correct parent back-links, and strictly
// increasing ids in-order. It is debug-only tooling, exercised by tests
// after every mutating operation, never called from a hot path.
func AssertInvariants[P any](arena *Arena[P], root Handle) {
	if root == Empty {
		return
	}
	n := arena.MustGet(root)
	if n.parent != Empty {
		panic("avl: root has a non-empty parent")
	}
	walkInvariants(arena, root)
}

// walkInvariants returns this subtree's height and min/max id, after
// verifying every invariant at and below h.
func walkInvariants[P any](arena *Arena[P], h Handle) (ht int, lo, hi int64) {
	n := arena.MustGet(h)
	if n.kind == leafKind {
		return 1, n.item.ID, n.item.ID
	}

	leftHt, leftLo, leftHi := walkInvariants(arena, n.leftHandle)
	rightHt, rightLo, rightHi := walkInvariants(arena, n.rightHandle)

	if leftHt > rightHt+1 || rightHt > leftHt+1 {
		panic(fmt.Sprintf("avl: branch %d out of balance: left height %d, right height %d", h, leftHt, rightHt))
	}
	if n.leftHeight != leftHt {
		panic(fmt.Sprintf("avl: branch %d cached left height %d != actual %d", h, n.leftHeight, leftHt))
	}
	if n.rightHeight != rightHt {
		panic(fmt.Sprintf("avl: branch %d cached right height %d != actual %d", h, n.rightHeight, rightHt))
	}
	actualLeftCollateral := collateral(arena, n.leftHandle)
	if n.leftCollateral.Cmp(actualLeftCollateral) != 0 {
		panic(fmt.Sprintf("avl: branch %d cached left collateral mismatches actual", h))
	}
	actualRightCollateral := collateral(arena, n.rightHandle)
	if n.rightCollateral.Cmp(actualRightCollateral) != 0 {
		panic(fmt.Sprintf("avl: branch %d cached right collateral mismatches actual", h))
	}

	leftChild := arena.MustGet(n.leftHandle)
	if leftChild.parent != h {
		panic(fmt.Sprintf("avl: branch %d's left child has wrong parent", h))
	}
	rightChild := arena.MustGet(n.rightHandle)
	if rightChild.parent != h {
		panic(fmt.Sprintf("avl: branch %d's right child has wrong parent", h))
	}

	if leftHi >= n.key {
		panic(fmt.Sprintf("avl: branch %d key %d not greater than left subtree max id %d", h, n.key, leftHi))
	}
	if rightLo != n.key {
		panic(fmt.Sprintf("avl: branch %d key %d does not match right subtree min id %d", h, n.key, rightLo))
	}

	height := leftHt + 1
	if rightHt > leftHt {
		height = rightHt + 1
	}
	return height, leftLo, rightHi
}

// AssertNoDanglingHandles panics unless the set of handles reachable from
// roots equals exactly the arena's live handle set: no node may be
// allocated in the arena but unreachable from any declared root.
func AssertNoDanglingHandles[P any](arena *Arena[P], roots []Handle) {
	reachable := make(map[Handle]bool)
	var walk func(Handle)
	walk = func(h Handle) {
		if h == Empty || reachable[h] {
			return
		}
		reachable[h] = true
		n := arena.MustGet(h)
		if n.kind == branchKind {
			walk(n.leftHandle)
			walk(n.rightHandle)
		}
	}
	for _, r := range roots {
		walk(r)
	}

	live := arena.Handles()
	if len(live) != len(reachable) {
		panic(fmt.Sprintf("avl: arena holds %d live nodes but only %d are reachable from the declared roots", len(live), len(reachable)))
	}
	for _, h := range live {
		if !reachable[h] {
			panic(fmt.Sprintf("avl: handle %d is live but unreachable from the declared roots", h))
		}
	}
}

package avl

import "stablekit/numeric/money"

// Add inserts it into the tree rooted at root, overwriting the existing
// leaf's payload and collateral if an item with the same id is already
// present. Returns the new root handle.
func Add[P any](arena *Arena[P], root Handle, it Item[P]) Handle {
	newRoot := addRec(arena, root, it)
	setParent(arena, newRoot, Empty)
	return newRoot
}

func addRec[P any](arena *Arena[P], h Handle, it Item[P]) Handle {
	if h == Empty {
		return arena.Put(newLeaf(it))
	}
	n := arena.MustGet(h)
	if n.kind == leafKind {
		if n.item.ID == it.ID {
			n.item = it
			arena.Set(h, n)
			return h
		}
		newLeafHandle := arena.Put(newLeaf(it))
		var leftHandle, rightHandle Handle
		if it.ID < n.item.ID {
			leftHandle, rightHandle = newLeafHandle, h
		} else {
			leftHandle, rightHandle = h, newLeafHandle
		}
		branchHandle := arena.Put(newBranch[P]())
		setChildLeft(arena, branchHandle, leftHandle)
		setChildRight(arena, branchHandle, rightHandle)
		return branchHandle
	}

	if it.ID < n.key {
		newLeft := addRec(arena, n.leftHandle, it)
		setChildLeft(arena, h, newLeft)
	} else {
		newRight := addRec(arena, n.rightHandle, it)
		setChildRight(arena, h, newRight)
	}
	return balance(arena, h)
}

// Del removes the item with id from the tree rooted at root, if present.
// Returns the new root, or Empty if the tree becomes empty.
func Del[P any](arena *Arena[P], root Handle, id int64) Handle {
	newRoot := delRec(arena, root, id)
	setParent(arena, newRoot, Empty)
	return newRoot
}

func delRec[P any](arena *Arena[P], h Handle, id int64) Handle {
	if h == Empty {
		return Empty
	}
	n := arena.MustGet(h)
	if n.kind == leafKind {
		if n.item.ID != id {
			return h
		}
		arena.Delete(h)
		return Empty
	}

	if id < n.key {
		newLeft := delRec(arena, n.leftHandle, id)
		if newLeft == Empty {
			right := n.rightHandle
			arena.Delete(h)
			setParent(arena, right, n.parent)
			return right
		}
		setChildLeft(arena, h, newLeft)
		return balance(arena, h)
	}

	newRight := delRec(arena, n.rightHandle, id)
	if newRight == Empty {
		left := n.leftHandle
		arena.Delete(h)
		setParent(arena, left, n.parent)
		return left
	}
	setChildRight(arena, h, newRight)
	return balance(arena, h)
}

// Join concatenates left and right, which must satisfy max(left).id <
// min(right).id, into a single tree. Either side may be Empty.
func Join[P any](arena *Arena[P], left, right Handle) Handle {
	result := joinRec(arena, left, right)
	setParent(arena, result, Empty)
	return result
}

func joinRec[P any](arena *Arena[P], left, right Handle) Handle {
	if left == Empty {
		return right
	}
	if right == Empty {
		return left
	}

	diff := height(arena, left) - height(arena, right)
	switch {
	case diff >= -1 && diff <= 1:
		branchHandle := arena.Put(newBranch[P]())
		setChildLeft(arena, branchHandle, left)
		setChildRight(arena, branchHandle, right)
		return balance(arena, branchHandle)
	case diff > 1:
		l := arena.MustGet(left)
		newInner := joinRec(arena, l.rightHandle, right)
		setChildRight(arena, left, newInner)
		return balance(arena, left)
	default:
		r := arena.MustGet(right)
		newInner := joinRec(arena, left, r.leftHandle)
		setChildLeft(arena, right, newInner)
		return balance(arena, right)
	}
}

// Split partitions the tree rooted at root into the longest in-order prefix
// whose total collateral is <= limit, and the remainder. Either half may be
// Empty.
func Split[P any](arena *Arena[P], root Handle, limit money.Tez) (Handle, Handle) {
	left, right := splitRec(arena, root, limit)
	setParent(arena, left, Empty)
	setParent(arena, right, Empty)
	return left, right
}

func splitRec[P any](arena *Arena[P], h Handle, limit money.Tez) (Handle, Handle) {
	if h == Empty {
		return Empty, Empty
	}
	n := arena.MustGet(h)
	if n.kind == leafKind {
		if n.item.Collateral.Cmp(limit) <= 0 {
			return h, Empty
		}
		return Empty, h
	}

	total := n.leftCollateral.Add(n.rightCollateral)
	if total.Cmp(limit) <= 0 {
		return h, Empty
	}
	if n.leftCollateral.Cmp(limit) == 0 {
		leftChild, rightChild := n.leftHandle, n.rightHandle
		arena.Delete(h)
		setParent(arena, leftChild, Empty)
		setParent(arena, rightChild, Empty)
		return leftChild, rightChild
	}
	if limit.Cmp(n.leftCollateral) < 0 {
		leftA, leftB := splitRec(arena, n.leftHandle, limit)
		rightChild := n.rightHandle
		arena.Delete(h)
		joined := Join[P](arena, leftB, rightChild)
		return leftA, joined
	}

	remaining := limit.Sub(n.leftCollateral)
	rightA, rightB := splitRec(arena, n.rightHandle, remaining)
	leftChild := n.leftHandle
	arena.Delete(h)
	if rightA != Empty {
		joined := Join[P](arena, leftChild, rightA)
		return joined, rightB
	}
	setParent(arena, leftChild, Empty)
	return leftChild, rightB
}

// Min returns the item with the smallest id in the tree rooted at root.
func Min[P any](arena *Arena[P], root Handle) (Item[P], bool) {
	return minItem(arena, root)
}

// Max returns the item with the largest id in the tree rooted at root.
func Max[P any](arena *Arena[P], root Handle) (Item[P], bool) {
	return maxItem(arena, root)
}

func minItem[P any](arena *Arena[P], h Handle) (Item[P], bool) {
	if h == Empty {
		var zero Item[P]
		return zero, false
	}
	n := arena.MustGet(h)
	for n.kind == branchKind {
		h = n.leftHandle
		n = arena.MustGet(h)
	}
	return n.item, true
}

func maxItem[P any](arena *Arena[P], h Handle) (Item[P], bool) {
	if h == Empty {
		var zero Item[P]
		return zero, false
	}
	n := arena.MustGet(h)
	for n.kind == branchKind {
		h = n.rightHandle
		n = arena.MustGet(h)
	}
	return n.item, true
}

// ToList returns every item in the tree rooted at root, in ascending id
// order.
func ToList[P any](arena *Arena[P], root Handle) []Item[P] {
	var out []Item[P]
	var walk func(Handle)
	walk = func(h Handle) {
		if h == Empty {
			return
		}
		n := arena.MustGet(h)
		if n.kind == leafKind {
			out = append(out, n.item)
			return
		}
		walk(n.leftHandle)
		walk(n.rightHandle)
	}
	walk(root)
	return out
}

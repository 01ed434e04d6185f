package avl_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"stablekit/avl"
	"stablekit/numeric/fixedpoint"
	"stablekit/numeric/money"
)

func tez(n int64) money.Tez {
	return money.TezFromFixedPoint(fixedpoint.FromInt64(n))
}

func item(id int64) avl.Item[string] {
	return avl.Item[string]{ID: id, Payload: "payload", Collateral: tez(1)}
}

func ids(items []avl.Item[string]) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestAddToListSortedAndDeduped(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle

	input := []int64{5, 3, 8, 1, 9, 3, 2, 7}
	for _, id := range input {
		root = avl.Add(arena, root, item(id))
		avl.AssertInvariants(arena, root)
	}
	avl.AssertNoDanglingHandles(arena, []avl.Handle{root})

	got := ids(avl.ToList(arena, root))
	want := []int64{1, 2, 3, 5, 7, 8, 9}
	require.Equal(t, want, got, "must be sorted and deduplicated on repeated id")
}

func TestAddOverwritesPayloadOnEqualID(t *testing.T) {
	arena := avl.NewArena[string]()
	root := avl.Add(arena, avl.Empty, avl.Item[string]{ID: 1, Payload: "first", Collateral: tez(1)})
	root = avl.Add(arena, root, avl.Item[string]{ID: 1, Payload: "second", Collateral: tez(2)})
	avl.AssertInvariants(arena, root)

	list := avl.ToList(arena, root)
	require.Len(t, list, 1)
	require.Equal(t, "second", list[0].Payload)
	require.Equal(t, 0, list[0].Collateral.Cmp(tez(2)))
}

func TestDelRoundTrip(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	input := []int64{10, 20, 30, 40, 50, 60, 70}
	for _, id := range input {
		root = avl.Add(arena, root, item(id))
	}
	avl.AssertInvariants(arena, root)

	root = avl.Del(arena, root, 30)
	avl.AssertInvariants(arena, root)
	avl.AssertNoDanglingHandles(arena, []avl.Handle{root})

	got := ids(avl.ToList(arena, root))
	want := []int64{10, 20, 40, 50, 60, 70}
	require.Equal(t, want, got)
}

func TestDelAllEmptiesTree(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	input := []int64{1, 2, 3, 4, 5}
	for _, id := range input {
		root = avl.Add(arena, root, item(id))
	}
	for _, id := range input {
		root = avl.Del(arena, root, id)
		if root != avl.Empty {
			avl.AssertInvariants(arena, root)
		}
	}
	require.Equal(t, avl.Empty, root)
	require.True(t, arena.IsEmpty())
}

func TestDelMissingIsNoOp(t *testing.T) {
	arena := avl.NewArena[string]()
	root := avl.Add(arena, avl.Empty, item(1))
	before := ids(avl.ToList(arena, root))

	root = avl.Del(arena, root, 999)
	after := ids(avl.ToList(arena, root))
	require.Equal(t, before, after)
}

func TestJoinRoundTrip(t *testing.T) {
	arena := avl.NewArena[string]()
	var left, right avl.Handle
	for _, id := range []int64{1, 2, 3, 4} {
		left = avl.Add(arena, left, item(id))
	}
	for _, id := range []int64{10, 11, 12, 13, 14} {
		right = avl.Add(arena, right, item(id))
	}
	avl.AssertInvariants(arena, left)
	avl.AssertInvariants(arena, right)

	joined := avl.Join(arena, left, right)
	avl.AssertInvariants(arena, joined)
	avl.AssertNoDanglingHandles(arena, []avl.Handle{joined})

	got := ids(avl.ToList(arena, joined))
	want := []int64{1, 2, 3, 4, 10, 11, 12, 13, 14}
	require.Equal(t, want, got)
}

func TestJoinWithEmptySide(t *testing.T) {
	arena := avl.NewArena[string]()
	root := avl.Add(arena, avl.Empty, item(1))
	root = avl.Add(arena, root, item(2))

	joined := avl.Join(arena, root, avl.Empty)
	require.Equal(t, root, joined)

	joined2 := avl.Join(arena, avl.Empty, root)
	require.Equal(t, root, joined2)
}

func TestSplitByCollateralPrefix(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	// ids 1..6, each with collateral == its id, total 21.
	for id := int64(1); id <= 6; id++ {
		root = avl.Add(arena, root, avl.Item[string]{ID: id, Payload: "x", Collateral: tez(id)})
	}
	avl.AssertInvariants(arena, root)

	left, right := avl.Split(arena, root, tez(6))
	if left != avl.Empty {
		avl.AssertInvariants(arena, left)
	}
	if right != avl.Empty {
		avl.AssertInvariants(arena, right)
	}
	avl.AssertNoDanglingHandles(arena, []avl.Handle{left, right})

	leftIDs := ids(avl.ToList(arena, left))
	rightIDs := ids(avl.ToList(arena, right))

	leftTotal := tez(0)
	for _, id := range leftIDs {
		leftTotal = leftTotal.Add(tez(id))
	}
	require.True(t, leftTotal.Cmp(tez(6)) <= 0, "left prefix must not exceed the limit")

	all := append(append([]int64{}, leftIDs...), rightIDs...)
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, all)

	if len(rightIDs) > 0 && len(leftIDs) > 0 {
		require.Less(t, leftIDs[len(leftIDs)-1], rightIDs[0])
	}
}

func TestSplitEmptyTree(t *testing.T) {
	arena := avl.NewArena[string]()
	left, right := avl.Split[string](arena, avl.Empty, tez(10))
	require.Equal(t, avl.Empty, left)
	require.Equal(t, avl.Empty, right)
}

func TestSplitLimitExceedsTotal(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	for id := int64(1); id <= 3; id++ {
		root = avl.Add(arena, root, item(id))
	}
	left, right := avl.Split(arena, root, tez(1000))
	require.Equal(t, root, left)
	require.Equal(t, avl.Empty, right)
}

func TestMinMax(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	for _, id := range []int64{5, 1, 9, 3} {
		root = avl.Add(arena, root, item(id))
	}
	min, ok := avl.Min(arena, root)
	require.True(t, ok)
	require.Equal(t, int64(1), min.ID)

	max, ok := avl.Max(arena, root)
	require.True(t, ok)
	require.Equal(t, int64(9), max.ID)

	_, ok = avl.Min[string](arena, avl.Empty)
	require.False(t, ok)
}

func TestSplitThenJoinRecoversOriginalOrder(t *testing.T) {
	arena := avl.NewArena[string]()
	var root avl.Handle
	for id := int64(1); id <= 10; id++ {
		root = avl.Add(arena, root, avl.Item[string]{ID: id, Payload: "x", Collateral: tez(1)})
	}
	left, right := avl.Split(arena, root, tez(4))
	joined := avl.Join(arena, left, right)
	avl.AssertInvariants(arena, joined)

	got := ids(avl.ToList(arena, joined))
	want := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	require.Equal(t, want, got)
}

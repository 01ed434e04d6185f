// Package avl implements the order-statistic AVL tree that backs the
// liquidation queue: a balanced binary search tree over bigmap.Arena,
// keyed by a caller-supplied int64 id, carrying per-subtree collateral sum
// and height so split-by-collateral-prefix runs in logarithmic time.
package avl

import "stablekit/numeric/money"

// Item is a single liquidation queue entry. Items are totally ordered by
// ID; Payload carries whatever the caller associates with that id and is
// never itself ordered or compared.
type Item[P any] struct {
	ID         int64
	Payload    P
	Collateral money.Tez
}

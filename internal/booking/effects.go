package booking

import "fmt"

// EffectKind names a change the view layer has to apply.
type EffectKind int

const (
	// EffectCreateBlock adds a block for ID at Top with Height.
	EffectCreateBlock EffectKind = iota
	// EffectResizeBlock moves or resizes an existing block.
	EffectResizeBlock
	// EffectRemoveBlock detaches the block for ID.
	EffectRemoveBlock
	// EffectPending updates the live description of the interval being dragged.
	EffectPending
	// EffectRefreshCheckout asks for the checkout list to be rebuilt.
	EffectRefreshCheckout
)

func (k EffectKind) String() string {
	switch k {
	case EffectCreateBlock:
		return "create"
	case EffectResizeBlock:
		return "resize"
	case EffectRemoveBlock:
		return "remove"
	case EffectPending:
		return "pending"
	case EffectRefreshCheckout:
		return "refresh-checkout"
	default:
		return fmt.Sprintf("effect(%d)", int(k))
	}
}

// Effect is a single view update produced by a state transition. Blocks are
// addressed by ID: a selection id for committed blocks, ProvisionalID for the
// block being dragged.
type Effect struct {
	Kind        EffectKind
	ID          string
	Date        string
	StartMin    int
	EndMin      int
	Top         float64
	Height      float64
	Provisional bool
	Text        string
}

// ProvisionalID is the view handle of the in-progress block on date.
func ProvisionalID(date string) string {
	return "provisional:" + date
}

package production

// Timeline is the ordered list of purchase orders of one queue. Only the first order
// that is neither paused nor done receives build ticks.
type Timeline struct {
	orders []*PurchaseOrder
}

// NewTimeline creates an empty timeline
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Append adds orders at the back
func (t *Timeline) Append(orders ...*PurchaseOrder) {
	t.orders = append(t.orders, orders...)
}

// InsertPriority places orders directly behind the head order
func (t *Timeline) InsertPriority(orders ...*PurchaseOrder) {
	if len(t.orders) <= 1 {
		t.Append(orders...)
		return
	}
	rest := append([]*PurchaseOrder{}, t.orders[1:]...)
	t.orders = append(append(t.orders[:1], orders...), rest...)
}

// Orders returns a copy of the orders in timeline order
func (t *Timeline) Orders() []*PurchaseOrder {
	return append([]*PurchaseOrder(nil), t.orders...)
}

func (t *Timeline) Len() int { return len(t.orders) }

// CountItem returns the number of orders for the named item
func (t *Timeline) CountItem(name string) int {
	n := 0
	for _, o := range t.orders {
		if o.item.Name == name {
			n++
		}
	}
	return n
}

// Current returns the order that receives the next build tick, or nil
func (t *Timeline) Current() *PurchaseOrder {
	for _, o := range t.orders {
		if !o.paused && !o.IsDone() {
			return o
		}
	}
	return nil
}

// Done returns the completed orders in timeline order
func (t *Timeline) Done() []*PurchaseOrder {
	var out []*PurchaseOrder
	for _, o := range t.orders {
		if o.IsDone() {
			out = append(out, o)
		}
	}
	return out
}

// Newest returns up to count orders of the item, newest first
func (t *Timeline) Newest(name string, count int) []*PurchaseOrder {
	var out []*PurchaseOrder
	for i := len(t.orders) - 1; i >= 0 && len(out) < count; i-- {
		if t.orders[i].item.Name == name {
			out = append(out, t.orders[i])
		}
	}
	return out
}

// ByItem returns every order of the item in timeline order
func (t *Timeline) ByItem(name string) []*PurchaseOrder {
	var out []*PurchaseOrder
	for _, o := range t.orders {
		if o.item.Name == name {
			out = append(out, o)
		}
	}
	return out
}

// Remove drops the order; it reports whether it was present
func (t *Timeline) Remove(order *PurchaseOrder) bool {
	for i, o := range t.orders {
		if o == order {
			t.orders = append(t.orders[:i], t.orders[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the timeline and returns the removed orders
func (t *Timeline) Clear() []*PurchaseOrder {
	out := t.orders
	t.orders = nil
	return out
}

// PaidTotal is the sum of everything paid by orders still on the timeline
func (t *Timeline) PaidTotal() int {
	total := 0
	for _, o := range t.orders {
		total += o.paid
	}
	return total
}

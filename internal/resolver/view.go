package resolver

import (
	"maps"
	"sync/atomic"
	"time"

	"spice-storefront/internal/model"
)

// Slot is the most recent result stored for one selector.
type Slot struct {
	Products  []model.Product `json:"products"`
	Seq       uint64          `json:"seq"`
	FetchedAt time.Time       `json:"fetchedAt"`
}

// Ticket tags a fetch with the selector it was issued for and its generation.
type Ticket struct {
	Selector string
	Seq      uint64
}

// Display is what a tab shows right now.
type Display struct {
	Selector string
	Loading  bool
	Failed   bool
	Products []model.Product
}

// View is the tab state of one view session. All methods return a new View
// and leave the receiver untouched.
type View struct {
	Active  string
	Tabs    map[string]Slot
	Pending map[string]uint64
	Failed  map[string]uint64
}

// NewView returns an empty view with the All tab active.
func NewView() View {
	return View{
		Active:  All,
		Tabs:    map[string]Slot{},
		Pending: map[string]uint64{},
		Failed:  map[string]uint64{},
	}
}

// FromSlots rebuilds a view from stored slots.
func FromSlots(slots map[string]Slot) View {
	v := NewView()
	maps.Copy(v.Tabs, slots)
	return v
}

func (v View) clone() View {
	c := View{
		Active:  v.Active,
		Tabs:    maps.Clone(v.Tabs),
		Pending: maps.Clone(v.Pending),
		Failed:  maps.Clone(v.Failed),
	}
	if c.Tabs == nil {
		c.Tabs = map[string]Slot{}
	}
	if c.Pending == nil {
		c.Pending = map[string]uint64{}
	}
	if c.Failed == nil {
		c.Failed = map[string]uint64{}
	}
	return c
}

// Begin activates selector and issues a ticket for a fresh fetch.
func (v View) Begin(selector string, seq uint64) (View, Ticket) {
	selector = NormalizeSelector(selector)

	next := v.clone()
	next.Active = selector
	if seq > next.Pending[selector] {
		next.Pending[selector] = seq
	}
	return next, Ticket{Selector: selector, Seq: seq}
}

// Settle stores products in the slot of the ticket's selector. Results older
// than what the slot already holds are discarded.
func (v View) Settle(t Ticket, products []model.Product, at time.Time) View {
	next := v.clone()
	next.release(t)

	if slot, ok := next.Tabs[t.Selector]; ok && slot.Seq >= t.Seq {
		return next
	}
	if products == nil {
		products = []model.Product{}
	}

	next.Tabs[t.Selector] = Slot{Products: products, Seq: t.Seq, FetchedAt: at}
	if next.Failed[t.Selector] <= t.Seq {
		delete(next.Failed, t.Selector)
	}
	return next
}

// Fail records a failed fetch. The slot keeps whatever it held before.
func (v View) Fail(t Ticket) View {
	next := v.clone()
	next.release(t)

	if t.Seq > next.Failed[t.Selector] && t.Seq > next.Tabs[t.Selector].Seq {
		next.Failed[t.Selector] = t.Seq
	}
	return next
}

func (v View) release(t Ticket) {
	if v.Pending[t.Selector] == t.Seq {
		delete(v.Pending, t.Selector)
	}
}

// Display reports the active tab. A tab whose latest settled fetch failed
// shows an empty result; a tab with a fetch in flight keeps its previous
// result and reports Loading.
func (v View) Display() Display {
	d := Display{Selector: v.Active, Products: []model.Product{}}

	slot, ok := v.Tabs[v.Active]
	if pending, inFlight := v.Pending[v.Active]; inFlight && pending > slot.Seq {
		d.Loading = true
	}
	if failed, hasFailed := v.Failed[v.Active]; hasFailed && failed > slot.Seq {
		d.Failed = true
		return d
	}
	if ok {
		d.Products = slot.Products
	}
	return d
}

// Cached reports the size of every stored tab.
func (v View) Cached() map[string]int {
	out := make(map[string]int, len(v.Tabs))
	for sel, slot := range v.Tabs {
		out[sel] = len(slot.Products)
	}
	return out
}

// Sequencer issues increasing fetch generations. It is seeded from the clock
// so generations keep increasing across restarts when slots are persisted.
type Sequencer struct {
	last atomic.Uint64
}

// NewSequencer creates a sequencer seeded from now.
func NewSequencer(now time.Time) *Sequencer {
	s := &Sequencer{}
	s.last.Store(uint64(now.UnixNano()))
	return s
}

// Next returns the next generation.
func (s *Sequencer) Next() uint64 {
	return s.last.Add(1)
}

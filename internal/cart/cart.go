package cart

// Item is one line item in the cart. Display fields (name, price, image)
// are captured at add-time and never re-fetched; a later catalog change
// does not touch items already in the cart.
type Item struct {
	ID       string  `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// State holds the ordered line items, keyed by item id. Invariants: ids are
// unique, quantities are >= 1, order is insertion order.
type State struct {
	Items []Item `json:"items"`
}

// Action is a tagged cart transition. Keeping the transitions as a closed
// set of variants makes every state change auditable in one place.
type Action interface {
	isAction()
}

type AddItemAction struct {
	Item     Item
	Quantity int
}

type RemoveItemAction struct {
	ID string
}

type UpdateQuantityAction struct {
	ID       string
	Quantity int
}

type ClearAction struct{}

func (AddItemAction) isAction()        {}
func (RemoveItemAction) isAction()     {}
func (UpdateQuantityAction) isAction() {}
func (ClearAction) isAction()          {}

// Apply is the pure cart transition. It never mutates the input state.
func Apply(s State, a Action) State {
	switch act := a.(type) {
	case AddItemAction:
		for i, existing := range s.Items {
			if existing.ID == act.Item.ID {
				// Merge quantities; display fields keep their first-written
				// values and the item keeps its position.
				items := copyItems(s.Items)
				items[i].Quantity += act.Quantity
				return State{Items: items}
			}
		}
		item := act.Item
		item.Quantity = act.Quantity
		items := make([]Item, 0, len(s.Items)+1)
		items = append(items, s.Items...)
		items = append(items, item)
		return State{Items: items}

	case RemoveItemAction:
		return State{Items: withoutItem(s.Items, act.ID)}

	case UpdateQuantityAction:
		// A quantity of zero or less is never stored; it means removal.
		if act.Quantity <= 0 {
			return State{Items: withoutItem(s.Items, act.ID)}
		}
		for i, existing := range s.Items {
			if existing.ID == act.ID {
				items := copyItems(s.Items)
				items[i].Quantity = act.Quantity
				return State{Items: items}
			}
		}
		return s

	case ClearAction:
		return State{}
	}

	return s
}

func copyItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func withoutItem(items []Item, id string) []Item {
	var out []Item
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

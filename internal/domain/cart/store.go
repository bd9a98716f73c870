// internal/domain/cart/store.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/domain/identity"
	"github.com/your-org/storefront-gateway/internal/infrastructure/storage"
)

// Store owns the cart partitions for every identity that has used this
// gateway and exposes the active partition as "the cart". All methods
// are synchronous and run to completion under one mutex, so no two
// mutations interleave. Persistence is best-effort: a failing backing
// store is logged and the in-memory state stays canonical.
type Store struct {
	mu      sync.Mutex
	log     *logrus.Entry
	storage storage.Adapter

	partitions map[string][]LineItem
	active     identity.Identity
	panelOpen  bool
}

// NewStore creates a cart store, loading any persisted state. Malformed
// or missing persisted data yields the empty guest state.
func NewStore(adapter storage.Adapter, log *logrus.Entry) *Store {
	s := &Store{
		log:        log,
		storage:    adapter,
		partitions: make(map[string][]LineItem),
		active:     identity.Guest(),
	}

	data, ok, err := adapter.Get(context.Background(), storage.CartKey)
	if err != nil {
		log.WithError(err).Warn("Failed to load persisted cart, starting empty")
		return s
	}
	if ok {
		s.partitions, s.active = decodeBlob(data)
	}

	return s
}

// ActiveIdentity returns the identity whose partition is on screen
func (s *Store) ActiveIdentity() identity.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Items returns a copy of the active partition
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneItems(s.partitions[s.active.Key()])
}

// IsPanelOpen reports whether the cart panel is open
func (s *Store) IsPanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.panelOpen
}

// AddItem adds a product to the active partition. Adding a product that
// is already present increments its quantity instead of appending a
// duplicate row. The cart panel opens as the UX signal that something
// happened. Quantities below 1 are treated as 1.
func (s *Store) AddItem(product Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.partitions[s.active.Key()]
	found := false
	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		items = append(items, LineItem{Product: product, Quantity: quantity})
	}

	s.partitions[s.active.Key()] = items
	s.panelOpen = true
	s.persist()
}

// RemoveItem deletes the matching line item from the active partition.
// Removing an absent product is a no-op, not an error.
func (s *Store) RemoveItem(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(productID)
	s.persist()
}

func (s *Store) removeLocked(productID string) {
	items := s.partitions[s.active.Key()]
	for i := range items {
		if items[i].Product.ID == productID {
			s.partitions[s.active.Key()] = append(items[:i], items[i+1:]...)
			return
		}
	}
}

// SetQuantity sets the quantity of the matching line item. A quantity
// of zero or below removes the item instead of storing a non-positive
// row. Absent products are a no-op.
func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		s.persist()
		return
	}

	items := s.partitions[s.active.Key()]
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}
	s.persist()
}

// Clear empties the active partition only; other identities keep theirs
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.partitions[s.active.Key()] = []LineItem{}
	s.persist()
}

// OpenPanel opens the cart panel
func (s *Store) OpenPanel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panelOpen = true
}

// ClosePanel closes the cart panel
func (s *Store) ClosePanel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panelOpen = false
}

// TotalItemCount returns the sum of quantities across the active partition
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.partitions[s.active.Key()] {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of price * quantity across the active
// partition. Items with unparsable prices contribute 0.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0.0
	for _, item := range s.partitions[s.active.Key()] {
		total += item.Subtotal()
	}
	return total
}

// GetTotals returns the aggregate view of the active partition
func (s *Store) GetTotals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	totals := Totals{
		ItemCount: len(s.partitions[s.active.Key()]),
	}
	for _, item := range s.partitions[s.active.Key()] {
		totals.TotalQuantity += item.Quantity
		totals.TotalPrice += item.Subtotal()
	}
	return totals
}

// SetActiveIdentity switches the active partition, reconciling carts
// across the sign-in boundary:
//
//   - guest -> user: guest items fold into the user's partition (sum
//     quantities on collision, keeping the user row's display fields;
//     append the rest), then the guest partition is emptied so a later
//     sign-in by a different user cannot re-merge the same items;
//   - user -> guest: the departing user's items replace whatever the
//     guest partition held, so the cart on screen at logout stays
//     visible to the anonymous session;
//   - user -> different user: plain switch, each user's partition is
//     independent.
//
// Any actual switch closes the cart panel and persists. Switching to
// the already-active identity is a no-op.
func (s *Store) SetActiveIdentity(next identity.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if next == s.active {
		return
	}

	switch {
	case s.active.IsGuest() && !next.IsGuest():
		s.mergeGuestInto(next)
	case !s.active.IsGuest() && next.IsGuest():
		s.partitions[identity.GuestKey] = cloneItems(s.partitions[s.active.Key()])
	}

	s.active = next
	s.panelOpen = false
	s.persist()
}

// mergeGuestInto folds the guest partition into the target user's
// partition and resets the guest partition to empty.
func (s *Store) mergeGuestInto(target identity.Identity) {
	guestItems := s.partitions[identity.GuestKey]
	if len(guestItems) == 0 {
		return
	}

	userItems := s.partitions[target.Key()]
	for _, guestItem := range guestItems {
		merged := false
		for i := range userItems {
			if userItems[i].Product.ID == guestItem.Product.ID {
				// The pre-existing row keeps its display fields; they
				// are presumed fresher than the guest copy.
				userItems[i].Quantity += guestItem.Quantity
				merged = true
				break
			}
		}
		if !merged {
			userItems = append(userItems, guestItem)
		}
	}

	s.partitions[target.Key()] = userItems
	s.partitions[identity.GuestKey] = []LineItem{}
}

// persist writes the whole partition map under the single cart key.
// Callers hold the mutex. Failures are swallowed after logging: the
// backing store may be unavailable and the cart must keep working.
func (s *Store) persist() {
	data, err := encodeBlob(s.partitions, s.active)
	if err != nil {
		s.log.WithError(err).Warn("Failed to serialize cart state")
		return
	}

	if err := s.storage.Set(context.Background(), storage.CartKey, data); err != nil {
		s.log.WithError(err).Warn("Failed to persist cart state")
	}
}

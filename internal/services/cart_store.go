package services

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"stagepass/internal/domain"
	"stagepass/internal/repos"
)

// CartStore holds the canonical line-item list for one session and derives
// totals. It hydrates once from the durable snapshot at construction and
// writes the full list back after every mutation.
type CartStore struct {
	mu    sync.Mutex
	key   string
	repo  *repos.CartRepo
	lines []domain.CartLine
}

// NewCartStore loads the snapshot stored under key. A missing snapshot means
// an empty cart; a corrupt one is logged and also falls back to empty,
// never a crash.
func NewCartStore(key string, repo *repos.CartRepo) *CartStore {
	s := &CartStore{key: key, repo: repo}
	payload, err := repo.Load(key)
	if err != nil {
		log.Printf("[cart] load %s: %v", key, err)
		return s
	}
	if len(payload) == 0 {
		return s
	}
	if err := json.Unmarshal(payload, &s.lines); err != nil {
		log.Printf("[cart] corrupt snapshot for %s, starting empty: %v", key, err)
		s.lines = nil
	}
	return s
}

// AddItem merges into an existing line for the same product id (quantity
// added, gift fields taken from the newest call) or appends a new line.
// There is never more than one line per product.
func (s *CartStore) AddItem(item domain.CartLine) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == item.ProductID {
			s.lines[i].Quantity += item.Quantity
			s.lines[i].IsGift = item.IsGift
			s.lines[i].GiftRecipientName = item.GiftRecipientName
			s.lines[i].GiftRecipientEmail = item.GiftRecipientEmail
			s.lines[i].GiftMessage = item.GiftMessage
			s.persist()
			return
		}
	}
	s.lines = append(s.lines, item)
	s.persist()
}

// SetQuantity overwrites a line's quantity; zero or less removes the line.
// An absent product id is a no-op so repeated calls stay idempotent.
func (s *CartStore) SetQuantity(productID int64, qty int) {
	if qty <= 0 {
		s.RemoveItem(productID)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = qty
			s.persist()
			return
		}
	}
}

// RemoveItem deletes the line if present; idempotent when absent.
func (s *CartStore) RemoveItem(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist()
			return
		}
	}
}

// Clear empties the cart. Called once, on confirmed order completion.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.persist()
}

// Lines returns a copy of the current line items.
func (s *CartStore) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *CartStore) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums unitPrice*quantity in decimal, never binary float, so
// repeated additions cannot drift.
func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, l := range s.lines {
		price, err := decimal.NewFromString(l.UnitPrice)
		if err != nil {
			log.Printf("[cart] bad unit price %q for product %d", l.UnitPrice, l.ProductID)
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// persist writes the whole list through to durable storage. Fire-and-forget:
// a failed write is logged, not surfaced to the mutation. Callers hold s.mu.
func (s *CartStore) persist() {
	payload, err := json.Marshal(s.lines)
	if err != nil {
		log.Printf("[cart] marshal %s: %v", s.key, err)
		return
	}
	if err := s.repo.Save(s.key, payload); err != nil {
		log.Printf("[cart] save %s: %v", s.key, err)
	}
}

// CartManager hands out one CartStore per session, hydrating lazily and
// keeping the instance for the process lifetime.
type CartManager struct {
	mu     sync.Mutex
	repo   *repos.CartRepo
	stores map[string]*CartStore
}

func NewCartManager(repo *repos.CartRepo) *CartManager {
	return &CartManager{repo: repo, stores: map[string]*CartStore{}}
}

func (m *CartManager) ForSession(sid string) *CartStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.stores[sid]; ok {
		return s
	}
	s := NewCartStore("cart:"+sid, m.repo)
	m.stores[sid] = s
	return s
}

package cart

import (
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pbrandao/varejo/core/catalog"
	"github.com/sirupsen/logrus"
)

// ItemNew is the add-to-cart payload. Product must be the snapshot the
// caller just resolved; Variant optionally overrides the frozen snapshot,
// otherwise the live variant named by VariantID is copied.
type ItemNew struct {
	ProductID int64
	VariantID *int64
	Quantity  int64
	Product   catalog.Product
	Variant   *catalog.Variant
}

type Config struct {
	Storage Storage

	// RequireVariant rejects adds naming a product that declares variants
	// without selecting one. When false such adds fall back to the
	// product's own price and stock.
	RequireVariant bool

	Log logrus.FieldLogger
}

// Store owns one cart. All mutations are serialized on an internal mutex
// and none of them returns an error: invalid references and storage
// failures degrade to logged no-ops, stock shortages clamp.
type Store struct {
	mu             sync.Mutex
	cartID         string
	storage        Storage
	requireVariant bool
	log            logrus.FieldLogger

	loaded bool
	items  []Item
}

func New(cartID string, cfg Config) *Store {
	log := cfg.Log
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &Store{
		cartID:         cartID,
		storage:        cfg.Storage,
		requireVariant: cfg.RequireVariant,
		log:            log.WithField("cart_id", cartID),
	}
}

// Add merges the requested quantity into an existing (product, variant)
// line or appends a new one, clamping to the available stock. Nothing is
// added when the resolved stock is gone.
func (s *Store) Add(ctx context.Context, in ItemNew) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	log := s.log.WithFields(logrus.Fields{
		"product_id": in.ProductID,
		"variant_id": variantField(in.VariantID),
	})

	if in.Product.ID == 0 || in.Product.ID != in.ProductID {
		log.Error("add ignored: product snapshot missing or mismatched")
		return
	}
	if in.Quantity <= 0 {
		log.Warn("add ignored: quantity must be positive")
		return
	}

	var snap *catalog.Variant
	if in.VariantID != nil {
		live := in.Product.FindVariant(*in.VariantID)
		if live == nil {
			log.Error("add ignored: variant not declared on product")
			return
		}
		if in.Variant != nil {
			cp := *in.Variant
			snap = &cp
		} else {
			cp := *live
			snap = &cp
		}
	} else if len(in.Product.Variants) > 0 && s.requireVariant {
		log.Error("add ignored: product declares variants but none was selected")
		return
	}

	item := Item{
		ProductID: in.ProductID,
		VariantID: in.VariantID,
		Quantity:  in.Quantity,
		Product:   in.Product,
		Variant:   snap,
	}
	stock, known := item.availableStock()

	if idx := s.find(item.key()); idx >= 0 {
		cur := s.items[idx].Quantity
		next := cur + in.Quantity
		if known && next > stock {
			log.WithField("stock", stock).Warn("stock limit reached, quantity clamped")
			next = stock
		}
		if next <= 0 {
			log.Warn("stock exhausted, line removed")
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			s.persist(ctx)
			return
		}
		if next == cur {
			return
		}
		s.items[idx].Quantity = next
		s.persist(ctx)
		return
	}

	if known && item.Quantity > stock {
		log.WithField("stock", stock).Warn("stock limit reached, quantity clamped")
		item.Quantity = stock
	}
	if item.Quantity <= 0 {
		log.Warn("out of stock, item not added")
		return
	}

	s.items = append(s.items, item)
	s.persist(ctx)
}

// UpdateQuantity sets a line's quantity, clamped to stock. A target of
// zero or less removes the line. Unknown lines and no-op updates leave
// both state and storage untouched.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, variantID *int64, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	log := s.log.WithFields(logrus.Fields{
		"product_id": productID,
		"variant_id": variantField(variantID),
	})

	idx := s.find(keyOf(productID, variantID))
	if idx < 0 {
		log.Warn("update ignored: no such cart line")
		return
	}

	if quantity <= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.persist(ctx)
		return
	}

	next := quantity
	if stock, known := s.items[idx].availableStock(); known && next > stock {
		log.WithField("stock", stock).Warn("stock limit reached, quantity clamped")
		next = stock
	}

	if next <= 0 {
		log.Warn("stock exhausted, line removed")
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		s.persist(ctx)
		return
	}

	if next == s.items[idx].Quantity {
		return
	}

	s.items[idx].Quantity = next
	s.persist(ctx)
}

// Remove deletes the matching line. Removing an absent line is a no-op,
// and no storage write happens for it.
func (s *Store) Remove(ctx context.Context, productID int64, variantID *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	idx := s.find(keyOf(productID, variantID))
	if idx < 0 {
		return
	}

	s.items = append(s.items[:idx], s.items[idx+1:]...)
	s.persist(ctx)
}

// Clear empties the cart and persists the empty list, as checkout does.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	s.items = nil
	s.persist(ctx)
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items(ctx context.Context) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Total derives the cart total from per-line unit prices; nothing is ever
// stored pre-multiplied.
func (s *Store) Total(ctx context.Context) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load(ctx)

	var total float64
	for _, it := range s.items {
		total += it.Subtotal()
	}
	return total
}

func (s *Store) find(k lineKey) int {
	for i := range s.items {
		if s.items[i].key() == k {
			return i
		}
	}
	return -1
}

// load lazily pulls the persisted snapshot. Malformed entries are dropped
// one by one; an unreadable payload or a storage failure starts empty.
func (s *Store) load(ctx context.Context) {
	if s.loaded {
		return
	}
	s.loaded = true

	payload, err := s.storage.Load(ctx, s.cartID)
	if err != nil {
		if err != ErrNotFound {
			s.log.WithField("message", err).Warn("cart load failed, starting empty")
		}
		return
	}

	s.items = decodeItems(payload, s.log)
}

func decodeItems(payload []byte, log logrus.FieldLogger) []Item {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		log.WithField("message", err).Warn("persisted cart unreadable, starting empty")
		return nil
	}

	items := make([]Item, 0, len(raws))
	seen := make(map[lineKey]bool, len(raws))
	for _, raw := range raws {
		var it Item
		if err := json.Unmarshal(raw, &it); err != nil {
			log.WithField("message", err).Warn("discarding unreadable cart line")
			continue
		}
		if !it.valid() {
			log.WithField("product_id", it.ProductID).Warn("discarding malformed cart line")
			continue
		}
		if seen[it.key()] {
			log.WithField("product_id", it.ProductID).Warn("discarding duplicate cart line")
			continue
		}
		seen[it.key()] = true
		items = append(items, it)
	}

	if len(items) == 0 {
		return nil
	}
	return items
}

// persist writes the current lines back. The in-memory state stays
// authoritative for the session whether or not the write lands.
func (s *Store) persist(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []Item{}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		s.log.WithField("message", err).Warn("cart not persisted: marshaling failed")
		return
	}

	if err := s.storage.Save(ctx, s.cartID, payload); err != nil {
		s.log.WithField("message", err).Warn("cart not persisted: storage write failed")
	}
}

func variantField(variantID *int64) interface{} {
	if variantID == nil {
		return nil
	}
	return *variantID
}

// Stores hands out one Store per cart id, so concurrent requests for the
// same session share state and its mutex.
type Stores struct {
	mu   sync.Mutex
	cfg  Config
	open map[string]*Store
}

func NewStores(cfg Config) *Stores {
	return &Stores{
		cfg:  cfg,
		open: make(map[string]*Store),
	}
}

func (st *Stores) Get(cartID string) *Store {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.open[cartID]
	if !ok {
		s = New(cartID, st.cfg)
		st.open[cartID] = s
	}
	return s
}

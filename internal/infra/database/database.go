package database

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/storage"
)

// StorageKey is the namespaced key the whole console state is persisted under.
const StorageKey = "seller_console_db"

// Database owns the canonical lead and opportunity records. Collections keep
// insertion order (like the browser's Map) so unsorted listings are
// deterministic. Every mutation writes the full state through to the medium
// before returning; a failing medium is logged and ignored.
type Database struct {
	mu      sync.RWMutex
	leads   *collection[entity.Lead]
	opps    *collection[entity.Opportunity]
	storage storage.Medium
}

// New loads the persisted blob if one exists, otherwise seeds from the
// fixture dataset. A malformed blob is treated as absent.
func New(medium storage.Medium) *Database {
	db := &Database{
		leads:   newCollection[entity.Lead](),
		opps:    newCollection[entity.Opportunity](),
		storage: medium,
	}
	db.load()
	return db
}

type blob struct {
	Leads         []pair[entity.Lead]        `json:"leads"`
	Opportunities []pair[entity.Opportunity] `json:"opportunities"`
}

// pair serializes as a two-element [id, record] array, the blob layout the
// browser client wrote.
type pair[T any] struct {
	ID     string
	Record T
}

func (p pair[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.ID, p.Record})
}

func (p *pair[T]) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("expected [id, record] pair, got %d elements", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.ID); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &p.Record)
}

func (db *Database) load() {
	data, ok := db.storage.Get(StorageKey)
	if ok {
		var stored blob
		if err := json.Unmarshal(data, &stored); err != nil {
			log.Printf("database: persisted blob is malformed, reseeding: %v", err)
		} else {
			for _, p := range stored.Leads {
				db.leads.set(p.ID, p.Record)
			}
			for _, p := range stored.Opportunities {
				db.opps.set(p.ID, p.Record)
			}
			return
		}
	}
	db.seed()
}

func (db *Database) seed() {
	for _, lead := range FixtureLeads() {
		db.leads.set(lead.ID, lead)
	}
	db.persist()
}

// persist serializes both collections to the medium. Callers hold db.mu.
func (db *Database) persist() {
	state := blob{
		Leads:         make([]pair[entity.Lead], 0, db.leads.len()),
		Opportunities: make([]pair[entity.Opportunity], 0, db.opps.len()),
	}
	for _, id := range db.leads.order {
		state.Leads = append(state.Leads, pair[entity.Lead]{ID: id, Record: db.leads.items[id]})
	}
	for _, id := range db.opps.order {
		state.Opportunities = append(state.Opportunities, pair[entity.Opportunity]{ID: id, Record: db.opps.items[id]})
	}

	data, err := json.Marshal(state)
	if err != nil {
		log.Printf("database: serialize state failed: %v", err)
		return
	}
	if err := db.storage.Set(StorageKey, data); err != nil {
		// Memory stays authoritative for the rest of the session.
		log.Printf("database: persist state failed: %v", err)
	}
}

// Leads returns an insertion-ordered snapshot copy.
func (db *Database) Leads() []entity.Lead {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.leads.values()
}

func (db *Database) Lead(id string) (entity.Lead, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.leads.get(id)
}

func (db *Database) SetLead(lead entity.Lead) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.leads.set(lead.ID, lead)
	db.persist()
}

func (db *Database) DeleteLead(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.leads.delete(id) {
		return false
	}
	db.persist()
	return true
}

// Opportunities returns an insertion-ordered snapshot copy.
func (db *Database) Opportunities() []entity.Opportunity {
	db.mu.RLock()
	defer db.mu.RUnlock()
	opps := db.opps.values()
	for i := range opps {
		opps[i] = cloneOpportunity(opps[i])
	}
	return opps
}

func (db *Database) Opportunity(id string) (entity.Opportunity, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	opp, ok := db.opps.get(id)
	if !ok {
		return entity.Opportunity{}, false
	}
	return cloneOpportunity(opp), true
}

func (db *Database) SetOpportunity(opp entity.Opportunity) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.opps.set(opp.ID, cloneOpportunity(opp))
	db.persist()
}

// cloneOpportunity duplicates pointer fields so snapshot holders cannot
// reach into shared state. Lead is all value fields and copies implicitly.
func cloneOpportunity(o entity.Opportunity) entity.Opportunity {
	cp := o
	if o.Amount != nil {
		amount := *o.Amount
		cp.Amount = &amount
	}
	if o.ExpectedCloseDate != nil {
		date := *o.ExpectedCloseDate
		cp.ExpectedCloseDate = &date
	}
	return cp
}

func (db *Database) DeleteOpportunity(id string) bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	if !db.opps.delete(id) {
		return false
	}
	db.persist()
	return true
}

// Reset drops all records and reseeds from fixtures.
func (db *Database) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.leads = newCollection[entity.Lead]()
	db.opps = newCollection[entity.Opportunity]()
	db.seed()
}

// collection is a keyed map that remembers insertion order.
type collection[T any] struct {
	items map[string]T
	order []string
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{items: make(map[string]T)}
}

func (c *collection[T]) len() int {
	return len(c.items)
}

func (c *collection[T]) get(id string) (T, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *collection[T]) set(id string, item T) {
	if _, exists := c.items[id]; !exists {
		c.order = append(c.order, id)
	}
	c.items[id] = item
}

func (c *collection[T]) delete(id string) bool {
	if _, exists := c.items[id]; !exists {
		return false
	}
	delete(c.items, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) values() []T {
	out := make([]T, 0, len(c.items))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

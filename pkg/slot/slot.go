// Package slot implements the certificate-slot registry: up to eight
// addressable certificate-chain holders, each reserving a fixed-size
// buffer regardless of whether it is occupied.
//
// Go has no const-generic arrays, so the table's backing storage is a
// single flat allocation sized once at construction time from
// config.Config and then sliced into per-slot windows; no further
// allocation occurs afterward; Fill and Select only ever copy into or
// read from those fixed windows.
package slot

import "github.com/spdm-embedded/spdm-go/pkg/config"

// Slot holds one certificate chain plus the algorithms it is valid
// for. An empty slot is still addressable by index but yields
// ErrSlotEmpty if selected.
type Slot struct {
	filled   bool
	storage  []byte // fixed window into Table.backing, len == maxCertChainSize
	length   int
	hashAlgo config.HashAlgorithm
	asymAlgo config.AsymAlgorithm
}

// Occupied reports whether the slot has been filled.
func (s *Slot) Occupied() bool { return s.filled }

// Chain returns the occupied slot's certificate chain bytes. The
// returned slice aliases the table's backing storage.
func (s *Slot) Chain() []byte { return s.storage[:s.length] }

// Algorithms returns the hash and asymmetric-signing algorithm the
// slot's chain was provisioned for.
func (s *Slot) Algorithms() (config.HashAlgorithm, config.AsymAlgorithm) {
	return s.hashAlgo, s.asymAlgo
}

// Table is the fixed-size certificate slot registry. It is read-only
// after construction is complete: Fill is only ever called during
// endpoint provisioning, never during protocol operation.
type Table struct {
	maxCertChainSize int
	backing          []byte
	slots            []Slot
}

// New constructs a Table sized per cfg. cfg must already have had
// ApplyDefaults and Validate called.
func New(cfg *config.Config) *Table {
	t := &Table{
		maxCertChainSize: cfg.MaxCertChainSize,
		backing:          make([]byte, cfg.NumSlots*cfg.MaxCertChainSize),
		slots:            make([]Slot, cfg.NumSlots),
	}
	for i := range t.slots {
		start := i * cfg.MaxCertChainSize
		t.slots[i].storage = t.backing[start : start+cfg.MaxCertChainSize]
	}
	return t
}

// NumSlots returns the number of slots in the table.
func (t *Table) NumSlots() int { return len(t.slots) }

// Fill provisions slot index with chain and records the given
// algorithm pair for it; the chain itself is not validated. It fails with ErrSlotIndexOutOfRange if index is out
// of bounds, or ErrCertTooLarge if chain exceeds the slot's reserved
// buffer.
func (t *Table) Fill(index int, chain []byte, hashAlgo config.HashAlgorithm, asymAlgo config.AsymAlgorithm) error {
	s, err := t.slotAt(index)
	if err != nil {
		return err
	}
	if len(chain) > t.maxCertChainSize {
		return ErrCertTooLarge
	}
	copy(s.storage, chain)
	s.length = len(chain)
	s.hashAlgo = hashAlgo
	s.asymAlgo = asymAlgo
	s.filled = true
	return nil
}

// Select returns the occupied slot at index, or ErrSlotEmpty if it has
// not been filled.
func (t *Table) Select(index int) (*Slot, error) {
	s, err := t.slotAt(index)
	if err != nil {
		return nil, err
	}
	if !s.filled {
		return nil, ErrSlotEmpty
	}
	return s, nil
}

// Occupied reports whether the slot at index has been filled.
func (t *Table) Occupied(index int) bool {
	s, err := t.slotAt(index)
	if err != nil {
		return false
	}
	return s.filled
}

func (t *Table) slotAt(index int) (*Slot, error) {
	if index < 0 || index >= len(t.slots) {
		return nil, ErrSlotIndexOutOfRange
	}
	return &t.slots[index], nil
}

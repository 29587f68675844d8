package tokens

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/tokenforge/forgectl/internal/forge"
)

// Store persists created-token records to a JSON file. It satisfies the
// orchestrator's record sink: SaveToken is called once per confirmed creation.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a JSON-backed token store.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// SaveToken appends a record, newest first.
func (s *Store) SaveToken(rec forge.TokenRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records = append([]forge.TokenRecord{rec}, records...)
	return s.save(records)
}

// List returns all records, newest first.
func (s *Store) List() ([]forge.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// FindByAddress returns the record for a token address, matching
// case-insensitively.
func (s *Store) FindByAddress(addr string) (*forge.TokenRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, false, err
	}
	for i := range records {
		if strings.EqualFold(records[i].Address, addr) {
			return &records[i], true, nil
		}
	}
	return nil, false, nil
}

// ForChain returns records created on the given chain ID, newest first.
func (s *Store) ForChain(chainID int64) ([]forge.TokenRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	out := records[:0:0]
	for _, r := range records {
		if r.ChainID == chainID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) load() ([]forge.TokenRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var records []forge.TokenRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) save(records []forge.TokenRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/dskvich/phone-shop-assistant/pkg/domain"
)

type phonesFile struct {
	Phones []domain.Phone `json:"phones"`
}

type termsFile struct {
	Terms []domain.TechTerm `json:"terms"`
}

type SearchCriteria struct {
	BudgetMin     *int
	BudgetMax     *int
	Brand         string
	Features      []string
	MinCameraMp   *int
	MinBatteryMah *int
	MinRAMGb      *int
}

// Store holds the product catalog and the technical-term glossary. Both are
// loaded once at startup and never mutated, so the store is safe to share
// between goroutines without locking.
type Store struct {
	phones  []domain.Phone
	terms   []domain.TechTerm
	termIdx map[string]int
}

func NewStore(phonesPath, termsPath string) (*Store, error) {
	data, err := os.ReadFile(phonesPath)
	if err != nil {
		return nil, fmt.Errorf("reading phones file: %w", err)
	}
	var pf phonesFile
	if err := json.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing phones file: %w", err)
	}

	data, err = os.ReadFile(termsPath)
	if err != nil {
		return nil, fmt.Errorf("reading terms file: %w", err)
	}
	var tf termsFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing terms file: %w", err)
	}

	return NewStoreFromSnapshot(pf.Phones, tf.Terms), nil
}

// NewStoreFromSnapshot builds a store from an already-parsed snapshot.
func NewStoreFromSnapshot(phones []domain.Phone, terms []domain.TechTerm) *Store {
	s := &Store{
		phones:  phones,
		terms:   terms,
		termIdx: make(map[string]int),
	}

	// Both the short term and the full name resolve to the same record.
	for i, t := range s.terms {
		s.termIdx[strings.ToLower(t.Term)] = i
		s.termIdx[strings.ToLower(t.FullName)] = i
	}

	return s
}

func (s *Store) All() []domain.Phone {
	return s.phones
}

func (s *Store) ByID(id int64) (domain.Phone, error) {
	for _, p := range s.phones {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Phone{}, domain.ErrNotFound
}

// ByModel resolves a phone by a case-insensitive substring match against the
// model name or the "brand model" concatenation.
func (s *Store) ByModel(model string) (domain.Phone, error) {
	modelLower := strings.ToLower(model)
	for _, p := range s.phones {
		if strings.Contains(strings.ToLower(p.Model), modelLower) ||
			strings.Contains(strings.ToLower(p.FullName()), modelLower) {
			return p, nil
		}
	}
	return domain.Phone{}, domain.ErrNotFound
}

func (s *Store) Search(c SearchCriteria) []domain.Phone {
	results := s.phones

	if c.BudgetMin != nil {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return p.Price >= *c.BudgetMin })
	}
	if c.BudgetMax != nil {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return p.Price <= *c.BudgetMax })
	}
	if c.Brand != "" {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return strings.EqualFold(p.Brand, c.Brand) })
	}
	if len(c.Features) > 0 {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool {
			return lo.SomeBy(c.Features, func(want string) bool {
				return lo.ContainsBy(p.Features, func(have string) bool { return strings.EqualFold(have, want) })
			})
		})
	}
	if c.MinCameraMp != nil {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return p.Specs.Camera.MainMp >= *c.MinCameraMp })
	}
	if c.MinBatteryMah != nil {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return p.Specs.BatteryMah >= *c.MinBatteryMah })
	}
	if c.MinRAMGb != nil {
		results = lo.Filter(results, func(p domain.Phone, _ int) bool { return p.Specs.RAMGb >= *c.MinRAMGb })
	}

	return results
}

// SortPhones returns a sorted copy. An unknown sort key leaves the order
// unchanged.
func (s *Store) SortPhones(phones []domain.Phone, sortBy string) []domain.Phone {
	sorted := make([]domain.Phone, len(phones))
	copy(sorted, phones)

	switch sortBy {
	case "price":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price < sorted[j].Price })
	case "price_desc":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Price > sorted[j].Price })
	case "camera":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Specs.Camera.MainMp > sorted[j].Specs.Camera.MainMp })
	case "battery":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Specs.BatteryMah > sorted[j].Specs.BatteryMah })
	case "performance":
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Specs.RAMGb > sorted[j].Specs.RAMGb })
	}

	return sorted
}

func (s *Store) TermByName(name string) (domain.TechTerm, error) {
	i, ok := s.termIdx[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.TechTerm{}, domain.ErrNotFound
	}
	return s.terms[i], nil
}

func (s *Store) TermNames() []string {
	return lo.Map(s.terms, func(t domain.TechTerm, _ int) string { return t.Term })
}

// ExamplesForTerm scans feature tags and camera feature tags for a
// case-insensitive substring match against the term, in catalog order,
// capped at max entries.
func (s *Store) ExamplesForTerm(term string, max int) []domain.Phone {
	termLower := strings.ToLower(strings.TrimSpace(term))
	var examples []domain.Phone

	for _, p := range s.phones {
		if len(examples) >= max {
			break
		}
		tags := append(append([]string{}, p.Features...), p.Specs.Camera.Features...)
		if lo.SomeBy(tags, func(tag string) bool { return strings.Contains(strings.ToLower(tag), termLower) }) {
			examples = append(examples, p)
		}
	}

	return examples
}

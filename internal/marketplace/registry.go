package marketplace

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// NotFoundError is returned by Get when no dataset exists for the id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "marketplace: dataset not found"
	}
	return fmt.Sprintf("marketplace: dataset %q not found", e.ID)
}

// Registry is the volatile, in-memory store of marketplace listings. It is
// created at process start and discarded at process end; nothing is persisted.
// All methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	listings map[string]Listing
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listings: make(map[string]Listing),
	}
}

// Register inserts or replaces the listing for dataset.ID. A first
// registration starts the counters at zero; a re-registration keeps the
// existing downloads, rating, and reviews and swaps only the dataset value.
// The dataset must already have passed Validate; Register itself never fails.
func (r *Registry) Register(dataset Dataset) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listings == nil {
		r.listings = make(map[string]Listing)
	}

	existing, ok := r.listings[dataset.ID]
	if !ok {
		r.listings[dataset.ID] = Listing{Dataset: dataset}
		return
	}
	r.listings[dataset.ID] = Listing{
		Dataset:   dataset,
		Downloads: existing.Downloads,
		Rating:    existing.Rating,
		Reviews:   existing.Reviews,
	}
}

// Get returns the dataset stored for id, or a *NotFoundError.
func (r *Registry) Get(id string) (Dataset, error) {
	if r == nil {
		return Dataset{}, &NotFoundError{ID: id}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[id]
	if !ok {
		return Dataset{}, &NotFoundError{ID: id}
	}
	return listing.Dataset, nil
}

// GetListing returns the full listing for id, or a *NotFoundError.
func (r *Registry) GetListing(id string) (Listing, error) {
	if r == nil {
		return Listing{}, &NotFoundError{ID: id}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.listings[id]
	if !ok {
		return Listing{}, &NotFoundError{ID: id}
	}
	return listing, nil
}

// Search filters listings by minimum quality, exact case-insensitive category,
// and a query matched as a case-insensitive regular expression against the
// space-joined name, description, and tags. A query that is not a valid
// pattern is matched as a literal substring instead; Search never errors.
// Results are sorted by quality score descending, insertion-independent.
func (r *Registry) Search(query, category string, minQuality float64) []Listing {
	if r == nil {
		return nil
	}

	match := queryMatcher(query)

	r.mu.RLock()
	results := make([]Listing, 0, len(r.listings))
	for _, listing := range r.listings {
		d := listing.Dataset
		if d.QualityScore < minQuality {
			continue
		}
		if category != "" && !strings.EqualFold(d.Category, category) {
			continue
		}
		if match != nil {
			searchable := strings.Join(append([]string{d.Name, d.Description}, d.Tags...), " ")
			if !match(searchable) {
				continue
			}
		}
		results = append(results, listing)
	}
	r.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Dataset.QualityScore > results[j].Dataset.QualityScore
	})
	return results
}

// IncrementDownloads adds one download to the listing for id. An unknown id
// is a silent no-op.
func (r *Registry) IncrementDownloads(id string) {
	if r == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	listing, ok := r.listings[id]
	if !ok {
		return
	}
	listing.Downloads++
	r.listings[id] = listing
}

// Len reports how many listings the registry holds.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listings)
}

func queryMatcher(query string) func(string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	re, err := regexp.Compile("(?i)" + query)
	if err != nil {
		lowered := strings.ToLower(query)
		return func(s string) bool {
			return strings.Contains(strings.ToLower(s), lowered)
		}
	}
	return re.MatchString
}

package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/randytsao24/bizi/internal/models"
)

// Keys under which each collection is stored
const (
	FavoritesKey       = "FavoriteStations"
	RecentSearchesKey  = "RecentSearches"
	RecentLocationsKey = "recentLocations"
)

// MaxRecentLocations bounds the recent location list
const MaxRecentLocations = 5

// KV is the byte store Preferences persists into
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Preferences loads and saves the three user collections. Loads never fail:
// missing or corrupt data comes back as the empty value. Saves log failures
// and return nothing.
type Preferences struct {
	kv KV

	mu   sync.Mutex
	keys map[string]*sync.Mutex
}

// NewPreferences creates a preference store on top of kv
func NewPreferences(kv KV) *Preferences {
	return &Preferences{
		kv:   kv,
		keys: make(map[string]*sync.Mutex),
	}
}

// lock serializes access per key so read-modify-write callers don't lose updates
func (p *Preferences) lock(key string) func() {
	p.mu.Lock()
	m, ok := p.keys[key]
	if !ok {
		m = &sync.Mutex{}
		p.keys[key] = m
	}
	p.mu.Unlock()

	m.Lock()
	return m.Unlock
}

func (p *Preferences) load(ctx context.Context, key string, v any) bool {
	data, ok, err := p.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("loading preference failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("discarding corrupt preference", "key", key, "error", err)
		return false
	}
	return true
}

func (p *Preferences) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding preference failed", "key", key, "error", err)
		return
	}
	if err := p.kv.Put(ctx, key, data); err != nil {
		slog.Error("saving preference failed", "key", key, "error", err)
	}
}

// LoadFavorites returns the stored favorite station IDs
func (p *Preferences) LoadFavorites(ctx context.Context) map[string]struct{} {
	defer p.lock(FavoritesKey)()

	var ids []string
	favorites := make(map[string]struct{})
	if !p.load(ctx, FavoritesKey, &ids) {
		return favorites
	}
	for _, id := range ids {
		favorites[id] = struct{}{}
	}
	return favorites
}

// SaveFavorites stores the favorite set as a sorted list
func (p *Preferences) SaveFavorites(ctx context.Context, favorites map[string]struct{}) {
	defer p.lock(FavoritesKey)()

	ids := make([]string, 0, len(favorites))
	for id := range favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	p.save(ctx, FavoritesKey, ids)
}

// LoadRecentSearches returns recent station searches, newest first
func (p *Preferences) LoadRecentSearches(ctx context.Context) []models.RecentSearch {
	defer p.lock(RecentSearchesKey)()

	var searches []models.RecentSearch
	if !p.load(ctx, RecentSearchesKey, &searches) {
		return []models.RecentSearch{}
	}
	return searches
}

// SaveRecentSearches stores recent station searches
func (p *Preferences) SaveRecentSearches(ctx context.Context, searches []models.RecentSearch) {
	defer p.lock(RecentSearchesKey)()
	p.save(ctx, RecentSearchesKey, searches)
}

// LoadRecentLocations returns recent location searches, newest first
func (p *Preferences) LoadRecentLocations(ctx context.Context) []models.SearchedLocation {
	defer p.lock(RecentLocationsKey)()
	return p.loadRecentLocations(ctx)
}

func (p *Preferences) loadRecentLocations(ctx context.Context) []models.SearchedLocation {
	var locations []models.SearchedLocation
	if !p.load(ctx, RecentLocationsKey, &locations) {
		return []models.SearchedLocation{}
	}
	return locations
}

// SaveRecentLocations stores recent location searches
func (p *Preferences) SaveRecentLocations(ctx context.Context, locations []models.SearchedLocation) {
	defer p.lock(RecentLocationsKey)()
	p.save(ctx, RecentLocationsKey, locations)
}

// AddRecentLocation puts loc at the front of the recent locations, dropping any
// entry with the same name and keeping at most MaxRecentLocations.
func (p *Preferences) AddRecentLocation(ctx context.Context, loc models.SearchedLocation) []models.SearchedLocation {
	defer p.lock(RecentLocationsKey)()

	updated := PrependLocation(p.loadRecentLocations(ctx), loc)
	p.save(ctx, RecentLocationsKey, updated)
	return updated
}

// PrependLocation returns a new list with loc first, same-name entries removed
// and the result bounded to MaxRecentLocations
func PrependLocation(locations []models.SearchedLocation, loc models.SearchedLocation) []models.SearchedLocation {
	result := make([]models.SearchedLocation, 0, MaxRecentLocations)
	result = append(result, loc)
	for _, existing := range locations {
		if existing.Name == loc.Name {
			continue
		}
		if len(result) == MaxRecentLocations {
			break
		}
		result = append(result, existing)
	}
	return result
}

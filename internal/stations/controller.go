// Package stations owns the station list and the state derived from it:
// search text, sort mode, user location, favorites and recent searches.
package stations

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/randytsao24/bizi/internal/models"
)

// MaxRecentSearches bounds the recent station search list
const MaxRecentSearches = 3

// User-facing location status strings
const (
	LocationSearching   = "Buscando ubicación..."
	LocationUnavailable = "No se pudo obtener la ubicación"
)

const loadErrorPrefix = "Error al cargar las estaciones: "

// Fetcher loads the full station list
type Fetcher interface {
	FetchAll(ctx context.Context) ([]models.Station, error)
}

// PreferenceStore persists favorites and recent searches
type PreferenceStore interface {
	LoadFavorites(ctx context.Context) map[string]struct{}
	SaveFavorites(ctx context.Context, favorites map[string]struct{})
	LoadRecentSearches(ctx context.Context) []models.RecentSearch
	SaveRecentSearches(ctx context.Context, searches []models.RecentSearch)
}

// State is a snapshot of everything the presentation layer reads
type State struct {
	Stations       []models.Station      `json:"stations"`
	Total          int                   `json:"total"`
	SearchText     string                `json:"search_text"`
	SortMode       SortMode              `json:"sort_mode"`
	UserLocation   *models.Coordinate    `json:"user_location,omitempty"`
	LocationStatus string                `json:"location_status"`
	Favorites      []string              `json:"favorites"`
	FavoritesOnly  bool                  `json:"favorites_only"`
	RecentSearches []models.RecentSearch `json:"recent_searches"`
	IsLoading      bool                  `json:"is_loading"`
	Error          string                `json:"error,omitempty"`
	LastRefreshed  time.Time             `json:"last_refreshed,omitzero"`
}

// Controller serializes every state change behind one mutex. The only
// operation that runs outside it is the network fetch in Refresh.
type Controller struct {
	fetcher Fetcher
	prefs   PreferenceStore
	now     func() time.Time

	mu             sync.Mutex
	all            []models.Station
	displayed      []models.Station
	searchText     string
	sortMode       SortMode
	userLocation   *models.Coordinate
	locationStatus string
	favorites      map[string]struct{}
	favoritesOnly  bool
	recentSearches []models.RecentSearch
	loading        bool
	errMsg         string
	lastRefreshed  time.Time

	subs   map[int]chan State
	nextID int
}

// New creates a controller and loads persisted favorites and recent searches
func New(ctx context.Context, fetcher Fetcher, prefs PreferenceStore) *Controller {
	c := &Controller{
		fetcher:        fetcher,
		prefs:          prefs,
		now:            time.Now,
		sortMode:       Alphabetical,
		locationStatus: LocationSearching,
		favorites:      prefs.LoadFavorites(ctx),
		recentSearches: prefs.LoadRecentSearches(ctx),
		subs:           make(map[int]chan State),
	}
	if c.favorites == nil {
		c.favorites = make(map[string]struct{})
	}
	if len(c.recentSearches) > MaxRecentSearches {
		c.recentSearches = c.recentSearches[:MaxRecentSearches]
	}
	c.displayed = []models.Station{}
	return c
}

// Refresh fetches the station list and waits for the result. It returns false
// without fetching when a refresh is already in flight.
func (c *Controller) Refresh(ctx context.Context) bool {
	if !c.beginRefresh() {
		return false
	}
	c.runRefresh(ctx)
	return true
}

// StartRefresh is Refresh without waiting: the fetch runs in a new goroutine.
func (c *Controller) StartRefresh(ctx context.Context) bool {
	if !c.beginRefresh() {
		return false
	}
	go c.runRefresh(ctx)
	return true
}

func (c *Controller) beginRefresh() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loading {
		slog.Debug("refresh ignored, fetch already in flight")
		return false
	}
	c.loading = true
	c.errMsg = ""
	c.publishLocked()
	return true
}

func (c *Controller) runRefresh(ctx context.Context) {
	// a panicking fetcher becomes a load error; loading always clears
	defer func() {
		r := recover()

		c.mu.Lock()
		defer c.mu.Unlock()
		if r != nil {
			c.errMsg = loadErrorPrefix + fmt.Sprint(r)
			slog.Error("station refresh panicked", "panic", r, "stack", string(debug.Stack()))
		}
		c.loading = false
		c.publishLocked()
	}()

	start := time.Now()
	stations, err := c.fetcher.FetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.errMsg = loadErrorPrefix + err.Error()
		slog.Warn("station refresh failed", "error", err, "duration", time.Since(start).String())
		return
	}

	c.all = stations
	c.lastRefreshed = c.now()
	c.recomputeLocked()
	slog.Info("stations refreshed", "count", len(stations), "duration", time.Since(start).String())
}

// SetSearchText filters the displayed list by title
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchText = text
	c.recomputeLocked()
	c.publishLocked()
}

// SetSortMode changes the displayed list ordering
func (c *Controller) SetSortMode(mode SortMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sortMode = mode
	c.recomputeLocked()
	c.publishLocked()
}

// SetUserLocation records the latest position reported by the location provider
func (c *Controller) SetUserLocation(coord models.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userLocation = &coord
	c.locationStatus = "Tu ubicación: " + coord.String()
	c.recomputeLocked()
	c.publishLocked()
}

// RequestLocation marks a location lookup as pending
func (c *Controller) RequestLocation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locationStatus = LocationSearching
	c.publishLocked()
}

// LocationFailed reports a location provider failure. The last known
// location, if any, is kept.
func (c *Controller) LocationFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locationStatus = LocationUnavailable
	c.publishLocked()
}

// SetFavoritesOnly restricts the displayed list to favorite stations
func (c *Controller) SetFavoritesOnly(only bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.favoritesOnly = only
	c.recomputeLocked()
	c.publishLocked()
}

// ToggleFavorite flips membership of id in the favorite set, persists it and
// returns the new membership.
func (c *Controller) ToggleFavorite(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, isFav := c.favorites[id]
	if isFav {
		delete(c.favorites, id)
	} else {
		c.favorites[id] = struct{}{}
	}
	c.prefs.SaveFavorites(ctx, c.favorites)

	if c.favoritesOnly {
		c.recomputeLocked()
	}
	c.publishLocked()
	return !isFav
}

// IsFavorite reports whether id is a favorite
func (c *Controller) IsFavorite(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.favorites[id]
	return ok
}

// RecordSearch remembers that the user opened station
func (c *Controller) RecordSearch(ctx context.Context, station models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := models.RecentSearch{
		ID:           uuid.NewString(),
		StationTitle: station.Title,
		Date:         c.now(),
	}
	searches := make([]models.RecentSearch, 0, MaxRecentSearches)
	searches = append(searches, entry)
	searches = append(searches, c.recentSearches...)
	if len(searches) > MaxRecentSearches {
		searches = searches[:MaxRecentSearches]
	}
	c.recentSearches = searches
	c.prefs.SaveRecentSearches(ctx, searches)
	c.publishLocked()
}

// Station returns a station from the last successful fetch
func (c *Controller) Station(id string) (models.Station, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.all {
		if s.ID == id {
			return s, true
		}
	}
	return models.Station{}, false
}

// AllStations returns the unfiltered list from the last successful fetch
func (c *Controller) AllStations() []models.Station {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]models.Station, len(c.all))
	copy(result, c.all)
	return result
}

// State returns a copy of the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe returns a channel that receives the latest state after every
// change, and a function to stop receiving. Slow subscribers only see the
// most recent snapshot.
func (c *Controller) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan State, 1)
	c.subs[id] = ch
	ch <- c.snapshotLocked()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			close(ch)
		})
	}
}

func (c *Controller) recomputeLocked() {
	list := Sort(Filter(c.all, c.searchText), c.sortMode, c.userLocation)
	if c.favoritesOnly {
		list = OnlyFavorites(list, c.favorites)
	}
	c.displayed = list
}

func (c *Controller) publishLocked() {
	if len(c.subs) == 0 {
		return
	}
	st := c.snapshotLocked()
	for _, ch := range c.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- st:
		default:
		}
	}
}

func (c *Controller) snapshotLocked() State {
	displayed := make([]models.Station, len(c.displayed))
	copy(displayed, c.displayed)

	favorites := make([]string, 0, len(c.favorites))
	for id := range c.favorites {
		favorites = append(favorites, id)
	}
	sort.Strings(favorites)

	recent := make([]models.RecentSearch, len(c.recentSearches))
	copy(recent, c.recentSearches)

	var loc *models.Coordinate
	if c.userLocation != nil {
		l := *c.userLocation
		loc = &l
	}

	return State{
		Stations:       displayed,
		Total:          len(c.all),
		SearchText:     c.searchText,
		SortMode:       c.sortMode,
		UserLocation:   loc,
		LocationStatus: c.locationStatus,
		Favorites:      favorites,
		FavoritesOnly:  c.favoritesOnly,
		RecentSearches: recent,
		IsLoading:      c.loading,
		Error:          c.errMsg,
		LastRefreshed:  c.lastRefreshed,
	}
}

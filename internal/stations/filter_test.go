package stations

import (
	"reflect"
	"testing"

	"github.com/randytsao24/bizi/internal/models"
)

func station(id, title string, lon, lat float64) models.Station {
	return models.Station{
		ID:       id,
		Title:    title,
		Geometry: models.Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
		Estado:   models.InService,
	}
}

func ids(list []models.Station) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

func sampleStations() []models.Station {
	return []models.Station{
		station("A", "Zaragoza Centro", -0.8800, 41.6500),
		station("B", "Plaza Roma", -0.9000, 41.6600),
		station("C", "Avenida Goya", -0.8900, 41.6450),
		station("D", "Ávila", -0.8700, 41.6400),
	}
}

func TestFilterEmptyKeepsOrder(t *testing.T) {
	list := sampleStations()
	got := Filter(list, "")
	if !reflect.DeepEqual(ids(got), ids(list)) {
		t.Errorf("Filter(\"\") = %v, want %v", ids(got), ids(list))
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	list := sampleStations()

	if got := ids(Filter(list, "roma")); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Filter(roma) = %v, want [B]", got)
	}
	if got := ids(Filter(list, "PLAZA ROMA")); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("Filter(PLAZA ROMA) = %v, want [B]", got)
	}
	if got := ids(Filter(list, "ÁVILA")); !reflect.DeepEqual(got, []string{"D"}) {
		t.Errorf("Filter(ÁVILA) = %v, want [D]", got)
	}
}

func TestFilterNoMatch(t *testing.T) {
	got := Filter(sampleStations(), "delicias")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil result, got %v", got)
	}
}

func TestFilterEmptyList(t *testing.T) {
	if got := Filter(nil, "x"); len(got) != 0 {
		t.Errorf("expected empty, got %v", got)
	}
}

func TestSortAlphabetical(t *testing.T) {
	list := []models.Station{
		station("A", "Zaragoza Centro", 0, 0),
		station("B", "Plaza Roma", 0, 0),
	}
	got := ids(Sort(list, Alphabetical, nil))
	if !reflect.DeepEqual(got, []string{"B", "A"}) {
		t.Errorf("Sort = %v, want [B A]", got)
	}
}

func TestSortAlphabeticalAccentsCollate(t *testing.T) {
	got := ids(Sort(sampleStations(), Alphabetical, nil))
	want := []string{"C", "D", "B", "A"} // Avenida, Ávila, Plaza, Zaragoza
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Sort = %v, want %v", got, want)
	}
}

func TestSortAlphabeticalIdempotent(t *testing.T) {
	once := Sort(sampleStations(), Alphabetical, nil)
	twice := Sort(once, Alphabetical, nil)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("sorting twice changed order: %v vs %v", ids(once), ids(twice))
	}
}

func TestSortTiesBrokenByID(t *testing.T) {
	list := []models.Station{
		station("9", "Delicias", 0, 0),
		station("2", "Delicias", 0, 0),
		station("5", "Delicias", 0, 0),
	}
	got := ids(Sort(list, Alphabetical, nil))
	if !reflect.DeepEqual(got, []string{"2", "5", "9"}) {
		t.Errorf("Sort = %v, want [2 5 9]", got)
	}
}

func TestSortDistanceWithoutLocationIsAlphabetical(t *testing.T) {
	list := sampleStations()
	byDistance := Sort(list, Distance, nil)
	byName := Sort(list, Alphabetical, nil)
	if !reflect.DeepEqual(ids(byDistance), ids(byName)) {
		t.Errorf("distance w/o location = %v, want %v", ids(byDistance), ids(byName))
	}
}

func TestSortDistance(t *testing.T) {
	user := &models.Coordinate{Latitude: 41.6600, Longitude: -0.9000}
	got := ids(Sort(sampleStations(), Distance, user))
	if got[0] != "B" {
		t.Errorf("nearest station = %s, want B (order %v)", got[0], got)
	}
	if got[len(got)-1] != "D" {
		t.Errorf("farthest station = %s, want D (order %v)", got[len(got)-1], got)
	}
}

func TestSortDistanceTiesByTitle(t *testing.T) {
	user := &models.Coordinate{Latitude: 41.65, Longitude: -0.88}
	list := []models.Station{
		station("1", "Zeta", -0.88, 41.65),
		station("2", "Alfa", -0.88, 41.65),
	}
	got := ids(Sort(list, Distance, user))
	if !reflect.DeepEqual(got, []string{"2", "1"}) {
		t.Errorf("Sort = %v, want [2 1]", got)
	}
}

func TestSortDistanceDuplicateIDs(t *testing.T) {
	user := &models.Coordinate{Latitude: 41.65, Longitude: -0.88}
	list := []models.Station{
		station("", "Far", 10, 10),
		station("", "Near", -0.88, 41.65),
	}
	got := Sort(list, Distance, user)
	if got[0].Title != "Near" || got[1].Title != "Far" {
		t.Errorf("Sort = [%s %s], want [Near Far]", got[0].Title, got[1].Title)
	}
}

func TestSortDistanceMissingGeometryLast(t *testing.T) {
	user := &models.Coordinate{Latitude: 41.65, Longitude: -0.88}
	list := []models.Station{
		{ID: "x", Title: "Sin posición"},
		station("y", "Con posición", -0.9, 41.7),
	}
	got := ids(Sort(list, Distance, user))
	if !reflect.DeepEqual(got, []string{"y", "x"}) {
		t.Errorf("Sort = %v, want [y x]", got)
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	list := sampleStations()
	before := ids(list)
	Sort(list, Alphabetical, nil)
	if !reflect.DeepEqual(ids(list), before) {
		t.Error("Sort mutated its input")
	}
}

func TestOnlyFavorites(t *testing.T) {
	got := ids(OnlyFavorites(sampleStations(), map[string]struct{}{"C": {}, "A": {}}))
	if !reflect.DeepEqual(got, []string{"A", "C"}) {
		t.Errorf("OnlyFavorites = %v, want [A C]", got)
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
		ok   bool
	}{
		{"alphabetical", Alphabetical, true},
		{"Alfabético", Alphabetical, true},
		{"distance", Distance, true},
		{"Cercanía", Distance, true},
		{"random", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseSortMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSortMode(%q) = %q,%v want %q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

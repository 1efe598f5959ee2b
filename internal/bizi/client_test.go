package bizi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const okBody = `{
  "totalCount": 2,
  "start": 0,
  "rows": 2,
  "result": [
    {"id": "1", "title": "Zaragoza Centro", "geometry": {"type": "Point", "coordinates": [-0.88, 41.65]},
     "estado": "IN_SERVICE", "bicisDisponibles": 3, "anclajesDisponibles": 7, "lastUpdated": "2025-02-23T18:04:05"},
    {"id": "2", "title": "Plaza Roma", "geometry": {"type": "Point", "coordinates": [-0.90, 41.66]},
     "estado": "NOT_IN_SERVICE", "bicisDisponibles": 0, "anclajesDisponibles": 10, "lastUpdated": "bad"}
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/estacion-bicicleta", 2*time.Second)
}

func TestFetchAllSuccess(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(okBody))
	})

	stations, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	if stations[0].ID != "1" || stations[0].BicisDisponibles != 3 {
		t.Errorf("unexpected first station: %+v", stations[0])
	}
	if gotPath != "/estacion-bicicleta.json" {
		t.Errorf("path = %q", gotPath)
	}
	for _, want := range []string{"rf=html", "srsname=wgs84", "rows=1000"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestSearchSendsQuery(t *testing.T) {
	var gotQ, gotRows string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQ = r.URL.Query().Get("q")
		gotRows = r.URL.Query().Get("rows")
		_, _ = w.Write([]byte(okBody))
	})

	if _, err := c.Search(context.Background(), "plaza roma"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQ != "plaza roma" {
		t.Errorf("q = %q, want %q", gotQ, "plaza roma")
	}
	if gotRows != "" {
		t.Errorf("search should not send rows, got %q", gotRows)
	}
}

func TestAPIErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status": 400, "mensaje": "Parámetro incorrecto"}`))
	})

	_, err := c.FetchAll(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.Message != "Parámetro incorrecto" || apiErr.Status != 400 {
		t.Errorf("unexpected api error: %+v", apiErr)
	}
	if Kind(err) != "api" {
		t.Errorf("Kind = %q, want api", Kind(err))
	}
}

func TestUnstructuredErrorIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	_, err := c.FetchAll(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if transportErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", transportErr.Status)
	}
}

func TestConnectionFailureIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url+"/estacion-bicicleta", time.Second)
	_, err := c.FetchAll(context.Background())
	if Kind(err) != "transport" {
		t.Fatalf("Kind = %q, want transport (err %v)", Kind(err), err)
	}
}

func TestMissingResultIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"totalCount": 0, "start": 0, "rows": 0}`))
	})

	_, err := c.FetchAll(context.Background())
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T (%v)", err, err)
	}
}

func TestMalformedJSONIsDecodeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": [`))
	})

	_, err := c.FetchAll(context.Background())
	if Kind(err) != "decode" {
		t.Fatalf("Kind = %q, want decode (err %v)", Kind(err), err)
	}
}

func TestOversizedBodyIsTransport(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(okBody))
	})
	c.maxBytes = 64

	_, err := c.FetchAll(context.Background())
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T (%v)", err, err)
	}
	if !strings.Contains(err.Error(), "exceeds 64 bytes") {
		t.Errorf("error = %v", err)
	}

	c.maxBytes = int64(len(okBody))
	stations, err := c.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("body at the limit should decode: %v", err)
	}
	if len(stations) != 2 {
		t.Errorf("stations = %d, want 2", len(stations))
	}
}

func TestKindUnknown(t *testing.T) {
	if Kind(errors.New("boom")) != "unknown" {
		t.Error("plain error should be unknown")
	}
}

package insight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestDecodeRecordsBareArray(t *testing.T) {
	records, err := decodeRecords([]byte(`[{"slid":"SL-1"},{"slid":"SL-2"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 || records[0]["slid"] != "SL-1" {
		t.Errorf("unexpected records: %v", records)
	}
}

func TestDecodeRecordsRowsEnvelope(t *testing.T) {
	records, err := decodeRecords([]byte(`{"total":2,"rows":[{"slid":"SL-1"},{"slid":"SL-2"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("expected 2 records, got %d", len(records))
	}
}

func TestDecodeRecordsItemsEnvelope(t *testing.T) {
	records, err := decodeRecords([]byte(`{"items":[{"slid":"SL-1"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestDecodeRecordsNestedData(t *testing.T) {
	// one level of "data" recursion, as in {"code":0,"data":{"rows":[...]}}
	records, err := decodeRecords([]byte(`{"code":0,"data":{"rows":[{"slid":"SL-1"}]}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}

func TestDecodeRecordsUnrecognized(t *testing.T) {
	if _, err := decodeRecords([]byte(`{"message":"pong"}`)); err == nil {
		t.Error("expected error for payload without a record collection")
	}
}

func TestPathVariantsOrder(t *testing.T) {
	got := pathVariants("slabs")
	want := []string{"/api/v1/slabs", "/api/slabs", "/api/slab", "/api/quarry/slabs", "/slabs"}
	if len(got) != len(want) {
		t.Fatalf("expected %d variants, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	// irregular plural
	if pathVariants("dispatches")[2] != "/api/dispatch" {
		t.Errorf("expected /api/dispatch singular variant, got %s", pathVariants("dispatches")[2])
	}
}

func TestHTTPSourceFallsBackThroughPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// only the namespaced spelling answers
		if r.URL.Path == "/api/quarry/slabs" {
			w.Write([]byte(`{"rows":[{"slid":"SL-1"}]}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "", zap.NewNop())
	records := src.List(context.Background(), "slabs")
	if len(records) != 1 || records[0]["slid"] != "SL-1" {
		t.Errorf("expected fallback to namespaced path, got %v", records)
	}
}

func TestHTTPSourceSkipsEmptyMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/slabs":
			w.Write([]byte(`[]`)) // valid but empty, keep trying
		case "/api/slabs":
			w.Write([]byte(`[{"slid":"SL-2"}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "", zap.NewNop())
	records := src.List(context.Background(), "slabs")
	if len(records) != 1 || records[0]["slid"] != "SL-2" {
		t.Errorf("expected non-empty match from second path, got %v", records)
	}
}

func TestHTTPSourceAllFailReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "", zap.NewNop())
	if records := src.List(context.Background(), "slabs"); len(records) != 0 {
		t.Errorf("expected empty result when every path fails, got %v", records)
	}
}

func TestHTTPSourceSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"slid":"SL-1"}]`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, "secret-token", zap.NewNop())
	src.List(context.Background(), "slabs")
	if gotAuth != "Bearer secret-token" {
		t.Errorf("expected bearer header, got %q", gotAuth)
	}
}

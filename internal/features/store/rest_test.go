package store

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-datasync/internal/features/normalize"
)

func testRESTBackend(serverURL string) *RESTBackend {
	return &RESTBackend{
		http:       &http.Client{Timeout: 5 * time.Second},
		baseURL:    serverURL,
		serviceKey: "service-key",
	}
}

func TestRESTUpsertChunk(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if !strings.HasPrefix(r.URL.Path, "/rest/v1/invoices") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.URL.Query().Get("on_conflict") != "internal_id" {
			t.Errorf("on_conflict = %s", r.URL.Query().Get("on_conflict"))
		}
		if got := r.Header.Get("Prefer"); !strings.Contains(got, "resolution=merge-duplicates") {
			t.Errorf("Prefer = %s (duplicates must merge, never be ignored)", got)
		}
		if r.Header.Get("apikey") != "service-key" {
			t.Error("missing apikey header")
		}
		fmt.Fprint(w, `[{"internal_id":1},{"internal_id":2}]`)
	}))
	defer server.Close()

	rows := []normalize.TypedRow{{"internal_id": int64(1)}, {"internal_id": int64(2)}}
	returned, err := testRESTBackend(server.URL).UpsertChunk(context.Background(), "invoices", rows, "internal_id")
	if err != nil {
		t.Fatalf("UpsertChunk: %v", err)
	}
	if returned != 2 {
		t.Errorf("returned = %d, want 2", returned)
	}
}

func TestRESTUpsertChunkStoreError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"duplicate key"}`)
	}))
	defer server.Close()

	_, err := testRESTBackend(server.URL).UpsertChunk(context.Background(), "invoices", makeRows(1), "id")
	if err == nil {
		t.Fatal("expected error on HTTP 409")
	}
}

func TestRESTCountRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Prefer"), "count=exact") {
			t.Errorf("Prefer = %s", r.Header.Get("Prefer"))
		}
		w.Header().Set("Content-Range", "0-0/1234")
		w.WriteHeader(http.StatusPartialContent)
	}))
	defer server.Close()

	count, err := testRESTBackend(server.URL).CountRows(context.Background(), "invoices")
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if count != 1234 {
		t.Errorf("count = %d, want 1234", count)
	}
}

func TestRESTProbe(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantFound bool
		wantErr   bool
	}{
		{"table exists", http.StatusOK, true, false},
		{"table missing", http.StatusNotFound, false, false},
		{"bad credentials", http.StatusUnauthorized, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			found, err := testRESTBackend(server.URL).Probe(context.Background(), "invoices")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
		})
	}
}

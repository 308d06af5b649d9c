package dns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cloudflare/cloudflare-go/v2/option"
	domainerr "github.com/litewave/dnsproof/internal/domain"
)

const (
	testZoneID = "023e105f4ecef8ad9ca31a8372d0c353"
	testToken  = "test-token"
	testRoot   = "example.com"
)

type fakeRecord struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
}

// fakeCloudflare emulates the slice of the Cloudflare v4 API the provider
// touches: zone detail, record create, filtered record list, record delete.
type fakeCloudflare struct {
	mu       sync.Mutex
	records  []fakeRecord
	nextID   int
	zoneGets int
	deletes  []string
}

func (f *fakeCloudflare) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer "+testToken {
			t.Errorf("unexpected Authorization header: %q", got)
			http.Error(w, "unauthorized", http.StatusForbidden)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		zonePath := "/zones/" + testZoneID
		recordsPath := zonePath + "/dns_records"

		switch {
		case r.Method == http.MethodGet && r.URL.Path == zonePath:
			f.zoneGets++
			writeEnvelope(w, map[string]any{"id": testZoneID, "name": testRoot})

		case r.Method == http.MethodPost && r.URL.Path == recordsPath:
			var body fakeRecord
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			f.nextID++
			body.ID = fmt.Sprintf("rec-%d", f.nextID)
			f.records = append(f.records, body)
			writeEnvelope(w, body)

		case r.Method == http.MethodGet && r.URL.Path == recordsPath:
			q := r.URL.Query()
			if page := q.Get("page"); page != "" && page != "1" {
				writeList(w, nil)
				return
			}
			var matches []fakeRecord
			for _, rec := range f.records {
				if q.Get("type") != "" && rec.Type != q.Get("type") {
					continue
				}
				if q.Get("name") != "" && rec.Name != q.Get("name") {
					continue
				}
				if q.Get("content") != "" && rec.Content != q.Get("content") {
					continue
				}
				matches = append(matches, rec)
			}
			writeList(w, matches)

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, recordsPath+"/"):
			id := strings.TrimPrefix(r.URL.Path, recordsPath+"/")
			f.deletes = append(f.deletes, id)
			kept := f.records[:0]
			for _, rec := range f.records {
				if rec.ID != id {
					kept = append(kept, rec)
				}
			}
			f.records = kept
			writeEnvelope(w, map[string]any{"id": id})

		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})
}

func writeEnvelope(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"errors":   []any{},
		"messages": []any{},
		"result":   result,
	})
}

func writeList(w http.ResponseWriter, results []fakeRecord) {
	if results == nil {
		results = []fakeRecord{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"errors":   []any{},
		"messages": []any{},
		"result":   results,
		"result_info": map[string]any{
			"page":        1,
			"per_page":    100,
			"count":       len(results),
			"total_count": len(results),
		},
	})
}

func newTestProvider(t *testing.T) (*CloudflareProvider, *fakeCloudflare) {
	t.Helper()
	fake := &fakeCloudflare{}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	provider, err := NewCloudflareProvider(testToken, testZoneID, option.WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("NewCloudflareProvider() error = %v", err)
	}
	return provider, fake
}

func TestNewCloudflareProvider_Validation(t *testing.T) {
	tests := []struct {
		name     string
		apiToken string
		zoneID   string
	}{
		{"empty token", "", testZoneID},
		{"empty zone id", testToken, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCloudflareProvider(tt.apiToken, tt.zoneID)
			if !errors.Is(err, domainerr.ErrRequired) {
				t.Errorf("NewCloudflareProvider() error = %v, want ErrRequired", err)
			}
		})
	}
}

func TestCloudflareProvider_RootDomainCached(t *testing.T) {
	provider, fake := newTestProvider(t)
	ctx := context.Background()

	for range 3 {
		root, err := provider.RootDomain(ctx)
		if err != nil {
			t.Fatalf("RootDomain() error = %v", err)
		}
		if root != testRoot {
			t.Fatalf("RootDomain() = %q, want %q", root, testRoot)
		}
	}

	if fake.zoneGets != 1 {
		t.Errorf("zone detail fetched %d times, want 1", fake.zoneGets)
	}
}

func TestCloudflareProvider_AddTXTRecord(t *testing.T) {
	provider, fake := newTestProvider(t)
	ctx := context.Background()

	record, err := provider.AddTXTRecord(ctx, "_acme-challenge.example.com", "digest-value")
	if err != nil {
		t.Fatalf("AddTXTRecord() error = %v", err)
	}
	if record.DomainName != "_acme-challenge.example.com" || record.TXTValue != "digest-value" {
		t.Errorf("unexpected record context: %+v", record)
	}

	if len(fake.records) != 1 {
		t.Fatalf("backend has %d records, want 1", len(fake.records))
	}
	got := fake.records[0]
	if got.Type != "TXT" {
		t.Errorf("record type = %q, want TXT", got.Type)
	}
	if got.Name != "_acme-challenge" {
		t.Errorf("record name = %q, want relative name %q", got.Name, "_acme-challenge")
	}
	if got.Content != "digest-value" {
		t.Errorf("record content = %q, want %q", got.Content, "digest-value")
	}
	if got.TTL != ChallengeTTL {
		t.Errorf("record ttl = %d, want %d", got.TTL, ChallengeTTL)
	}
}

func TestCloudflareProvider_AddTXTRecord_ZoneApex(t *testing.T) {
	provider, fake := newTestProvider(t)

	if _, err := provider.AddTXTRecord(context.Background(), testRoot, "v"); err != nil {
		t.Fatalf("AddTXTRecord() error = %v", err)
	}
	if fake.records[0].Name != "@" {
		t.Errorf("record name = %q, want @", fake.records[0].Name)
	}
}

func TestCloudflareProvider_AddTXTRecord_OutOfZone(t *testing.T) {
	provider, _ := newTestProvider(t)

	_, err := provider.AddTXTRecord(context.Background(), "other.org", "v")
	if !errors.Is(err, domainerr.ErrDomainOutOfZone) {
		t.Errorf("AddTXTRecord() error = %v, want ErrDomainOutOfZone", err)
	}
}

func TestCloudflareProvider_AddTXTRecord_EmptyArgs(t *testing.T) {
	provider, _ := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.AddTXTRecord(ctx, "", "v"); !errors.Is(err, domainerr.ErrRequired) {
		t.Errorf("empty domain: error = %v, want ErrRequired", err)
	}
	if _, err := provider.AddTXTRecord(ctx, "sub.example.com", ""); !errors.Is(err, domainerr.ErrRequired) {
		t.Errorf("empty value: error = %v, want ErrRequired", err)
	}
}

func TestCloudflareProvider_RemoveTXTRecord_RoundTrip(t *testing.T) {
	provider, fake := newTestProvider(t)
	ctx := context.Background()

	record, err := provider.AddTXTRecord(ctx, "sub.example.com", "v1")
	if err != nil {
		t.Fatalf("AddTXTRecord() error = %v", err)
	}

	if err := provider.RemoveTXTRecord(ctx, record); err != nil {
		t.Fatalf("RemoveTXTRecord() error = %v", err)
	}
	if len(fake.deletes) != 1 {
		t.Fatalf("backend saw %d deletes, want 1", len(fake.deletes))
	}
	if len(fake.records) != 0 {
		t.Errorf("backend still has %d records after remove", len(fake.records))
	}

	// The record is gone; a second remove must report not-found without
	// issuing another delete.
	err = provider.RemoveTXTRecord(ctx, record)
	if !errors.Is(err, domainerr.ErrDNSRecordNotFound) {
		t.Errorf("second RemoveTXTRecord() error = %v, want ErrDNSRecordNotFound", err)
	}
	if len(fake.deletes) != 1 {
		t.Errorf("backend saw %d deletes after not-found remove, want 1", len(fake.deletes))
	}
}

func TestCloudflareProvider_RemoveTXTRecord_MatchesByValue(t *testing.T) {
	provider, fake := newTestProvider(t)
	ctx := context.Background()

	if _, err := provider.AddTXTRecord(ctx, "sub.example.com", "keep"); err != nil {
		t.Fatalf("AddTXTRecord() error = %v", err)
	}
	record, err := provider.AddTXTRecord(ctx, "sub.example.com", "drop")
	if err != nil {
		t.Fatalf("AddTXTRecord() error = %v", err)
	}

	if err := provider.RemoveTXTRecord(ctx, record); err != nil {
		t.Fatalf("RemoveTXTRecord() error = %v", err)
	}

	if len(fake.records) != 1 {
		t.Fatalf("backend has %d records, want 1", len(fake.records))
	}
	if fake.records[0].Content != "keep" {
		t.Errorf("remaining record content = %q, want %q", fake.records[0].Content, "keep")
	}
}

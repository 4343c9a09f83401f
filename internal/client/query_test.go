package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newCountingServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"skills":[{"name":"pdf","source":"global","type":"knowledge"}]}`)
	}))
}

func TestQueryCachesWithinTTL(t *testing.T) {
	var hits atomic.Int64
	ts := newCountingServer(t, &hits)
	defer ts.Close()

	q := NewSkillsQuery(New(ts.URL, "u1"), time.Minute)

	for i := 0; i < 3; i++ {
		skills, err := q.Get(context.Background())
		if err != nil {
			t.Fatalf("Get %d: %v", i, err)
		}
		if len(skills) != 1 {
			t.Fatalf("Get %d: got %d skills, want 1", i, len(skills))
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestQueryRefetchesAfterInvalidate(t *testing.T) {
	var hits atomic.Int64
	ts := newCountingServer(t, &hits)
	defer ts.Close()

	q := NewSkillsQuery(New(ts.URL, "u1"), time.Minute)

	if _, err := q.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	q.Invalidate()
	if _, err := q.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2", n)
	}
}

func TestQueryExpiresAfterTTL(t *testing.T) {
	var hits atomic.Int64
	ts := newCountingServer(t, &hits)
	defer ts.Close()

	q := NewSkillsQuery(New(ts.URL, "u1"), 30*time.Millisecond)

	if _, err := q.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	time.Sleep(80 * time.Millisecond)
	if _, err := q.Get(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2", n)
	}
}

func TestQuerySharesInflightFetch(t *testing.T) {
	var hits atomic.Int64
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		fmt.Fprint(w, `{"skills":[]}`)
	}))
	defer ts.Close()

	q := NewSkillsQuery(New(ts.URL, "u1"), time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := q.Get(context.Background()); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	// Let the goroutines pile up on the in-flight fetch, then release it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestQueryDoesNotCacheErrors(t *testing.T) {
	var hits atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if hits.Load() == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"boom"}`)
			return
		}
		fmt.Fprint(w, `{"skills":[]}`)
	}))
	defer ts.Close()

	q := NewSkillsQuery(New(ts.URL, "u1"), time.Minute)

	if _, err := q.Get(context.Background()); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	if _, err := q.Get(context.Background()); err != nil {
		t.Fatalf("second fetch should succeed, got %v", err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hit %d times, want 2", n)
	}
}

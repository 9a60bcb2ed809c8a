package pool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmagro/eth-indexer/internal/rpc"
)

// jsonRPCServer answers every request with a canned "0x2a" result after an
// optional artificial delay, letting tests exercise concurrency caps
// without a real Ethereum node.
func jsonRPCServer(t *testing.T, delay time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if delay > 0 {
			time.Sleep(delay)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x2a"}`))
	}))
}

// concurrencyTrackingServer counts how many requests are being handled
// simultaneously, reporting the peak via peak.
func concurrencyTrackingServer(t *testing.T, delay time.Duration, peak *int32, current *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(current, 1)
		for {
			old := atomic.LoadInt32(peak)
			if n <= old || atomic.CompareAndSwapInt32(peak, old, n) {
				break
			}
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		atomic.AddInt32(current, -1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x2a"}`))
	}))
}

func newTestPool(t *testing.T, n, perEndpointParallel int, delay time.Duration) (*Pool, []*httptest.Server) {
	t.Helper()
	var servers []*httptest.Server
	var clients []*rpc.Client
	for i := 0; i < n; i++ {
		srv := jsonRPCServer(t, delay)
		servers = append(servers, srv)
		clients = append(clients, rpc.NewClient(rpc.Config{Name: srv.URL, URL: srv.URL}))
	}
	p, err := New(clients, perEndpointParallel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, servers
}

func closeAll(servers []*httptest.Server) {
	for _, s := range servers {
		s.Close()
	}
}

func TestNewRejectsEmptyClientList(t *testing.T) {
	if _, err := New(nil, 1); err == nil {
		t.Fatal("expected error for empty client list")
	}
}

func TestNewClampsParallelismToOne(t *testing.T) {
	p, servers := newTestPool(t, 1, 0, 0)
	defer closeAll(servers)
	if cap(p.endpoints[0].sem) != 1 {
		t.Errorf("perEndpointParallel <= 0 should clamp to 1, got cap %d", cap(p.endpoints[0].sem))
	}
}

func TestRRRequestReturnsResult(t *testing.T) {
	p, servers := newTestPool(t, 1, 2, 0)
	defer closeAll(servers)

	raw, err := p.RRRequest(context.Background(), "eth_blockNumber", nil)
	if err != nil {
		t.Fatalf("RRRequest: %v", err)
	}
	if string(raw) != `"0x2a"` {
		t.Errorf("got %s, want \"0x2a\"", raw)
	}
}

func TestRRRequestRoundRobinsAcrossEndpoints(t *testing.T) {
	p, servers := newTestPool(t, 3, 4, 0)
	defer closeAll(servers)

	const calls = 30
	for i := 0; i < calls; i++ {
		if _, err := p.RRRequest(context.Background(), "eth_blockNumber", nil); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}

	total := uint64(0)
	for _, snap := range p.Stats() {
		total += snap.Requests
		if snap.Requests < calls/len(servers)-1 || snap.Requests > calls/len(servers)+1 {
			t.Errorf("endpoint %s got %d requests, expected close to %d", snap.Name, snap.Requests, calls/len(servers))
		}
	}
	if total != calls {
		t.Errorf("total requests = %d, want %d", total, calls)
	}
}

func TestStatsAreMonotonic(t *testing.T) {
	p, servers := newTestPool(t, 1, 4, 0)
	defer closeAll(servers)

	var prevReqs, prevOk uint64
	for i := 0; i < 5; i++ {
		if _, err := p.RRRequest(context.Background(), "eth_blockNumber", nil); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		snap := p.Stats()[0]
		if snap.Requests < prevReqs || snap.Successes < prevOk {
			t.Fatalf("stats regressed: requests %d -> %d, successes %d -> %d", prevReqs, snap.Requests, prevOk, snap.Successes)
		}
		prevReqs, prevOk = snap.Requests, snap.Successes
	}
	if prevReqs != 5 || prevOk != 5 {
		t.Errorf("after 5 calls: requests=%d successes=%d, want 5/5", prevReqs, prevOk)
	}
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestTailLatencyEmptyBeforeAnyRequests(t *testing.T) {
	p, servers := newTestPool(t, 1, 1, 0)
	defer closeAll(servers)

	if got := p.Stats()[0].Tail; got != (TailLatency{}) {
		t.Errorf("tail latency before any requests = %+v, want zero value", got)
	}
}

func TestTailLatencySmallSampleEqualsMax(t *testing.T) {
	p, servers := newTestPool(t, 1, 1, 0)
	defer closeAll(servers)

	for i := 0; i < 3; i++ {
		if _, err := p.RRRequest(context.Background(), "eth_blockNumber", nil); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	tail := p.Stats()[0].Tail
	if tail.P95 != tail.Max || tail.P99 != tail.Max {
		t.Errorf("P95/P99 of a 3-sample set should equal Max, got P95=%v P99=%v Max=%v", tail.P95, tail.P99, tail.Max)
	}
}

func TestPercentileMedian(t *testing.T) {
	sorted := []time.Duration{ms(10), ms(20), ms(30), ms(40)}
	if got := percentile(sorted, 0.50); got != ms(20) {
		t.Errorf("P50 = %v, want %v", got, ms(20))
	}
}

func TestPercentileEmptySlice(t *testing.T) {
	if got := percentile(nil, 0.5); got != 0 {
		t.Errorf("percentile of empty slice = %v, want 0", got)
	}
}

func TestSemaphoreBoundsConcurrencyPerEndpoint(t *testing.T) {
	const parallel = 2
	var peak, current int32
	srv := concurrencyTrackingServer(t, 50*time.Millisecond, &peak, &current)
	defer srv.Close()

	client := rpc.NewClient(rpc.Config{Name: srv.URL, URL: srv.URL})
	p, err := New([]*rpc.Client{client}, parallel)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.RRRequest(context.Background(), "eth_blockNumber", nil)
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&peak); got > parallel {
		t.Errorf("observed %d concurrent in-flight calls, want <= %d", got, parallel)
	}
}

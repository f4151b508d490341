// Command shopsession-loadtest measures snapshot persistence throughput: the
// encode/save path every session mutation takes, and the load/decode/migrate
// path hydration takes. It runs against a real redis when -redis-addr (or
// REDIS_ADDR) is set, and an embedded miniredis otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/babakneza/shopsession/internal/tokenclock"
	"github.com/babakneza/shopsession/session"
)

func main() {
	var (
		clients     = flag.Int("clients", 10000, "number of stored sessions to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (save + hydrate)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "shopsession:loadtest", "session key prefix")
	)
	flag.Parse()

	if *clients <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "clients, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var cleanup func()
	var client *redis.Client
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		client = redis.NewClient(&redis.Options{Addr: mr.Addr()})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", mr.Addr())
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	stores := make([]*session.RedisStore, *clients)
	for i := range stores {
		stores[i] = session.NewRedisStore(client, fmt.Sprintf("%s:%d", *prefix, i), 24*time.Hour)
	}

	fmt.Printf("seeding %d sessions...\n", *clients)
	startSeed := time.Now()
	now := time.Now()
	for i, store := range stores {
		data, err := session.Encode(buildSession(i, now))
		if err != nil {
			fmt.Fprintf(os.Stderr, "encode failed: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(ctx, data); err != nil {
			fmt.Fprintf(os.Stderr, "seed save failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	saveStats := runSavePhase(ctx, stores, *ops, *concurrency)
	hydrateStats := runHydratePhase(ctx, stores, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("save", saveStats)
	printStats("hydrate", hydrateStats)
}

func runSavePhase(ctx context.Context, stores []*session.RedisStore, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(stores))
				data, err := session.Encode(buildSession(idx, time.Now()))
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}

				t0 := time.Now()
				err = stores[idx].Save(ctx, data)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

func runHydratePhase(ctx context.Context, stores []*session.RedisStore, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*6151))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(stores))

				t0 := time.Now()
				data, err := stores[idx].Load(ctx)
				if err == nil {
					var stored session.Session
					var version int
					stored, version, err = session.Decode(data)
					if err == nil {
						_ = session.Migrate(stored, version, time.Now(), session.MinTokenLength)
					}
				}
				d := time.Since(t0)

				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}

func buildSession(i int, now time.Time) session.Session {
	return session.Session{
		User: &session.User{
			ID:    fmt.Sprintf("user-%d", i),
			Email: fmt.Sprintf("user-%d@example.com", i),
		},
		AccessToken:     fmt.Sprintf("access-token-%032d", i),
		RefreshToken:    fmt.Sprintf("refresh-token-%032d", i),
		IsAuthenticated: true,
		RememberMe:      i%2 == 0,
		CustomerID:      fmt.Sprintf("cust-%d", i),
		TokenExpiresAt:  tokenclock.ComputeExpiry(now, 15*time.Minute),
	}
}

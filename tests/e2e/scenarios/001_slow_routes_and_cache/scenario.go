package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"sync"
	"time"

	"pulse-reports/internal/models"
	"pulse-reports/internal/stores"
)

// ### Start - fixed configs (no change)
// These values must match configs/configs.yml and the expected results below.
// DO NOT MODIFY: the expectations are derived from them by hand.
const (
	phaseSeed  = "seed"
	phaseQuery = "query"
)

type requestSeed struct {
	route      string
	durationMs int64
	ago        time.Duration
}

type cacheHitSeed struct {
	key string
	hit bool
	ago time.Duration
}

var (
	requestSeeds = []requestSeed{
		{"GET /users/{user}", 1200, 5 * time.Minute},
		{"GET /users/{user}", 1500, 12 * time.Minute},
		{"GET /users/{user}", 900, 15 * time.Minute},
		{"POST /orders", 1100, 20 * time.Minute},
		{"POST /orders", 2500, 2 * time.Hour},
		{"GET /health", 1000, 25 * time.Minute},
		{"GET /health", 40, 25 * time.Minute},
		{"GET /reports", 8000, 30 * time.Hour},
	}
	cacheHitSeeds = []cacheHitSeed{
		{"user:1", true, 2 * time.Minute},
		{"user:2", false, 3 * time.Minute},
		{"user:1", true, 4 * time.Minute},
		{"session:abc", true, 5 * time.Minute},
		{"sess:x", false, 6 * time.Minute},
		{"config:app", true, 7 * time.Minute},
		{"other:1", false, 8 * time.Minute},
		{"user:9", true, 3 * time.Hour},
	}
)

// ### End - fixed configs

func strPtr(s string) *string { return &s }

var (
	wantSlowRoutes1Hour = []models.SlowRouteSummary{
		{URI: "GET /users/{user}", Action: strPtr("UserController@show"), RequestCount: 2, SlowestDuration: 1500},
		{URI: "POST /orders", Action: strPtr("OrderController@store"), RequestCount: 1, SlowestDuration: 1100},
		{URI: "GET /health", Action: nil, RequestCount: 1, SlowestDuration: 1000},
	}
	wantSlowRoutes6Hours = []models.SlowRouteSummary{
		{URI: "POST /orders", Action: strPtr("OrderController@store"), RequestCount: 2, SlowestDuration: 2500},
		{URI: "GET /users/{user}", Action: strPtr("UserController@show"), RequestCount: 2, SlowestDuration: 1500},
		{URI: "GET /health", Action: nil, RequestCount: 1, SlowestDuration: 1000},
	}
	wantCacheAll1Hour  = models.CacheInteractionSummary{Count: 7, Hits: 4}
	wantCacheAll6Hours = models.CacheInteractionSummary{Count: 8, Hits: 5}
	wantMonitored1Hour = []models.MonitoredCacheInteraction{
		{Name: "Users", Pattern: "^user:[0-9]+$", UniqueKeys: 2, Hits: 2, Count: 3},
		{Name: "Sessions", Pattern: "^sess(ion)?:", UniqueKeys: 2, Hits: 1, Count: 2},
		{Name: "^config:", Pattern: "^config:", UniqueKeys: 1, Hits: 1, Count: 1},
	}
)

// main runs the e2e scenario: 001_slow_routes_and_cache
//
// The scenario runs in two phases because DuckDB holds an exclusive lock on its database file.
//
//	SCENARIO_PHASE=seed  writes deterministic request and cache hit events, anchored on the current
//	                     time, into the event store file. Run it while the server is stopped.
//	SCENARIO_PHASE=query (default) queries a running server started with
//	                     PULSE_EVENT_STORE_PATH pointing at the same file and the memory cache backend.
//
// What it tests:
//   - Slow routes grouping, threshold inclusion, slowest-first ordering and handler resolution
//   - Cache totals and monitored pattern bucketing with first-match-wins
//   - Period windows (1_hour vs 6_hours)
//   - cached_only returning an empty report before the first computation
//   - Memoization: repeated and concurrent requests share one computation (same computedAt)
func main() {
	// these configs can be changed to run the scenario
	baseURL := getEnv("BASE_URL", "http://localhost:8080")            // Base URL of the report API server
	phase := getEnv("SCENARIO_PHASE", phaseQuery)                     // seed or query
	eventStoreFile := getEnv("EVENT_STORE_FILE", ".tmp/pulse.duckdb") // DuckDB file relative to project root
	parallel := getEnvInt("PARALLEL", 16)                             // Number of concurrent report requests
	wantCleanEventStore := getEnvBool("WANT_CLEAN_EVENT_STORE", true) // Remove the DuckDB file before seeding

	fmt.Println("Starting e2e scenario: 001_slow_routes_and_cache")
	fmt.Printf("PHASE: %s\n", phase)

	switch phase {
	case phaseSeed:
		storePath, err := resolveFromProjectRoot(eventStoreFile)
		if err != nil {
			fail("Failed to resolve event store path: %v", err)
		}
		fmt.Printf("EVENT_STORE_PATH: %s\n", storePath)
		if err := seed(storePath, wantCleanEventStore); err != nil {
			fail("Seeding failed: %v", err)
		}
		fmt.Printf("Seeded %d requests and %d cache hits\n", len(requestSeeds), len(cacheHitSeeds))
	case phaseQuery:
		fmt.Printf("BASE_URL: %s\n", baseURL)
		fmt.Printf("PARALLEL: %d\n", parallel)
		if errs := query(baseURL, parallel); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			}
			fail("%d checks failed", len(errs))
		}
	default:
		fail("unknown SCENARIO_PHASE %q", phase)
	}

	fmt.Println("Scenario completed successfully")
}

func seed(storePath string, clean bool) error {
	if clean {
		fmt.Printf("Cleaning event store file: %s\n", storePath)
		if err := os.Remove(storePath); err != nil && !os.IsNotExist(err) {
			return err
		}
		_ = os.Remove(storePath + ".wal")
	}

	store, err := stores.NewDuckDBEventStore(storePath, 30*time.Second)
	if err != nil {
		return err
	}
	defer store.Close()

	now := time.Now().UTC()
	requests := make([]models.RequestEvent, 0, len(requestSeeds))
	for _, s := range requestSeeds {
		requests = append(requests, models.RequestEvent{Route: s.route, DurationMs: s.durationMs, RecordedAt: now.Add(-s.ago)})
	}
	cacheHits := make([]models.CacheHitEvent, 0, len(cacheHitSeeds))
	for _, s := range cacheHitSeeds {
		cacheHits = append(cacheHits, models.CacheHitEvent{Key: s.key, Hit: s.hit, RecordedAt: now.Add(-s.ago)})
	}

	ctx := context.Background()
	if err := store.AppendRequests(ctx, requests); err != nil {
		return err
	}
	return store.AppendCacheHits(ctx, cacheHits)
}

func query(baseURL string, parallel int) []error {
	var errs []error
	check := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	// cold cache: nothing computed for 24_hours yet
	var cold models.SlowRoutesReport
	check(getJSON(baseURL+"/reports/slow-routes?period=24_hours&cached_only=true", &cold))
	if cold.SlowRoutes != nil || cold.ComputedAt != nil {
		errs = append(errs, fmt.Errorf("cached_only before compute: got %+v, want empty report", cold))
	}

	var slow1h models.SlowRoutesReport
	check(getJSON(baseURL+"/reports/slow-routes", &slow1h))
	check(expectEqual("slow routes 1_hour", wantSlowRoutes1Hour, slow1h.SlowRoutes))

	var slow1hAgain models.SlowRoutesReport
	check(getJSON(baseURL+"/reports/slow-routes?period=1_hour&cached_only=true", &slow1hAgain))
	check(expectSameComputation("slow routes 1_hour cached_only", slow1h.ComputedAt, slow1hAgain.ComputedAt))

	var cache1h models.CacheReport
	check(getJSON(baseURL+"/reports/cache?period=1_hour", &cache1h))
	if cache1h.All == nil {
		errs = append(errs, fmt.Errorf("cache 1_hour: missing all summary"))
	} else {
		check(expectEqual("cache all 1_hour", wantCacheAll1Hour, *cache1h.All))
	}
	check(expectEqual("cache monitored 1_hour", wantMonitored1Hour, cache1h.Monitored))

	// concurrent burst on a cold 6_hours window
	slowReports := make([]models.SlowRoutesReport, parallel)
	cacheReports := make([]models.CacheReport, parallel)
	burstErrs := make([]error, parallel)
	var wg sync.WaitGroup
	for i := 0; i < parallel; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := getJSON(baseURL+"/reports/slow-routes?period=6_hours", &slowReports[i]); err != nil {
				burstErrs[i] = err
				return
			}
			burstErrs[i] = getJSON(baseURL+"/reports/cache?period=6_hours", &cacheReports[i])
		}(i)
	}
	wg.Wait()

	for i := 0; i < parallel; i++ {
		if burstErrs[i] != nil {
			errs = append(errs, fmt.Errorf("burst request %d: %w", i, burstErrs[i]))
			continue
		}
		check(expectEqual("slow routes 6_hours", wantSlowRoutes6Hours, slowReports[i].SlowRoutes))
		check(expectSameComputation("slow routes 6_hours burst", slowReports[0].ComputedAt, slowReports[i].ComputedAt))
		if cacheReports[i].All != nil {
			check(expectEqual("cache all 6_hours", wantCacheAll6Hours, *cacheReports[i].All))
		}
		check(expectSameComputation("cache all 6_hours burst", cacheReports[0].AllComputedAt, cacheReports[i].AllComputedAt))
	}

	fmt.Println("=== Results ===")
	fmt.Printf("slow routes 1_hour: %d routes, computed in %dms\n", len(slow1h.SlowRoutes), slow1h.ComputeTimeMs)
	fmt.Printf("cache 1_hour: all computed in %dms, monitored computed in %dms\n", cache1h.AllComputeTimeMs, cache1h.MonitoredComputeTimeMs)
	fmt.Printf("burst requests: %d\n", parallel)

	return errs
}

func getJSON(url string, out any) error {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode: %w", url, err)
	}
	return nil
}

func expectEqual(what string, want, got any) error {
	if !reflect.DeepEqual(want, got) {
		wantJSON, _ := json.Marshal(want)
		gotJSON, _ := json.Marshal(got)
		return fmt.Errorf("%s: want %s, got %s", what, wantJSON, gotJSON)
	}
	return nil
}

func expectSameComputation(what string, want, got *time.Time) error {
	if want == nil || got == nil {
		return fmt.Errorf("%s: missing computedAt", what)
	}
	if !want.Equal(*got) {
		return fmt.Errorf("%s: recomputed (computedAt %s vs %s)", what, want, got)
	}
	return nil
}

// resolveFromProjectRoot walks up from the working directory to the go.mod and joins rel to it.
func resolveFromProjectRoot(rel string) (string, error) {
	if filepath.IsAbs(rel) {
		return rel, nil
	}
	projectRoot, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(projectRoot, "go.mod")); err == nil {
			return filepath.Abs(filepath.Join(projectRoot, rel))
		}
		parent := filepath.Dir(projectRoot)
		if parent == projectRoot {
			break
		}
		projectRoot = parent
	}
	return "", fmt.Errorf("could not find go.mod above the working directory")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

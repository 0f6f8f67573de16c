// README: Bench cases; calculator, quote, zone and rate-table checks plus DB/Redis probes and load runs.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// quoteID is set by the create-quote case and reused by later quote cases.
	quoteID string
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}
	defer func() {
		if r.db != nil {
			r.db.Close()
		}
		if r.redis != nil {
			_ = r.redis.Close()
		}
	}()

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: pingDB},
		{Name: "Env: Redis connect", Run: pingRedis},
		{Name: "Migration: apply (optional)", Run: applyMigrations},
		{Name: "Migration: tables exist", Run: tablesExist},

		httpCase("API: health", http.MethodGet, "/health", nil, http.StatusOK, nil),
		httpCase("RateTable: current snapshot", http.MethodGet, "/api/rate-table", nil, http.StatusOK, nil),

		httpCase("Calculator: volumetric 30x20x15 / 2kg", http.MethodPost, "/api/calculator/volumetric", map[string]any{
			"length": 30, "breadth": 20, "height": 15, "actualWeight": 2,
		}, http.StatusOK, expectNumbers(map[string]float64{"volumetricWeight": 1.8, "chargeableWeight": 2})),

		httpCase("Calculator: volumetric zero length -> 400", http.MethodPost, "/api/calculator/volumetric", map[string]any{
			"length": 0, "breadth": 20, "height": 15, "actualWeight": 2,
		}, http.StatusBadRequest, nil),

		httpCase("Calculator: rate national/standard 2kg", http.MethodPost, "/api/calculator/rate", map[string]any{
			"chargeableWeight": 2, "zone": "national", "serviceType": "standard",
		}, http.StatusOK, expectNumbers(map[string]float64{"baseAmount": 100, "fuelSurcharge": 10, "subtotal": 110, "gst": 19.8, "total": 129.8})),

		httpCase("Calculator: rate unknown zone -> 422", http.MethodPost, "/api/calculator/rate", map[string]any{
			"chargeableWeight": 2, "zone": "international", "serviceType": "standard",
		}, http.StatusUnprocessableEntity, nil),

		httpCase("Calculator: options sorted by total", http.MethodPost, "/api/calculator/options", map[string]any{
			"chargeableWeight": 2, "zone": "national",
		}, http.StatusOK, expectSortedTotals),

		httpCase("Zone: invalid pincode -> 400", http.MethodPost, "/api/zones/resolve", map[string]any{
			"originPincode": "01234", "destinationPincode": "110001",
		}, http.StatusBadRequest, nil),

		{Name: "Quote: create", Run: createQuote},
		{Name: "Quote: get", Run: func(ctx context.Context, r *Runner) Result {
			return r.quoteCase(ctx, http.MethodGet, "/api/quotes/%s", nil, http.StatusOK)
		}},
		{Name: "Quote: export", Run: func(ctx context.Context, r *Runner) Result {
			return r.quoteCase(ctx, http.MethodGet, "/api/quotes/%s/export", nil, http.StatusOK)
		}},
		{Name: "Quote: requote priority", Run: func(ctx context.Context, r *Runner) Result {
			return r.quoteCase(ctx, http.MethodPost, "/api/quotes/%s/requote", map[string]any{"serviceType": "priority"}, http.StatusCreated)
		}},
		httpCase("Quote: unknown id -> 404", http.MethodGet, "/api/quotes/00000000-0000-4000-8000-000000000000", nil, http.StatusNotFound, nil),

		{Name: "Concurrency: identical rate requests agree", Run: concurrentRates},

		{Name: "Perf: rate throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/calculator/rate", map[string]any{
				"chargeableWeight": 2.37, "zone": "national", "serviceType": "standard",
			})
		}},
		{Name: "Perf: quote create throughput", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/quotes", quotePayload())
		}},
	}
}

func quotePayload() map[string]any {
	return map[string]any{
		"length": 30, "breadth": 20, "height": 15, "actualWeight": 2,
		"serviceType": "standard", "zone": "national",
	}
}

func pingDB(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.db.Ping(ctx); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func pingRedis(ctx context.Context, r *Runner) Result {
	if r.redis == nil {
		return Result{Status: StatusSkip, Note: "redis not configured"}
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	return Result{Status: StatusPass}
}

func applyMigrations(ctx context.Context, r *Runner) Result {
	if !r.cfg.ApplyMigration {
		return Result{Status: StatusSkip, Note: "apply-migration=false"}
	}
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	paths, err := migrationFiles(r.cfg.MigrationGlob)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, p := range paths {
		sql, err := os.ReadFile(p)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		for _, s := range splitSQL(string(sql)) {
			if _, err := r.db.Exec(ctx, s); err != nil {
				return Result{Status: StatusFail, Note: fmt.Sprintf("%s: %v", filepath.Base(p), err)}
			}
		}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("files=%d", len(paths))}
}

func tablesExist(ctx context.Context, r *Runner) Result {
	if r.db == nil {
		return Result{Status: StatusFail, Note: "db not configured"}
	}
	paths, err := migrationFiles(r.cfg.MigrationGlob)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	for _, p := range paths {
		tables, err := extractTables(p)
		if err != nil {
			return Result{Status: StatusFail, Note: err.Error()}
		}
		for _, t := range tables {
			var exists bool
			err := r.db.QueryRow(ctx,
				"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
				t,
			).Scan(&exists)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if !exists {
				return Result{Status: StatusFail, Note: "missing table: " + t}
			}
		}
	}
	return Result{Status: StatusPass}
}

func createQuote(ctx context.Context, r *Runner) Result {
	status, body, latency, err := r.do(ctx, http.MethodPost, "/api/quotes", quotePayload())
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusCreated {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
	}
	var q struct {
		ID          string    `json:"id"`
		GeneratedAt time.Time `json:"generatedAt"`
		ValidUntil  time.Time `json:"validUntil"`
	}
	if err := json.Unmarshal(body, &q); err != nil {
		return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
	}
	if q.ValidUntil.Sub(q.GeneratedAt) != 30*24*time.Hour {
		return Result{Status: StatusFail, Latency: latency, Note: "validUntil is not generatedAt + 30 days"}
	}
	r.quoteID = q.ID
	return Result{Status: StatusPass, Latency: latency, Note: "id=" + q.ID}
}

func (r *Runner) quoteCase(ctx context.Context, method, pathFmt string, body any, want int) Result {
	if r.quoteID == "" {
		return Result{Status: StatusSkip, Note: "no quote created"}
	}
	status, _, latency, err := r.do(ctx, method, fmt.Sprintf(pathFmt, r.quoteID), body)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != want {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
	}
	return Result{Status: StatusPass, Latency: latency}
}

func httpCase(name, method, path string, body any, want int, check func([]byte) error) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, respBody, latency, err := r.do(ctx, method, path, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if status != want {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d want=%d", status, want)}
			}
			if check != nil {
				if err := check(respBody); err != nil {
					return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
				}
			}
			return Result{Status: StatusPass, Latency: latency}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, path string, body any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	return resp.StatusCode, respBody, time.Since(start), err
}

func expectNumbers(want map[string]float64) func([]byte) error {
	return func(body []byte) error {
		var got map[string]any
		if err := json.Unmarshal(body, &got); err != nil {
			return err
		}
		for k, v := range want {
			n, ok := got[k].(float64)
			if !ok || n != v {
				return fmt.Errorf("%s=%v want %v", k, got[k], v)
			}
		}
		return nil
	}
}

func expectSortedTotals(body []byte) error {
	var opts []struct {
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(body, &opts); err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("no options returned")
	}
	if !sort.SliceIsSorted(opts, func(i, j int) bool { return opts[i].Total < opts[j].Total }) {
		return fmt.Errorf("options not sorted by total")
	}
	return nil
}

func concurrentRates(ctx context.Context, r *Runner) Result {
	payload := map[string]any{"chargeableWeight": 12.5, "zone": "regional", "serviceType": "priority"}
	var wg sync.WaitGroup
	var mu sync.Mutex
	bodies := map[string]int{}
	var failed atomic.Int64

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, body, _, err := r.do(ctx, http.MethodPost, "/api/calculator/rate", payload)
			if err != nil || status != http.StatusOK {
				failed.Add(1)
				return
			}
			mu.Lock()
			bodies[string(body)]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if n := failed.Load(); n > 0 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("failed=%d", n)}
	}
	if len(bodies) != 1 {
		return Result{Status: StatusFail, Note: fmt.Sprintf("distinct responses=%d", len(bodies))}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("requests=%d", r.cfg.Concurrency)}
}

func perfLoad(ctx context.Context, r *Runner, path string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, _, _, err := r.do(ctx, http.MethodPost, path, payload)
				if err != nil || status >= 500 {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

func migrationFiles(glob string) ([]string, error) {
	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no migrations match %s", glob)
	}
	sort.Strings(paths)
	return paths, nil
}

var createTableRe = regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	matches := createTableRe.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

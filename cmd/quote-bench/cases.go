// README: Checker cases: literal pricing scenarios, error contract, optional DB/Redis checks, load.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	dbErr error
	redis *redis.Client
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

// openStores connects the optional DB and Redis checks. A DSN that cannot be
// opened is kept in dbErr and reported by the DB check.
func (r *Runner) openStores(ctx context.Context) {
	if r.cfg.DSN != "" {
		db, err := pgxpool.New(ctx, r.cfg.DSN)
		if err != nil {
			r.dbErr = err
			fmt.Printf("db connect failed: %v\n", err)
		} else {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	r.openStores(ctx)

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

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

type quoteBody struct {
	Success bool `json:"success"`
	Quote   struct {
		TotalPrice     int64  `json:"totalPrice"`
		FormattedTotal string `json:"formattedTotal"`
		Breakdown      struct {
			RecommendedPlan string `json:"recommendedPlan"`
		} `json:"breakdown"`
	} `json:"quote"`
	Plans struct {
		Hourly struct {
			Total       int64 `json:"total"`
			BillMinutes int   `json:"billMinutes"`
		} `json:"hourly"`
		PerJob struct {
			Total int64 `json:"total"`
		} `json:"perJob"`
	} `json:"plans"`
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

// expect lists the fields a scenario pins; zero values are not checked.
type expect struct {
	hourly, perJob, total int64
	billMinutes           int
	plan                  string
}

func (r *Runner) cases() []TestCase {
	quoteURL := r.cfg.BaseURL + "/quote"
	return []TestCase{
		{
			Name: "Health",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, latency, err := r.do(ctx, http.MethodGet, r.cfg.BaseURL+"/health", nil)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass, Latency: latency}
			},
		},
		scenario("Scenario: short compact trip", quoteURL, map[string]any{
			"distance": 12000, "time": 1500, "vehicleType": "Compact", "dwellMinutes": []int{10, 10},
		}, expect{hourly: 53000, perJob: 40000, total: 40000, billMinutes: 120, plan: "PerJob"}),
		scenario("Scenario: van beyond last bracket", quoteURL, map[string]any{
			"distance": 27000, "time": 2400, "vehicleType": "Van", "stopsCount": 0,
		}, expect{perJob: 46000}),
		scenario("Scenario: regular compact uses van column", quoteURL, map[string]any{
			"distance": 8000, "time": 0, "vehicleType": "Compact", "stopsCount": 3, "scheduleType": "Regular",
		}, expect{perJob: 55000}),
		scenario("Scenario: regular van load factor", quoteURL, map[string]any{
			"distance": 8000, "time": 0, "vehicleType": "Van", "stopsCount": 3, "scheduleType": "Regular",
		}, expect{perJob: 59200}),
		errorCase("Validation: negative distance", quoteURL, map[string]any{
			"distance": -1, "time": 60, "vehicleType": "Van",
		}, http.StatusBadRequest, "VALIDATION_ERROR"),
		errorCase("Validation: unknown vehicle", quoteURL, map[string]any{
			"distance": 1000, "time": 60, "vehicleType": "Truck",
		}, http.StatusBadRequest, "VALIDATION_ERROR"),
		errorCase("Validation: malformed JSON", quoteURL, []byte(`{"distance":`), http.StatusBadRequest, "VALIDATION_ERROR"),
		{
			Name: "Route: synthetic waypoints",
			Run: func(ctx context.Context, r *Runner) Result {
				status, _, latency, err := r.do(ctx, http.MethodPost, r.cfg.BaseURL+"/quote/route", map[string]any{
					"waypoints":   []string{"37.5665,126.9780", "37.4979,127.0276"},
					"vehicleType": "Compact",
				})
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: statusPass, Latency: latency}
			},
		},
		{Name: "History: quote_history table", Run: historyTableCheck},
		{
			Name: "Route cache: keys present",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not set"}
				}
				keys, _, err := r.redis.Scan(ctx, 0, "route:v1:*", 100).Result()
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if len(keys) == 0 {
					return Result{Status: statusFail, Note: "no cached routes after route quote"}
				}
				return Result{Status: statusPass, Note: fmt.Sprintf("keys>=%d", len(keys))}
			},
		},
		{
			Name: "Load: POST /quote",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, quoteURL, map[string]any{
					"distance": 33500, "time": 7321, "vehicleType": "Van", "dwellMinutes": []int{7, 12, 40},
				})
			},
		},
	}
}

func historyTableCheck(ctx context.Context, r *Runner) Result {
	if r.dbErr != nil {
		return Result{Status: statusFail, Note: "db connect: " + r.dbErr.Error()}
	}
	if r.db == nil {
		return Result{Status: statusSkip, Note: "dsn not set"}
	}
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM quote_history`).Scan(&n); err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	return Result{Status: statusPass, Note: fmt.Sprintf("rows=%d", n)}
}

func scenario(name, url string, payload any, want expect) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, raw, latency, err := r.do(ctx, http.MethodPost, url, payload)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if status != http.StatusOK {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			var body quoteBody
			if err := json.Unmarshal(raw, &body); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			if msg := want.mismatch(body); msg != "" {
				return Result{Status: statusFail, Latency: latency, Note: msg}
			}
			return Result{Status: statusPass, Latency: latency, Note: body.Quote.FormattedTotal}
		},
	}
}

func (e expect) mismatch(b quoteBody) string {
	switch {
	case e.hourly != 0 && b.Plans.Hourly.Total != e.hourly:
		return fmt.Sprintf("hourly=%d want %d", b.Plans.Hourly.Total, e.hourly)
	case e.perJob != 0 && b.Plans.PerJob.Total != e.perJob:
		return fmt.Sprintf("perJob=%d want %d", b.Plans.PerJob.Total, e.perJob)
	case e.total != 0 && b.Quote.TotalPrice != e.total:
		return fmt.Sprintf("total=%d want %d", b.Quote.TotalPrice, e.total)
	case e.billMinutes != 0 && b.Plans.Hourly.BillMinutes != e.billMinutes:
		return fmt.Sprintf("billMinutes=%d want %d", b.Plans.Hourly.BillMinutes, e.billMinutes)
	case e.plan != "" && b.Quote.Breakdown.RecommendedPlan != e.plan:
		return fmt.Sprintf("plan=%s want %s", b.Quote.Breakdown.RecommendedPlan, e.plan)
	}
	return ""
}

func errorCase(name, url string, payload any, wantStatus int, wantCode string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, raw, latency, err := r.do(ctx, http.MethodPost, url, payload)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			var body quoteBody
			_ = json.Unmarshal(raw, &body)
			if status != wantStatus || body.Error.Code != wantCode || body.Success {
				return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d code=%q", status, body.Error.Code)}
			}
			return Result{Status: statusPass, Latency: latency}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, payload any) (int, []byte, time.Duration, error) {
	var reader io.Reader
	switch p := payload.(type) {
	case nil:
	case []byte:
		reader = bytes.NewReader(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return 0, nil, 0, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
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
	raw, err := io.ReadAll(resp.Body)
	return resp.StatusCode, raw, time.Since(start), err
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					errCount.Add(1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					errCount.Add(1)
					continue
				}
				count.Add(1)
			}
		}()
	}
	wg.Wait()

	if count.Load() == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	rps := float64(count.Load()) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount.Load())}
}

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHistoryTableCheck_BadDSNFails(t *testing.T) {
	r := NewRunner(Config{DSN: "not a dsn"})
	r.openStores(context.Background())

	res := historyTableCheck(context.Background(), r)
	assert.Equal(t, statusFail, res.Status)
	assert.Contains(t, res.Note, "db connect")
}

func TestHistoryTableCheck_NoDSNSkips(t *testing.T) {
	r := NewRunner(Config{})
	r.openStores(context.Background())

	res := historyTableCheck(context.Background(), r)
	assert.Equal(t, statusSkip, res.Status)
}

func TestExpectMismatch(t *testing.T) {
	var b quoteBody
	b.Plans.PerJob.Total = 40000
	b.Quote.TotalPrice = 40000
	b.Quote.Breakdown.RecommendedPlan = "PerJob"

	assert.Empty(t, expect{perJob: 40000, total: 40000, plan: "PerJob"}.mismatch(b))
	assert.Contains(t, expect{perJob: 46000}.mismatch(b), "perJob=40000 want 46000")
	assert.Contains(t, expect{plan: "Hourly"}.mismatch(b), "plan=PerJob")
}

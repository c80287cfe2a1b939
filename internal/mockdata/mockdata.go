// Package mockdata generates the synthetic record sets the dashboard widgets
// run on. Output is deterministic for a given seed.
package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Dataset bundles every widget's records
type Dataset struct {
	Tasks    []Task
	Revenue  []RevenueDay
	Insights []Insight
}

// Options sizes a Dataset
type Options struct {
	Seed     int64     `yaml:"seed"`
	Tasks    int       `yaml:"tasks"`
	Days     int       `yaml:"days"`
	Insights int       `yaml:"insights"`
	Start    time.Time `yaml:"-"`
}

// Generate builds a Dataset; zero sizes fall back to small demo sizes.
func Generate(opts Options) *Dataset {
	if opts.Tasks <= 0 {
		opts.Tasks = 40
	}
	if opts.Days <= 0 {
		opts.Days = 30
	}
	if opts.Insights <= 0 {
		opts.Insights = 12
	}
	if opts.Start.IsZero() {
		opts.Start = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return &Dataset{
		Tasks:    Tasks(opts.Tasks, opts.Start, opts.Seed),
		Revenue:  RevenueDays(opts.Days, opts.Start, opts.Seed+1),
		Insights: Insights(opts.Insights, opts.Start, opts.Seed+2),
	}
}

func newID(r *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(r)
	if err != nil {
		// rand.Rand reads never fail
		panic(fmt.Sprintf("mockdata: %v", err))
	}
	return id.String()
}

func pick[T any](r *rand.Rand, values []T) T {
	return values[r.Intn(len(values))]
}

// round2 keeps generated amounts at cent precision
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

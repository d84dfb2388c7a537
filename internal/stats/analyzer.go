package stats

import (
	"context"
	"fmt"
	"sort"

	"github.com/2beens/homerun/internal/activities"
	"github.com/2beens/homerun/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=analyzer_mocks_test.go -package=stats

const bestEffortsLimit = 3

type statsRepo interface {
	ListAll(ctx context.Context, userID int, discipline activities.Discipline) ([]activities.Activity, error)
	ListMonthlyBuckets(ctx context.Context, userID int, discipline activities.Discipline) ([]activities.MonthlyBucket, error)
	ListYearlyBuckets(ctx context.Context, userID int, discipline activities.Discipline) ([]activities.YearlyBucket, error)
}

// Analyzer derives the aggregate statistics of one user and
// discipline: per period totals and per distance tag best efforts.
// Everything is computed fresh on each call.
type Analyzer struct {
	repo statsRepo
}

func NewAnalyzer(repo statsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

func (a *Analyzer) Stats(ctx context.Context, userID int, discipline activities.Discipline) (_ *Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "stats.analyzer.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	all, err := a.repo.ListAll(ctx, userID, discipline)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	monthlyBuckets, err := a.repo.ListMonthlyBuckets(ctx, userID, discipline)
	if err != nil {
		return nil, fmt.Errorf("list monthly buckets: %w", err)
	}
	yearlyBuckets, err := a.repo.ListYearlyBuckets(ctx, userID, discipline)
	if err != nil {
		return nil, fmt.Errorf("list yearly buckets: %w", err)
	}

	byMonth := make(map[int][]activities.Activity)
	byYear := make(map[int][]activities.Activity)
	for _, activity := range all {
		byMonth[activity.MonthID] = append(byMonth[activity.MonthID], activity)
		byYear[activity.YearID] = append(byYear[activity.YearID], activity)
	}

	monthly := make([]PeriodSummary, 0, len(monthlyBuckets))
	for _, bucket := range monthlyBuckets {
		monthly = append(monthly, summarize(bucket.Period, byMonth[bucket.ID]))
	}
	yearly := make([]PeriodSummary, 0, len(yearlyBuckets))
	for _, bucket := range yearlyBuckets {
		yearly = append(yearly, summarize(bucket.Period, byYear[bucket.ID]))
	}

	return &Stats{
		Monthly:     monthly,
		Yearly:      yearly,
		BestEfforts: bestEfforts(all, discipline),
	}, nil
}

// summarize sums distance and time over the member activities'
// aggregation results. An activity with no results contributes zero,
// an empty bucket yields zero totals - never an error.
func summarize(period string, members []activities.Activity) PeriodSummary {
	summary := PeriodSummary{
		Period:     period,
		Activities: members,
	}
	if summary.Activities == nil {
		summary.Activities = []activities.Activity{}
	}
	for _, activity := range members {
		result := activities.AggregationResult(activity.Results)
		if result == nil {
			continue
		}
		summary.TotalDistance += result.Distance
		summary.TotalTime += result.Time
	}
	return summary
}

// bestEfforts ranks, per standardized distance tag, the top three
// activities by ascending authoritative pace. Ties keep the original
// query order (stable sort). Activities without an authoritative
// result have no defined pace and are left out.
func bestEfforts(all []activities.Activity, discipline activities.Discipline) map[activities.DistanceTag][]activities.Activity {
	efforts := make(map[activities.DistanceTag][]activities.Activity)
	for _, tag := range activities.DistanceTagsFor(discipline) {
		var tagged []activities.Activity
		for _, activity := range all {
			if activity.DistanceTag != tag {
				continue
			}
			if activities.AuthoritativeResult(activity.Results) == nil {
				continue
			}
			tagged = append(tagged, activity)
		}

		sort.SliceStable(tagged, func(i, j int) bool {
			paceI := activities.AuthoritativeResult(tagged[i].Results).Pace
			paceJ := activities.AuthoritativeResult(tagged[j].Results).Pace
			return paceI < paceJ
		})

		if len(tagged) > bestEffortsLimit {
			tagged = tagged[:bestEffortsLimit]
		}
		if tagged == nil {
			tagged = []activities.Activity{}
		}
		efforts[tag] = tagged
	}
	return efforts
}

package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/codetrack/backend/internal/domain"
)

// activityWindowDays is the length of the trailing activity graph window
const activityWindowDays = 7

// utcDay truncates an instant to its UTC calendar day. All activity
// bucketing uses UTC so that streaks do not depend on where the server
// happens to run.
func utcDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// activityDates reduces submissions to the set of distinct UTC activity days
func activityDates(subs []domain.Submission) map[time.Time]struct{} {
	dates := make(map[time.Time]struct{})
	for _, s := range subs {
		dates[utcDay(s.CreatedAt)] = struct{}{}
	}
	return dates
}

// computeStreaks derives the current and longest consecutive-day streaks
// from a set of distinct activity days.
//
// The current streak anchors at today when today has activity, otherwise at
// yesterday; if neither day has activity the streak is broken and reports 0.
// The anchor itself counts, so an anchored streak is at least 1. Both values
// derive from the same date set, which makes longest >= current hold
// whenever current > 0.
func computeStreaks(dates map[time.Time]struct{}, today time.Time) (current, longest int) {
	if len(dates) == 0 {
		return 0, 0
	}

	anchor := utcDay(today)
	if _, ok := dates[anchor]; !ok {
		anchor = anchor.AddDate(0, 0, -1)
	}
	if _, ok := dates[anchor]; ok {
		for d := anchor; ; d = d.AddDate(0, 0, -1) {
			if _, ok := dates[d]; !ok {
				break
			}
			current++
		}
	}

	sorted := make([]time.Time, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	// All entries are UTC midnights, so a one-day gap is exactly 24h
	longest = 1
	run := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return current, longest
}

// buildActivityGraph produces the trailing activity window ending today,
// one entry per UTC day, zero-filled for days without submissions.
func buildActivityGraph(subs []domain.Submission, today time.Time, days int) []domain.ActivityDay {
	counts := make(map[time.Time]int)
	for _, s := range subs {
		counts[utcDay(s.CreatedAt)]++
	}

	end := utcDay(today)
	graph := make([]domain.ActivityDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		graph = append(graph, domain.ActivityDay{
			Date:  day.Format("2006-01-02"),
			Count: counts[day],
		})
	}
	return graph
}

// userAggregate is one user's reduced submission history, the unit the
// ranking is computed over.
type userAggregate struct {
	UserID           uuid.UUID
	TotalSolved      int
	TotalSubmissions int
	Accepted         int
	SuccessRate      float64
}

// aggregateByUser groups submissions by user and reduces each group to its
// solved count and success rate. The result is ordered by the ranking key:
// solved count descending, success rate descending, then user ID ascending
// so that ties resolve the same way on every call.
func aggregateByUser(subs []domain.Submission) []userAggregate {
	type group struct {
		total    int
		accepted int
		solved   map[uuid.UUID]struct{}
	}

	groups := make(map[uuid.UUID]*group)
	for _, s := range subs {
		g, ok := groups[s.UserID]
		if !ok {
			g = &group{solved: make(map[uuid.UUID]struct{})}
			groups[s.UserID] = g
		}
		g.total++
		if s.Status == domain.StatusAccepted {
			g.accepted++
			g.solved[s.ProblemID] = struct{}{}
		}
	}

	aggs := make([]userAggregate, 0, len(groups))
	for userID, g := range groups {
		agg := userAggregate{
			UserID:           userID,
			TotalSolved:      len(g.solved),
			TotalSubmissions: g.total,
			Accepted:         g.accepted,
		}
		if g.total > 0 {
			agg.SuccessRate = 100 * float64(g.accepted) / float64(g.total)
		}
		aggs = append(aggs, agg)
	}

	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].TotalSolved != aggs[j].TotalSolved {
			return aggs[i].TotalSolved > aggs[j].TotalSolved
		}
		if aggs[i].SuccessRate != aggs[j].SuccessRate {
			return aggs[i].SuccessRate > aggs[j].SuccessRate
		}
		return aggs[i].UserID.String() < aggs[j].UserID.String()
	})
	return aggs
}

// rankOf returns the 1-based position of userID in the ordered aggregates,
// or 0 when the user has no submission history.
func rankOf(aggs []userAggregate, userID uuid.UUID) int {
	for i, agg := range aggs {
		if agg.UserID == userID {
			return i + 1
		}
	}
	return 0
}

// solvedProblemIDs returns the distinct problems with at least one accepted
// submission in subs.
func solvedProblemIDs(subs []domain.Submission) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0)
	for _, s := range subs {
		if s.Status != domain.StatusAccepted {
			continue
		}
		if _, ok := seen[s.ProblemID]; ok {
			continue
		}
		seen[s.ProblemID] = struct{}{}
		ids = append(ids, s.ProblemID)
	}
	return ids
}

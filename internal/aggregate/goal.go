package aggregate

import (
	"sort"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const upcomingDeadlineCount = 3

// GoalProgress returns percent complete and the amount still to save.
func GoalProgress(g models.Goal) (progress, remaining float64) {
	return g.CurrentAmount / g.TargetAmount * 100, max(0, g.TargetAmount-g.CurrentAmount)
}

func GoalView(g models.Goal) dto.GoalView {
	progress, remaining := GoalProgress(g)
	return dto.GoalView{Goal: g, Progress: progress, Remaining: remaining}
}

// GoalStats summarises goals; progress and totals only consider goals not yet completed.
func GoalStats(goals []*models.Goal) dto.GoalStats {
	stats := dto.GoalStats{
		TotalGoals:        len(goals),
		UpcomingDeadlines: []models.Goal{},
	}

	for _, g := range goals {
		if g.IsCompleted {
			stats.CompletedGoals++
			continue
		}
		stats.ActiveGoals++
		stats.TotalTargetAmount += g.TargetAmount
		stats.TotalCurrentAmount += g.CurrentAmount
		if g.Deadline != nil {
			stats.UpcomingDeadlines = append(stats.UpcomingDeadlines, *g)
		}
	}

	if stats.TotalTargetAmount > 0 {
		stats.OverallProgress = stats.TotalCurrentAmount / stats.TotalTargetAmount * 100
	}

	sort.SliceStable(stats.UpcomingDeadlines, func(i, j int) bool {
		return stats.UpcomingDeadlines[i].Deadline.Before(*stats.UpcomingDeadlines[j].Deadline)
	})
	if len(stats.UpcomingDeadlines) > upcomingDeadlineCount {
		stats.UpcomingDeadlines = stats.UpcomingDeadlines[:upcomingDeadlineCount]
	}
	return stats
}

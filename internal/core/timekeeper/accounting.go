package timekeeper

import (
	"time"

	"kidsfocus/internal/core/rewards"
	"kidsfocus/internal/storage"
)

// Daily milestone badges by completions in one local day.
var dailyMilestones = []struct {
	count int
	badge string
}{
	{5, rewards.BadgeFiveInADay},
	{10, rewards.BadgeMarathon},
}

// accountWorkLocked runs once per completed work interval. Collaborator
// failures are logged and the timer carries on with its in-memory state.
func (keeper *TimeKeeper) accountWorkLocked(now time.Time) {
	keeper.rolloverLocked(now)
	ctx := keeper.ctx
	ledger := keeper.options.Ledger

	profileID := ""
	if ledger != nil {
		streak := ledger.CurrentStreak()
		keeper.report("add points", ledger.AddPoints(ctx, rewards.PointsCompletePomodoro))
		if keeper.firstOfDay {
			keeper.report("add first of day points", ledger.AddPoints(ctx, rewards.PointsFirstOfDay))
		}
		if streak > 0 {
			keeper.report("add streak points", ledger.AddPoints(ctx, rewards.PointsDailyStreak))
		}
		_, err := ledger.RecordCompletion(ctx, keeper.config.WorkMinutes)
		keeper.report("record completion", err)
		profileID = ledger.ActiveProfileID()
	}
	keeper.firstOfDay = false

	keeper.completedToday++
	if ledger != nil {
		for _, milestone := range dailyMilestones {
			if keeper.completedToday >= milestone.count {
				keeper.report("award badge", ledger.AwardBadge(ctx, milestone.badge))
			}
		}
	}

	if keeper.options.History != nil {
		record := storage.SessionRecord{
			ProfileID:    profileID,
			Timestamp:    now.UTC(),
			Type:         storage.SessionTypePomodoro,
			WorkMinutes:  keeper.config.WorkMinutes,
			BreakMinutes: keeper.config.BreakMinutes,
			Completed:    true,
		}
		keeper.report("append history", keeper.options.History.Append(ctx, record))
	}
}

// rolloverLocked resets the daily counter when the local date changes.
// The first check in a process compares against the persisted date.
func (keeper *TimeKeeper) rolloverLocked(now time.Time) {
	today := now.In(keeper.options.Location).Format(dateLayout)
	if today == keeper.activeDate {
		return
	}
	previous := keeper.activeDate
	keeper.activeDate = today

	if previous == "" {
		stored, err := keeper.days.LastActiveDate(keeper.ctx)
		keeper.report("load last active date", err)
		if stored == today {
			return
		}
	}
	keeper.completedToday = 0
	keeper.firstOfDay = true
	keeper.report("save last active date", keeper.days.SetLastActiveDate(keeper.ctx, today))
	keeper.logger.Debug("new day", "date", today)
}

func (keeper *TimeKeeper) report(action string, err error) {
	if err != nil {
		keeper.logger.Warn("collaborator failed", "action", action, "error", err)
	}
}

package service

import (
	"time"

	"coinbot/internal/domain"
)

// Cooldown durations per action. Values mirror the game rules; the
// eligibility math below is the contract.
var cooldowns = map[domain.Action]time.Duration{
	domain.ActionWork:     time.Hour,
	domain.ActionDaily:    24 * time.Hour,
	domain.ActionWeekly:   7 * 24 * time.Hour,
	domain.ActionRob:      30 * time.Minute,
	domain.ActionFish:     20 * time.Minute,
	domain.ActionPetFeed:  2 * time.Hour,
	domain.ActionPetBathe: 3 * time.Hour,
	domain.ActionPetPlay:  10 * time.Minute,
	domain.ActionXP:       time.Minute,
}

// CooldownDuration returns the configured cooldown for an action.
func CooldownDuration(action domain.Action) (time.Duration, bool) {
	d, ok := cooldowns[action]
	return d, ok
}

// Eligible reports whether an action last claimed at last may be claimed
// again at now: now >= last + d. The zero time is always eligible.
func Eligible(last time.Time, d time.Duration, now time.Time) bool {
	return !now.Before(last.Add(d))
}

// Remaining returns how long until the action is eligible again, floored
// at zero and truncated to whole seconds (never rounded up).
func Remaining(last time.Time, d time.Duration, now time.Time) time.Duration {
	rem := last.Add(d).Sub(now)
	if rem < 0 {
		return 0
	}
	return rem.Truncate(time.Second)
}

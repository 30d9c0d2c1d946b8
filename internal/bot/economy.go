package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/domain"
)

func (b *Bot) handleWork(msg *tgbotapi.Message) {
	res, err := b.eco.Claim(userID(msg.From), displayName(msg.From), domain.ActionWork, randRange(20, 80))
	var cd *domain.CooldownActiveError
	if errors.As(err, &cd) {
		b.reply(msg, fmt.Sprintf("You must wait %s before working again", fmtHM(cd.Remaining)))
		return
	}
	if err != nil {
		b.fail(msg, "work", err)
		return
	}
	b.reply(msg, fmt.Sprintf("You worked and earned %d coins 💰", res.Amount))
}

func (b *Bot) handleDaily(msg *tgbotapi.Message) {
	res, err := b.eco.Claim(userID(msg.From), displayName(msg.From), domain.ActionDaily, randRange(150, 300))
	var cd *domain.CooldownActiveError
	if errors.As(err, &cd) {
		b.reply(msg, fmt.Sprintf("You already claimed daily. Wait %s", fmtHM(cd.Remaining)))
		return
	}
	if err != nil {
		b.fail(msg, "daily", err)
		return
	}
	b.reply(msg, fmt.Sprintf("Daily reward: %d coins 💰", res.Amount))
}

func (b *Bot) handleWeekly(msg *tgbotapi.Message) {
	res, err := b.eco.Claim(userID(msg.From), displayName(msg.From), domain.ActionWeekly, randRange(800, 1500))
	var cd *domain.CooldownActiveError
	if errors.As(err, &cd) {
		b.reply(msg, fmt.Sprintf("You already claimed weekly. Wait %s.", fmtDHM(cd.Remaining)))
		return
	}
	if err != nil {
		b.fail(msg, "weekly", err)
		return
	}
	b.reply(msg, fmt.Sprintf("Weekly reward: %d coins 💰", res.Amount))
}

func (b *Bot) handleFish(msg *tgbotapi.Message) {
	// rarity roll happens before the claim; a cold cooldown wastes nothing
	// because the claim rejects without crediting
	var fish string
	var coins int64
	switch roll := rand.Float64(); {
	case roll <= 0.001:
		fish, coins = "Extremely Rare Fish 🦑", randRange(500, 800)
	case roll <= 0.011:
		fish, coins = "Very Rare Fish 🐡", randRange(200, 400)
	case roll <= 0.061:
		fish, coins = "Rare Fish 🐠", randRange(50, 100)
	default:
		fish, coins = "Common Fish 🐟", randRange(10, 25)
	}

	res, err := b.eco.Claim(userID(msg.From), displayName(msg.From), domain.ActionFish, coins)
	var cd *domain.CooldownActiveError
	if errors.As(err, &cd) {
		b.reply(msg, fmt.Sprintf("🎣 You must wait %s before fishing again.", fmtHM(cd.Remaining)))
		return
	}
	if err != nil {
		b.fail(msg, "fish", err)
		return
	}
	b.reply(msg, fmt.Sprintf("🎣 You caught a %s and earned %d coins!", fish, res.Amount))
}

func (b *Bot) handleBalance(msg *tgbotapi.Message) {
	b.reply(msg, fmt.Sprintf("You have %d coins 💰", b.eco.Balance(userID(msg.From))))
}

func (b *Bot) handleLeaderboard(msg *tgbotapi.Message) {
	top := b.eco.Leaderboard(b.rosterScope(msg.Chat.ID), 10)
	if len(top) == 0 {
		b.reply(msg, "No leaderboard data yet.")
		return
	}

	medals := []string{"🥇", "🥈", "🥉"}
	var sb strings.Builder
	sb.WriteString("🏆 Top 10 Richest\n")
	for i, acc := range top {
		prefix := fmt.Sprintf("#%d", i+1)
		if i < len(medals) {
			prefix = medals[i]
		}
		name := acc.Name
		if name == "" {
			name = b.rosterName(msg.Chat.ID, acc.ID)
		}
		fmt.Fprintf(&sb, "%s %s - %d coins\n", prefix, name, acc.Balance)
	}
	b.reply(msg, sb.String())
}

func (b *Bot) handleRob(msg *tgbotapi.Message) {
	robber := userID(msg.From)

	victimID, victimName, victimIsBot, err := b.pickVictim(msg, robber)
	if errors.Is(err, domain.ErrNoTarget) {
		b.reply(msg, "No one to rob")
		return
	}

	res, err := b.eco.Rob(robber, displayName(msg.From), victimID, victimIsBot)
	var cd *domain.CooldownActiveError
	switch {
	case errors.As(err, &cd):
		b.reply(msg, fmt.Sprintf("You must wait %s before robbing again.", fmtHM(cd.Remaining)))
	case errors.Is(err, domain.ErrSelfTarget):
		b.reply(msg, "You can't rob yourself")
	case errors.Is(err, domain.ErrBotTarget):
		b.reply(msg, "You can't rob bots")
	case errors.Is(err, domain.ErrTargetBroke):
		b.reply(msg, fmt.Sprintf("%s has no money.", victimName))
	case err != nil:
		b.fail(msg, "rob", err)
	case res.Caught:
		b.reply(msg, fmt.Sprintf("You got caught and paid %d coins in fines. 🚓", res.Amount))
	default:
		b.reply(msg, fmt.Sprintf("You robbed %s and stole %d coins! 🤑", victimName, res.Amount))
	}
}

// pickVictim resolves the robbery target: an explicit reply target wins,
// otherwise a random chat member with coins. Bots and the robber are
// filtered here because presence is the bot's knowledge, not the ledger's.
func (b *Bot) pickVictim(msg *tgbotapi.Message, robber domain.UserID) (domain.UserID, string, bool, error) {
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		return userID(reply.From), displayName(reply.From), reply.From.IsBot, nil
	}

	scope := b.rosterScope(msg.Chat.ID)
	var candidates []*domain.Account
	for _, acc := range b.eco.Accounts(scope) {
		if acc.ID != robber && acc.Balance > 0 {
			candidates = append(candidates, acc)
		}
	}
	if len(candidates) == 0 {
		return "", "", false, domain.ErrNoTarget
	}
	victim := candidates[rand.Intn(len(candidates))]
	name := victim.Name
	if name == "" {
		name = b.rosterName(msg.Chat.ID, victim.ID)
	}
	return victim.ID, name, false, nil
}

func (b *Bot) handleCooldowns(msg *tgbotapi.Message) {
	statuses := b.eco.Cooldowns(userID(msg.From),
		domain.ActionWork, domain.ActionDaily, domain.ActionWeekly,
		domain.ActionRob, domain.ActionFish)

	labels := map[domain.Action]string{
		domain.ActionWork:   "Work",
		domain.ActionDaily:  "Daily",
		domain.ActionWeekly: "Weekly",
		domain.ActionRob:    "Rob",
		domain.ActionFish:   "Fish",
	}

	var sb strings.Builder
	sb.WriteString("⏳ Your Cooldowns\n")
	for _, st := range statuses {
		value := "✅ Ready"
		if !st.Ready {
			if st.Action == domain.ActionWeekly {
				value = fmtDHM(st.Remaining)
			} else {
				value = fmtHM(st.Remaining)
			}
		}
		fmt.Fprintf(&sb, "%s: %s\n", labels[st.Action], value)
	}
	b.reply(msg, sb.String())
}

// fail logs an unexpected (non-policy) failure and tells the user the
// operation did not go through. State is unchanged: rejected mutations
// never commit.
func (b *Bot) fail(msg *tgbotapi.Message, op string, err error) {
	b.log.Error("command failed", "op", op, "user", msg.From.ID, "err", err)
	b.reply(msg, "Something went wrong, nothing was charged. Try again later.")
}

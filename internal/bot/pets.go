package bot

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/domain"
)

func (b *Bot) handlePetCatalog(msg *tgbotapi.Message) {
	b.reply(msg, `Available Pets 🐾
Bird 🐦
Cat 🐱
Dog 🐶

Adopt one with: /adopt <species> <name>`)
}

func (b *Bot) handleAdopt(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		b.reply(msg, "Usage: /adopt <species> <name>")
		return
	}
	species := domain.PetSpecies(strings.ToLower(args[0]))
	petName := strings.Join(args[1:], " ")

	err := b.eco.Adopt(userID(msg.From), displayName(msg.From), species, petName)
	switch {
	case errors.Is(err, domain.ErrUnknownSpecies):
		b.reply(msg, "You can only adopt a bird, cat, or dog.")
	case errors.Is(err, domain.ErrPetAdopted):
		pet := b.eco.Account(userID(msg.From)).Pet
		b.reply(msg, fmt.Sprintf("You already have a pet: %s the %s.", pet.Name, pet.Species))
	case err != nil:
		b.fail(msg, "adopt", err)
	default:
		b.reply(msg, fmt.Sprintf("🎉 You adopted a %s named %s!", species, petName))
	}
}

func (b *Bot) handleFeed(msg *tgbotapi.Message) {
	b.petClaim(msg, domain.ActionPetFeed, randRange(20, 50), "feeding", "🍖 You fed %s and earned %d coins!")
}

func (b *Bot) handleBathe(msg *tgbotapi.Message) {
	b.petClaim(msg, domain.ActionPetBathe, randRange(30, 70), "bathing", "🛁 You bathed %s and earned %d coins!")
}

func (b *Bot) handlePlay(msg *tgbotapi.Message) {
	b.petClaim(msg, domain.ActionPetPlay, randRange(15, 40), "playing", "🎾 You played with %s and earned %d coins!")
}

func (b *Bot) petClaim(msg *tgbotapi.Message, action domain.Action, amount int64, verb, successFmt string) {
	res, err := b.eco.Claim(userID(msg.From), displayName(msg.From), action, amount)
	var cd *domain.CooldownActiveError
	switch {
	case errors.Is(err, domain.ErrNoPet):
		b.reply(msg, "You don't have a pet yet! Adopt one with /adopt <species> <name>")
	case errors.As(err, &cd):
		b.reply(msg, fmt.Sprintf("You must wait %s before %s again.", fmtHM(cd.Remaining), verb))
	case err != nil:
		b.fail(msg, string(action), err)
	default:
		pet := b.eco.Account(userID(msg.From)).Pet
		b.reply(msg, fmt.Sprintf(successFmt, pet.Name, res.Amount))
	}
}

func (b *Bot) handleMyPet(msg *tgbotapi.Message) {
	acc := b.eco.Account(userID(msg.From))
	if acc.Pet == nil {
		b.reply(msg, "You don't have a pet yet! Adopt one with /adopt <species> <name>")
		return
	}

	statuses := b.eco.Cooldowns(userID(msg.From),
		domain.ActionPetPlay, domain.ActionPetFeed, domain.ActionPetBathe)
	labels := map[domain.Action]string{
		domain.ActionPetPlay:  "Play cooldown",
		domain.ActionPetFeed:  "Feed cooldown",
		domain.ActionPetBathe: "Bathe cooldown",
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s's Pet\nName: %s\nType: %s\n", displayName(msg.From), acc.Pet.Name, acc.Pet.Species)
	for _, st := range statuses {
		value := "✅ Ready"
		if !st.Ready {
			value = fmtHM(st.Remaining)
		}
		fmt.Fprintf(&sb, "%s: %s\n", labels[st.Action], value)
	}
	b.reply(msg, sb.String())
}

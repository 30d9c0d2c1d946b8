package bot

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/domain"
)

const imagePrice = 100

func (b *Bot) handleProfile(msg *tgbotapi.Message) {
	target := msg.From
	if reply := msg.ReplyToMessage; reply != nil && reply.From != nil {
		target = reply.From
	}
	acc := b.eco.Account(userID(target))

	var sb strings.Builder
	fmt.Fprintf(&sb, "👤 %s\nID: %s\n", displayName(target), acc.ID)
	fmt.Fprintf(&sb, "Coins: %d\nLevel: %d\nXP: %d/%d\n", acc.Balance, acc.Level, acc.XP, 100*acc.Level*acc.Level)
	if acc.Pet != nil {
		fmt.Fprintf(&sb, "Pet: %s the %s\n", acc.Pet.Name, acc.Pet.Species)
	}
	if acc.ActiveImage != "" {
		fmt.Fprintf(&sb, "Profile image: %s\n", acc.ActiveImage)
	}
	b.reply(msg, sb.String())
}

// imageCatalog lists the preset profile images on disk. A missing folder
// just means an empty catalog.
func (b *Bot) imageCatalog() []string {
	entries, err := os.ReadDir(b.imagesDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}

// findImage resolves a user-typed name against the catalog by
// case-insensitive prefix, the way the shop has always matched.
func findImage(catalog []string, query string) (string, bool) {
	query = strings.ToLower(query)
	for _, name := range catalog {
		if strings.HasPrefix(strings.ToLower(name), query) {
			return name, true
		}
	}
	return "", false
}

func (b *Bot) handleImages(msg *tgbotapi.Message) {
	catalog := b.imageCatalog()
	if len(catalog) == 0 {
		b.reply(msg, "No preset images available.")
		return
	}
	var sb strings.Builder
	sb.WriteString("Available Profile Images:\n")
	for _, name := range catalog {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	fmt.Fprintf(&sb, "Buy an image with /buy_image <name> (%d coins)", imagePrice)
	b.reply(msg, sb.String())
}

func (b *Bot) handleBuyImage(msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		b.reply(msg, "Usage: /buy_image <name>")
		return
	}
	image, ok := findImage(b.imageCatalog(), query)
	if !ok {
		b.reply(msg, "❌ This image does not exist.")
		return
	}

	err := b.eco.BuyImage(userID(msg.From), displayName(msg.From), image, imagePrice)
	var funds *domain.InsufficientFundsError
	switch {
	case errors.Is(err, domain.ErrImageOwned):
		b.reply(msg, "✅ You already own this image.")
	case errors.As(err, &funds):
		b.reply(msg, fmt.Sprintf("❌ You need %d coins to buy this image.", funds.Required))
	case err != nil:
		b.fail(msg, "buy_image", err)
	default:
		b.reply(msg, fmt.Sprintf("🎉 You bought %s! Set it with /set_image %s", image, query))
	}
}

func (b *Bot) handleSetImage(msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		b.reply(msg, "Usage: /set_image <name>")
		return
	}
	acc := b.eco.Account(userID(msg.From))
	image, ok := findImage(acc.OwnedImages, query)
	if !ok {
		b.reply(msg, "❌ You do not own this image. Buy it first with /buy_image.")
		return
	}

	if err := b.eco.SetImage(userID(msg.From), image); err != nil {
		b.fail(msg, "set_image", err)
		return
	}
	b.reply(msg, fmt.Sprintf("✅ Your profile image has been set to %s!", image))
}

// handleMessageXP grants ambient xp for chatting, at most once a minute.
// Only level-ups produce a reply; ordinary grants stay silent.
func (b *Bot) handleMessageXP(msg *tgbotapi.Message) {
	res, ok, err := b.eco.MessageXP(userID(msg.From), displayName(msg.From), randRange(5, 10))
	if err != nil {
		b.log.Error("message xp", "user", msg.From.ID, "err", err)
		return
	}
	if ok && res.Levels > 0 {
		b.reply(msg, fmt.Sprintf("🎉 %s leveled up to %d! You earned %d coins!",
			displayName(msg.From), res.Level, res.Reward))
	}
}

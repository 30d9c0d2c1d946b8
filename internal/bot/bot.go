package bot

import (
	"log/slog"
	"strconv"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/domain"
	"coinbot/internal/service"
)

// Bot drives the Telegram command surface. It resolves user identities,
// tracks who it has seen per chat (the roster the leaderboard and random
// robbery need), and translates economy outcomes into replies. It holds no
// economic state of its own.
type Bot struct {
	api       *tgbotapi.BotAPI
	eco       *service.Economy
	log       *slog.Logger
	imagesDir string
	timeout   int

	mu      sync.Mutex
	rosters map[int64]map[domain.UserID]rosterEntry // chat -> seen members
	games   map[int64]*blackjackGame                // user -> pending blackjack
}

type rosterEntry struct {
	Name  string
	IsBot bool
}

func New(api *tgbotapi.BotAPI, eco *service.Economy, log *slog.Logger, imagesDir string, timeout int) *Bot {
	return &Bot{
		api:       api,
		eco:       eco,
		log:       log,
		imagesDir: imagesDir,
		timeout:   timeout,
		rosters:   map[int64]map[domain.UserID]rosterEntry{},
		games:     map[int64]*blackjackGame{},
	}
}

// Run blocks on the long-poll update loop until Stop is called.
func (b *Bot) Run() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout
	updates := b.api.GetUpdatesChan(u)

	b.log.Info("bot running", "user", b.api.Self.UserName)
	for update := range updates {
		if update.Message == nil || update.Message.From == nil {
			continue
		}
		b.handleMessage(update.Message)
	}
}

func (b *Bot) Stop() { b.api.StopReceivingUpdates() }

func userID(u *tgbotapi.User) domain.UserID {
	return domain.UserID(strconv.FormatInt(u.ID, 10))
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	from := msg.From
	b.remember(msg.Chat.ID, from)

	if from.IsBot {
		return
	}
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	// plain text: a pending blackjack move, otherwise ambient message xp
	if b.handleBlackjackInput(msg) {
		return
	}
	b.handleMessageXP(msg)
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.reply(msg, helpText)

	// economy
	case "work":
		b.handleWork(msg)
	case "daily":
		b.handleDaily(msg)
	case "weekly":
		b.handleWeekly(msg)
	case "balance", "bal":
		b.handleBalance(msg)
	case "leaderboard", "lb", "top":
		b.handleLeaderboard(msg)
	case "rob":
		b.handleRob(msg)
	case "cd":
		b.handleCooldowns(msg)
	case "fish":
		b.handleFish(msg)

	// gambling
	case "coinflip", "cf":
		b.handleCoinflip(msg)
	case "slots":
		b.handleSlots(msg)
	case "dice":
		b.handleDice(msg)
	case "blackjack", "bj":
		b.handleBlackjack(msg)

	// pets
	case "pets":
		b.handlePetCatalog(msg)
	case "adopt":
		b.handleAdopt(msg)
	case "feed":
		b.handleFeed(msg)
	case "bathe":
		b.handleBathe(msg)
	case "play":
		b.handlePlay(msg)
	case "mypet":
		b.handleMyPet(msg)

	// profile
	case "profile":
		b.handleProfile(msg)
	case "images":
		b.handleImages(msg)
	case "buy_image", "buyimage":
		b.handleBuyImage(msg)
	case "set_image", "setimage":
		b.handleSetImage(msg)

	default:
		b.reply(msg, "Unknown command. Try /help")
	}
}

const helpText = `Economy commands:
/work /daily /weekly /fish — earn coins on a cooldown
/balance — your coins
/leaderboard — top 10 richest
/rob — rob a random user (or reply to someone with /rob)
/cd — your cooldowns

Gambling:
/coinflip heads|tails <bet>  /slots <bet>  /dice <bet>  /blackjack <bet>

Pets:
/pets /adopt <species> <name> /feed /bathe /play /mypet

Profile:
/profile /images /buy_image <name> /set_image <name>`

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	if _, err := b.api.Send(out); err != nil {
		b.log.Error("send reply", "chat", msg.Chat.ID, "err", err)
	}
}

// remember records the sender in the chat's roster. This is the guild
// membership analog: leaderboard scope and random robbery victims come
// from here, never from the ledger.
func (b *Bot) remember(chatID int64, u *tgbotapi.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	roster, ok := b.rosters[chatID]
	if !ok {
		roster = map[domain.UserID]rosterEntry{}
		b.rosters[chatID] = roster
	}
	roster[userID(u)] = rosterEntry{Name: displayName(u), IsBot: u.IsBot}
}

// rosterScope returns the non-bot user ids seen in a chat.
func (b *Bot) rosterScope(chatID int64) []domain.UserID {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ids []domain.UserID
	for id, entry := range b.rosters[chatID] {
		if !entry.IsBot {
			ids = append(ids, id)
		}
	}
	return ids
}

func (b *Bot) rosterName(chatID int64, id domain.UserID) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if entry, ok := b.rosters[chatID][id]; ok && entry.Name != "" {
		return entry.Name
	}
	return "User " + string(id)
}

package bot

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"coinbot/internal/domain"
)

// All games settle through a single Wager call: the bet/balance check and
// the outcome delta commit atomically, and a loss is capped at the bet.

func parseBet(arg string) (int64, bool) {
	bet, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	return bet, err == nil && bet > 0
}

func (b *Bot) replyGambleErr(msg *tgbotapi.Message, op string, err error) {
	var funds *domain.InsufficientFundsError
	if errors.As(err, &funds) {
		b.reply(msg, "You don't have enough coins!")
		return
	}
	b.fail(msg, op, err)
}

func (b *Bot) handleCoinflip(msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		b.reply(msg, "Usage: /coinflip heads|tails <bet>")
		return
	}
	choice := strings.ToLower(args[0])
	if choice != "heads" && choice != "tails" {
		b.reply(msg, "Choose either 'heads' or 'tails'.")
		return
	}
	bet, ok := parseBet(args[1])
	if !ok {
		b.reply(msg, "Usage: /coinflip heads|tails <bet>")
		return
	}

	var result string
	res, err := b.eco.Wager(userID(msg.From), displayName(msg.From), bet, func() int64 {
		result = "tails"
		if rand.Intn(2) == 0 {
			result = "heads"
		}
		if result == choice {
			return bet
		}
		return -bet
	})
	if err != nil {
		b.replyGambleErr(msg, "coinflip", err)
		return
	}
	if res.Delta > 0 {
		b.reply(msg, fmt.Sprintf("You won! The coin landed on %s. You gained %d coins!", result, res.Delta))
	} else {
		b.reply(msg, fmt.Sprintf("You lost! The coin landed on %s. You lost %d coins!", result, -res.Delta))
	}
}

func (b *Bot) handleSlots(msg *tgbotapi.Message) {
	bet, ok := parseBet(msg.CommandArguments())
	if !ok {
		b.reply(msg, "Usage: /slots <bet>")
		return
	}

	symbols := []string{"🍒", "🍋", "🔔", "⭐", "💎"}
	var reels [3]string
	res, err := b.eco.Wager(userID(msg.From), displayName(msg.From), bet, func() int64 {
		for i := range reels {
			reels[i] = symbols[rand.Intn(len(symbols))]
		}
		switch {
		case reels[0] == reels[1] && reels[1] == reels[2]:
			return bet * 5
		case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
			return bet * 2
		default:
			return -bet
		}
	})
	if err != nil {
		b.replyGambleErr(msg, "slots", err)
		return
	}

	line := strings.Join(reels[:], " | ")
	switch {
	case res.Delta == bet*5:
		b.reply(msg, fmt.Sprintf("%s\nJackpot! You won %d coins!", line, res.Delta))
	case res.Delta == bet*2:
		b.reply(msg, fmt.Sprintf("%s\nTwo in a row! You won %d coins!", line, res.Delta))
	default:
		b.reply(msg, fmt.Sprintf("%s\nNo match! You lost %d coins.", line, bet))
	}
}

func (b *Bot) handleDice(msg *tgbotapi.Message) {
	bet, ok := parseBet(msg.CommandArguments())
	if !ok {
		b.reply(msg, "Usage: /dice <bet>")
		return
	}

	roll3 := func() ([]int, int) {
		dice := make([]int, 3)
		total := 0
		for i := range dice {
			dice[i] = rand.Intn(6) + 1
			total += dice[i]
		}
		return dice, total
	}

	var userDice, botDice []int
	var userTotal, botTotal int
	res, err := b.eco.Wager(userID(msg.From), displayName(msg.From), bet, func() int64 {
		userDice, userTotal = roll3()
		botDice, botTotal = roll3()
		switch {
		case userTotal > botTotal:
			return bet
		case userTotal < botTotal:
			return -bet
		default:
			return 0
		}
	})
	if err != nil {
		b.replyGambleErr(msg, "dice", err)
		return
	}

	text := fmt.Sprintf("You rolled: %v (Total: %d)\nBot rolled: %v (Total: %d)\n", userDice, userTotal, botDice, botTotal)
	switch {
	case res.Delta > 0:
		text += fmt.Sprintf("You win! You gained %d coins.", res.Delta)
	case res.Delta < 0:
		text += fmt.Sprintf("You lose! You lost %d coins.", -res.Delta)
	default:
		text += "It's a tie! No coins lost or gained."
	}
	b.reply(msg, text)
}

// blackjackGame is per-user session state. The ledger is untouched until
// the game resolves: only the final hit/stand outcome commits a wager, so
// an abandoned session costs nothing.
type blackjackGame struct {
	chatID int64
	bet    int64
	player []int
	house  []int
}

func drawCard() int { return rand.Intn(11) + 1 }

func handTotal(cards []int) int {
	total := 0
	for _, c := range cards {
		total += c
	}
	return total
}

func (b *Bot) handleBlackjack(msg *tgbotapi.Message) {
	bet, ok := parseBet(msg.CommandArguments())
	if !ok {
		b.reply(msg, "Usage: /blackjack <bet>")
		return
	}
	if bet > b.eco.Balance(userID(msg.From)) {
		b.reply(msg, "You don't have enough coins!")
		return
	}

	b.mu.Lock()
	if _, playing := b.games[msg.From.ID]; playing {
		b.mu.Unlock()
		b.reply(msg, "Finish your current game first! Type hit or stand.")
		return
	}
	game := &blackjackGame{
		chatID: msg.Chat.ID,
		bet:    bet,
		player: []int{drawCard(), drawCard()},
		house:  []int{drawCard(), drawCard()},
	}
	total := handTotal(game.player)
	if total < 21 {
		b.games[msg.From.ID] = game
	}
	b.mu.Unlock()

	b.reply(msg, fmt.Sprintf(
		"Your cards: %v (Total: %d)\nBot shows: [%d, ?]\nType hit to draw another card or stand to hold.",
		game.player, total, game.house[0]))

	// dealt 21 outright: nothing left to decide, settle immediately
	if total >= 21 {
		b.settleBlackjack(msg, game, total)
	}
}

// handleBlackjackInput consumes "hit"/"stand" from a user with a pending
// game. Returns false when the message is not a blackjack move.
func (b *Bot) handleBlackjackInput(msg *tgbotapi.Message) bool {
	move := strings.ToLower(strings.TrimSpace(msg.Text))
	if move != "hit" && move != "stand" {
		return false
	}

	b.mu.Lock()
	game, ok := b.games[msg.From.ID]
	if !ok || game.chatID != msg.Chat.ID {
		b.mu.Unlock()
		return false
	}
	if move == "hit" {
		game.player = append(game.player, drawCard())
	}
	total := handTotal(game.player)
	done := move == "stand" || total >= 21
	if done {
		delete(b.games, msg.From.ID)
	}
	b.mu.Unlock()

	if !done {
		card := game.player[len(game.player)-1]
		b.reply(msg, fmt.Sprintf("You drew %d. Your total is now %d. Type hit or stand.", card, total))
		return true
	}

	if move == "hit" && total > 21 {
		card := game.player[len(game.player)-1]
		res, err := b.eco.Wager(userID(msg.From), displayName(msg.From), game.bet, func() int64 {
			return -game.bet
		})
		if err != nil {
			b.replyGambleErr(msg, "blackjack", err)
			return true
		}
		b.reply(msg, fmt.Sprintf("You drew %d. Your total is %d — busted! You lost %d coins.", card, total, -res.Delta))
		return true
	}

	b.settleBlackjack(msg, game, total)
	return true
}

func (b *Bot) settleBlackjack(msg *tgbotapi.Message, game *blackjackGame, playerTotal int) {
	res, err := b.eco.Wager(userID(msg.From), displayName(msg.From), game.bet, func() int64 {
		// house draws to 17
		for handTotal(game.house) < 17 {
			game.house = append(game.house, drawCard())
		}
		houseTotal := handTotal(game.house)
		switch {
		case houseTotal > 21 || playerTotal > houseTotal:
			return game.bet
		case playerTotal < houseTotal:
			return -game.bet
		default:
			return 0
		}
	})
	if err != nil {
		b.replyGambleErr(msg, "blackjack", err)
		return
	}

	text := fmt.Sprintf("You stand with %d.\nBot's cards: %v (Total: %d)\n",
		playerTotal, game.house, handTotal(game.house))
	switch {
	case res.Delta > 0:
		text += fmt.Sprintf("You win! You gained %d coins.", res.Delta)
	case res.Delta < 0:
		text += fmt.Sprintf("You lose! You lost %d coins.", -res.Delta)
	default:
		text += "It's a tie! No coins lost or gained."
	}
	b.reply(msg, text)
}

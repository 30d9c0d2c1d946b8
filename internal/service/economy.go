package service

import (
	"math/rand"
	"time"

	"coinbot/internal/domain"
	"coinbot/internal/storage"
)

// Robbery policy constants, matching the game rules.
const (
	robSuccessChance = 0.7
	robMinFraction   = 0.10
	robMaxFraction   = 0.40
	robFineMin       = 5
	robFineMax       = 25
)

// Leveling: xp needed to leave level L is 100*L^2, each level gained pays
// 50 coins per new level.
const (
	xpThresholdBase = 100
	levelRewardRate = 50
)

// Economy is the transaction engine. Every entry point is a single
// Mutate/MutatePair call, so cooldown check, balance check and state
// update commit (and persist) as one atomic unit.
type Economy struct {
	store *storage.Store
	rng   *rand.Rand
	now   func() time.Time
}

func NewEconomy(store *storage.Store) *Economy {
	return &Economy{
		store: store,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		now:   time.Now,
	}
}

type ClaimResult struct {
	Amount  int64
	Balance int64
}

type WagerResult struct {
	Delta   int64
	Balance int64
}

type RobResult struct {
	Caught        bool
	Amount        int64 // stolen coins, or the assessed fine when caught
	RobberBalance int64
	VictimBalance int64
}

type LevelUpResult struct {
	Levels int   // levels gained in this commit
	Reward int64 // coins paid out for those levels
	Level  int
	XP     int64
}

type CooldownStatus struct {
	Action    domain.Action
	Ready     bool
	Remaining time.Duration
}

// Account returns a read-only copy of the record, creating it on first
// reference.
func (e *Economy) Account(id domain.UserID) *domain.Account {
	return e.store.GetOrCreate(id)
}

func (e *Economy) Balance(id domain.UserID) int64 {
	return e.store.GetOrCreate(id).Balance
}

func petAction(action domain.Action) bool {
	switch action {
	case domain.ActionPetFeed, domain.ActionPetBathe, domain.ActionPetPlay:
		return true
	}
	return false
}

// Claim credits amount for a cooldown-gated action (work, daily, weekly,
// fish, pet care). The amount is the caller's roll; the engine enforces
// the gate and advances the cooldown to the commit time.
func (e *Economy) Claim(id domain.UserID, name string, action domain.Action, amount int64) (ClaimResult, error) {
	d, ok := CooldownDuration(action)
	if !ok {
		return ClaimResult{}, domain.ErrUnknownAction
	}
	if amount <= 0 {
		return ClaimResult{}, domain.ErrInvalidAmount
	}

	var res ClaimResult
	err := e.store.Mutate(id, func(acc *domain.Account) error {
		if petAction(action) && acc.Pet == nil {
			return domain.ErrNoPet
		}
		now := e.now().UTC()
		last := acc.LastClaim(action)
		if !Eligible(last, d, now) {
			return &domain.CooldownActiveError{Action: action, Remaining: Remaining(last, d, now)}
		}
		acc.Name = name
		acc.Balance += amount
		acc.Cooldowns[action] = now
		res = ClaimResult{Amount: amount, Balance: acc.Balance}
		return nil
	})
	return res, err
}

// Wager runs one gamble. The bet is checked against the balance before any
// randomness: play is only invoked once the bet is covered, and its delta
// is clamped so a loss can never exceed the bet.
func (e *Economy) Wager(id domain.UserID, name string, bet int64, play func() int64) (WagerResult, error) {
	if bet <= 0 {
		return WagerResult{}, domain.ErrInvalidAmount
	}

	var res WagerResult
	err := e.store.Mutate(id, func(acc *domain.Account) error {
		if bet > acc.Balance {
			return &domain.InsufficientFundsError{Required: bet, Available: acc.Balance}
		}
		delta := play()
		if delta < -bet {
			delta = -bet
		}
		acc.Name = name
		acc.Balance += delta
		res = WagerResult{Delta: delta, Balance: acc.Balance}
		return nil
	})
	return res, err
}

// Rob attempts to steal from victim. On success a random fraction of the
// victim's balance (at least 1 coin) moves to the robber: debit equals
// credit, the pair's total is conserved. On failure the robber pays a fine
// floored at zero. Either way the rob cooldown advances, so rapid retries
// stay blocked regardless of outcome.
func (e *Economy) Rob(robberID domain.UserID, robberName string, victimID domain.UserID, victimIsBot bool) (RobResult, error) {
	if victimID == robberID {
		return RobResult{}, domain.ErrSelfTarget
	}
	if victimIsBot {
		return RobResult{}, domain.ErrBotTarget
	}

	d, _ := CooldownDuration(domain.ActionRob)
	var res RobResult
	err := e.store.MutatePair(robberID, victimID, func(robber, victim *domain.Account) error {
		now := e.now().UTC()
		last := robber.LastClaim(domain.ActionRob)
		if !Eligible(last, d, now) {
			return &domain.CooldownActiveError{Action: domain.ActionRob, Remaining: Remaining(last, d, now)}
		}
		if victim.Balance <= 0 {
			return domain.ErrTargetBroke
		}

		robber.Name = robberName
		robber.Cooldowns[domain.ActionRob] = now

		// rng is only touched inside store mutations, which serialize
		if e.rng.Float64() < robSuccessChance {
			fraction := robMinFraction + e.rng.Float64()*(robMaxFraction-robMinFraction)
			amount := int64(float64(victim.Balance) * fraction)
			if amount < 1 {
				amount = 1
			}
			victim.Balance -= amount
			robber.Balance += amount
			res = RobResult{Amount: amount, RobberBalance: robber.Balance, VictimBalance: victim.Balance}
			return nil
		}

		fine := int64(robFineMin + e.rng.Intn(robFineMax-robFineMin+1))
		paid := fine
		if paid > robber.Balance {
			paid = robber.Balance // fine floors the balance at zero
		}
		robber.Balance -= paid
		res = RobResult{Caught: true, Amount: fine, RobberBalance: robber.Balance, VictimBalance: victim.Balance}
		return nil
	})
	return res, err
}

func xpToNext(level int) int64 {
	return xpThresholdBase * int64(level) * int64(level)
}

func levelUp(acc *domain.Account) LevelUpResult {
	var res LevelUpResult
	for acc.XP >= xpToNext(acc.Level) {
		acc.XP -= xpToNext(acc.Level)
		acc.Level++
		reward := levelRewardRate * int64(acc.Level)
		acc.Balance += reward
		res.Levels++
		res.Reward += reward
	}
	res.Level = acc.Level
	res.XP = acc.XP
	return res
}

// AddXP adds xp and resolves every level-up it causes in the same commit:
// a large grant can cross several thresholds at once, each paying its
// level-dependent reward.
func (e *Economy) AddXP(id domain.UserID, name string, amount int64) (LevelUpResult, error) {
	if amount <= 0 {
		return LevelUpResult{}, domain.ErrInvalidAmount
	}

	var res LevelUpResult
	err := e.store.Mutate(id, func(acc *domain.Account) error {
		acc.Name = name
		acc.XP += amount
		res = levelUp(acc)
		return nil
	})
	return res, err
}

// MessageXP is AddXP behind the per-message xp cooldown. A cold cooldown
// is not an error: the grant is silently skipped and ok is false.
func (e *Economy) MessageXP(id domain.UserID, name string, amount int64) (res LevelUpResult, ok bool, err error) {
	if amount <= 0 {
		return LevelUpResult{}, false, domain.ErrInvalidAmount
	}

	d, _ := CooldownDuration(domain.ActionXP)
	err = e.store.Mutate(id, func(acc *domain.Account) error {
		now := e.now().UTC()
		if !Eligible(acc.LastClaim(domain.ActionXP), d, now) {
			return nil
		}
		acc.Name = name
		acc.Cooldowns[domain.ActionXP] = now
		acc.XP += amount
		res = levelUp(acc)
		ok = true
		return nil
	})
	if err != nil {
		return LevelUpResult{}, false, err
	}
	return res, ok, nil
}

// Adopt gives the user their pet. A pet is for life: re-adoption is
// rejected rather than replacing it.
func (e *Economy) Adopt(id domain.UserID, name string, species domain.PetSpecies, petName string) error {
	switch species {
	case domain.PetBird, domain.PetCat, domain.PetDog:
	default:
		return domain.ErrUnknownSpecies
	}
	return e.store.Mutate(id, func(acc *domain.Account) error {
		if acc.Pet != nil {
			return domain.ErrPetAdopted
		}
		acc.Name = name
		acc.Pet = &domain.Pet{Species: species, Name: petName}
		return nil
	})
}

// BuyImage spends price coins on a profile image.
func (e *Economy) BuyImage(id domain.UserID, name, image string, price int64) error {
	return e.store.Mutate(id, func(acc *domain.Account) error {
		if acc.Owns(image) {
			return domain.ErrImageOwned
		}
		if price > acc.Balance {
			return &domain.InsufficientFundsError{Required: price, Available: acc.Balance}
		}
		acc.Name = name
		acc.Balance -= price
		acc.OwnedImages = append(acc.OwnedImages, image)
		return nil
	})
}

// SetImage activates an owned profile image.
func (e *Economy) SetImage(id domain.UserID, image string) error {
	return e.store.Mutate(id, func(acc *domain.Account) error {
		if !acc.Owns(image) {
			return domain.ErrImageNotOwned
		}
		acc.ActiveImage = image
		return nil
	})
}

// Cooldowns reports the given actions' readiness for one user, in the
// order asked.
func (e *Economy) Cooldowns(id domain.UserID, actions ...domain.Action) []CooldownStatus {
	acc := e.store.GetOrCreate(id)
	now := e.now().UTC()
	out := make([]CooldownStatus, 0, len(actions))
	for _, action := range actions {
		d, ok := CooldownDuration(action)
		if !ok {
			continue
		}
		last := acc.LastClaim(action)
		out = append(out, CooldownStatus{
			Action:    action,
			Ready:     Eligible(last, d, now),
			Remaining: Remaining(last, d, now),
		})
	}
	return out
}

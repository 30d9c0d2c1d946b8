package domain

import (
	"errors"
	"fmt"
	"time"
)

// Policy errors are expected outcomes: the bot turns them into replies,
// nothing aborts the process over them.
var (
	ErrUnknownAction  = errors.New("unknown action")
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrSelfTarget     = errors.New("cannot rob yourself")
	ErrBotTarget      = errors.New("cannot rob bots")
	ErrNoTarget       = errors.New("no one to rob")
	ErrTargetBroke    = errors.New("target has no money")
	ErrNoPet          = errors.New("no pet adopted")
	ErrPetAdopted     = errors.New("pet already adopted")
	ErrUnknownSpecies = errors.New("unknown pet species")
	ErrImageOwned     = errors.New("image already owned")
	ErrImageNotOwned  = errors.New("image not owned")
)

// CooldownActiveError rejects a claim attempted before the action's
// cooldown has elapsed. Remaining is truncated to whole seconds.
type CooldownActiveError struct {
	Action    Action
	Remaining time.Duration
}

func (e *CooldownActiveError) Error() string {
	return fmt.Sprintf("%s on cooldown for %s", e.Action, e.Remaining)
}

// InsufficientFundsError rejects a spend larger than the available balance.
type InsufficientFundsError struct {
	Required  int64
	Available int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: need %d, have %d", e.Required, e.Available)
}

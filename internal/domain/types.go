package domain

import (
	"time"
)

type UserID string

// Action names a cooldown-gated activity. The values double as JSON map
// keys in the persisted snapshot, so they must stay stable.
type Action string

const (
	ActionWork     Action = "work"
	ActionDaily    Action = "daily"
	ActionWeekly   Action = "weekly"
	ActionRob      Action = "rob"
	ActionFish     Action = "fish"
	ActionPetFeed  Action = "pet_feed"
	ActionPetBathe Action = "pet_bathe"
	ActionPetPlay  Action = "pet_play"
	ActionXP       Action = "xp_gain"
)

type PetSpecies string

const (
	PetBird PetSpecies = "bird"
	PetCat  PetSpecies = "cat"
	PetDog  PetSpecies = "dog"
)

type Pet struct {
	Species PetSpecies `json:"species"`
	Name    string     `json:"name"`
}

// Account is the per-user economic state. All mutation goes through the
// economy service; nothing else may change a balance or a cooldown.
type Account struct {
	ID          UserID               `json:"id"`
	Name        string               `json:"name,omitempty"` // last seen display name
	Balance     int64                `json:"balance"`
	Cooldowns   map[Action]time.Time `json:"cooldowns,omitempty"`
	XP          int64                `json:"xp"`
	Level       int                  `json:"level"`
	Pet         *Pet                 `json:"pet,omitempty"`
	OwnedImages []string             `json:"owned_images,omitempty"`
	ActiveImage string               `json:"active_image,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewAccount materializes the defaults for a first-time user.
func NewAccount(id UserID, name string, now time.Time) *Account {
	return &Account{
		ID:        id,
		Name:      name,
		Cooldowns: map[Action]time.Time{},
		Level:     1,
		CreatedAt: now,
	}
}

// LastClaim returns the stored claim time for an action. A missing entry
// reads as the zero time, which is always eligible.
func (a *Account) LastClaim(action Action) time.Time {
	return a.Cooldowns[action]
}

func (a *Account) Owns(image string) bool {
	for _, img := range a.OwnedImages {
		if img == image {
			return true
		}
	}
	return false
}

// Clone deep-copies the account so callers can read or stage changes
// without touching the store's copy.
func (a *Account) Clone() *Account {
	c := *a
	c.Cooldowns = make(map[Action]time.Time, len(a.Cooldowns))
	for k, v := range a.Cooldowns {
		c.Cooldowns[k] = v
	}
	if a.Pet != nil {
		pet := *a.Pet
		c.Pet = &pet
	}
	if a.OwnedImages != nil {
		c.OwnedImages = append([]string(nil), a.OwnedImages...)
	}
	return &c
}

// Snapshot is the full persisted store: one record per user, written to
// disk as a single JSON document after every committed mutation.
type Snapshot struct {
	Version   int                 `json:"version"`
	Accounts  map[UserID]*Account `json:"accounts"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

package domain

import (
	"testing"
	"time"
)

func TestAccount_LastClaim_MissingIsZero(t *testing.T) {
	acc := NewAccount("1", "alice", time.Now())
	if !acc.LastClaim(ActionWork).IsZero() {
		t.Fatal("missing cooldown entry should read as zero time")
	}

	stamp := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	acc.Cooldowns[ActionWork] = stamp
	if !acc.LastClaim(ActionWork).Equal(stamp) {
		t.Fatalf("LastClaim = %v, want %v", acc.LastClaim(ActionWork), stamp)
	}
}

func TestAccount_Owns(t *testing.T) {
	acc := NewAccount("1", "alice", time.Now())
	if acc.Owns("sunset.png") {
		t.Fatal("fresh account owns nothing")
	}
	acc.OwnedImages = []string{"sunset.png", "forest.png"}
	if !acc.Owns("forest.png") {
		t.Fatal("expected forest.png owned")
	}
	if acc.Owns("ocean.png") {
		t.Fatal("ocean.png not owned")
	}
}

func TestAccount_CloneIsDeep(t *testing.T) {
	acc := NewAccount("1", "alice", time.Now())
	acc.Balance = 500
	acc.Cooldowns[ActionDaily] = time.Now()
	acc.Pet = &Pet{Species: PetCat, Name: "Whiskers"}
	acc.OwnedImages = []string{"sunset.png"}

	c := acc.Clone()
	c.Balance = 0
	c.Cooldowns[ActionWork] = time.Now()
	c.Pet.Name = "Imposter"
	c.OwnedImages[0] = "other.png"

	if acc.Balance != 500 {
		t.Fatal("balance shared between clone and original")
	}
	if _, ok := acc.Cooldowns[ActionWork]; ok {
		t.Fatal("cooldown map shared")
	}
	if acc.Pet.Name != "Whiskers" {
		t.Fatal("pet pointer shared")
	}
	if acc.OwnedImages[0] != "sunset.png" {
		t.Fatal("owned images slice shared")
	}
}

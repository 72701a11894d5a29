// Package game holds constants of the game whose saves jkrsave reads.
package game

import (
	"slices"

	"github.com/arloliu/jkrsave/value"
)

// HandType names a poker hand as it appears in GAME.hands of a save.
type HandType string

const (
	FlushFive     HandType = "Flush Five"
	FlushHouse    HandType = "Flush House"
	FiveOfAKind   HandType = "Five of a Kind"
	ThreeOfAKind  HandType = "Three of a Kind"
	Pair          HandType = "Pair"
	FullHouse     HandType = "Full House"
	Flush         HandType = "Flush"
	StraightFlush HandType = "Straight Flush"
	Straight      HandType = "Straight"
	HighCard      HandType = "High Card"
	FourOfAKind   HandType = "Four of a Kind"
	TwoPair       HandType = "Two Pair"
)

var handTypes = []HandType{
	FlushFive,
	FlushHouse,
	FiveOfAKind,
	ThreeOfAKind,
	Pair,
	FullHouse,
	Flush,
	StraightFlush,
	Straight,
	HighCard,
	FourOfAKind,
	TwoPair,
}

// HandTypes returns all hand types in the order the game lists them.
func HandTypes() []HandType {
	return slices.Clone(handTypes)
}

// IsHandType reports whether name is one of the known hand types.
func IsHandType(name string) bool {
	return slices.Contains(handTypes, HandType(name))
}

// Hand returns the GAME.hands entry for h from a decoded save.
func Hand(save value.Value, h HandType) (value.Value, bool) {
	return save.Lookup("GAME", "hands", string(h))
}

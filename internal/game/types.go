// internal/game/types.go
//
// Core type definitions for the riddle game.
// Defines:
//   - Difficulty: the tier chosen at session creation (easy/medium/hard).
//   - Role: who spoke a Turn (user or assistant).
//   - Turn: one immutable utterance in the guardian dialogue.

package game

import "fmt"

// Difficulty selects the riddle tier and the base score of a solve.
type Difficulty int

const (
	Easy   Difficulty = 0
	Medium Difficulty = 1
	Hard   Difficulty = 2
)

// Difficulties lists the valid tiers in menu order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

// NormalizeDifficulty maps any out-of-range value to Medium.
func NormalizeDifficulty(d int) Difficulty {
	switch Difficulty(d) {
	case Easy, Medium, Hard:
		return Difficulty(d)
	default:
		return Medium
	}
}

// Valid reports whether d is one of the three tiers.
func (d Difficulty) Valid() bool { return d >= Easy && d <= Hard }

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// Description is the one-line blurb shown in the difficulty selector.
func (d Difficulty) Description() string {
	switch d {
	case Easy:
		return "Easy: Simple riddles suitable for beginners"
	case Hard:
		return "Hard: Complex mind-benders for riddle masters"
	default:
		return "Medium: Challenging riddles that will make you think"
	}
}

// Role tags the speaker of a Turn.
// Values match the chat roles used by completion backends.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one role-tagged utterance. Turns are values and never edited in place.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

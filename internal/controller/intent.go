// internal/controller/intent.go
//
// Controller vocabulary: states, intents, results and the session snapshot
// handed to front ends (console, HTTP).

package controller

import (
	"time"

	"github.com/robalobadob/riddler/internal/game"
)

// State is a node of the game's menu/riddle state machine.
type State string

const (
	StateMainMenu         State = "main_menu"
	StateDifficultySelect State = "difficulty_select"
	StateActiveRiddle     State = "active_riddle"
	StateSolved           State = "solved" // correct guess, insight not yet delivered
	StatePlayAgain        State = "play_again"
	StateInstructions     State = "instructions"
	StateNoSavedGame      State = "no_saved_game"
	StateQuit             State = "quit"
)

// IntentKind names what the player asked for.
type IntentKind string

const (
	IntentStart        IntentKind = "start"
	IntentContinue     IntentKind = "continue"
	IntentInstructions IntentKind = "instructions"
	IntentDifficulty   IntentKind = "difficulty"
	IntentAnswer       IntentKind = "answer"
	IntentInsight      IntentKind = "insight"
	IntentPlayAgain    IntentKind = "play_again"
	IntentBack         IntentKind = "back"
	IntentQuit         IntentKind = "quit"
)

// Intent is one player request. Only the fields relevant to Kind are read.
type Intent struct {
	Kind       IntentKind `json:"kind"`
	Difficulty int        `json:"difficulty,omitempty"`
	Text       string     `json:"text,omitempty"`
	Again      bool       `json:"again,omitempty"`
}

func Start() Intent { return Intent{Kind: IntentStart} }
func Continue() Intent { return Intent{Kind: IntentContinue} }
func Instructions() Intent { return Intent{Kind: IntentInstructions} }
func ChooseDifficulty(d int) Intent { return Intent{Kind: IntentDifficulty, Difficulty: d} }
func Answer(text string) Intent { return Intent{Kind: IntentAnswer, Text: text} }
func RetryInsight() Intent { return Intent{Kind: IntentInsight} }
func PlayAgain(again bool) Intent { return Intent{Kind: IntentPlayAgain, Again: again} }
func Back() Intent { return Intent{Kind: IntentBack} }
func Quit() Intent { return Intent{Kind: IntentQuit} }

// ResultKind tells the presentation layer what Text holds.
type ResultKind string

const (
	KindMenu           ResultKind = "menu"
	KindDifficultyMenu ResultKind = "difficulty_menu"
	KindRiddle         ResultKind = "riddle"
	KindHint           ResultKind = "hint"
	KindRiddleRepeat   ResultKind = "riddle_repeat"
	KindJudgement      ResultKind = "judgement"
	KindInsight        ResultKind = "insight"
	KindInstructions   ResultKind = "instructions"
	KindNoSavedGame    ResultKind = "no_saved_game"
	KindFarewell       ResultKind = "farewell"
)

// Snapshot is a read-only view of the session counters.
type Snapshot struct {
	Difficulty    game.Difficulty `json:"difficulty"`
	CurrentRiddle string          `json:"currentRiddle"`
	Attempts      int             `json:"attempts"`
	HintsUsed     int             `json:"hintsUsed"`
	Score         int             `json:"score"`
	Turns         int             `json:"turns"`
	StartedAt     time.Time       `json:"startedAt"`
}

func snapshotOf(s *game.Session) Snapshot {
	return Snapshot{
		Difficulty:    s.Difficulty,
		CurrentRiddle: s.CurrentRiddle,
		Attempts:      s.Attempts,
		HintsUsed:     s.HintsUsed,
		Score:         s.Score,
		Turns:         s.Transcript.Len(),
		StartedAt:     s.StartedAt,
	}
}

// Result is what one Dispatch produced, ready to render.
type Result struct {
	State     State      `json:"state"`
	Kind      ResultKind `json:"kind"`
	Text      string     `json:"text,omitempty"`
	Correct   bool       `json:"correct"`
	Judgement string     `json:"judgement,omitempty"`
	Points    int        `json:"points,omitempty"`
	Session   Snapshot   `json:"session"`

	// SaveErr is set when the turn succeeded but its mutation did not reach
	// the save slot.
	SaveErr error `json:"-"`
}

// internal/game/transcript.go
//
// Append-only log of guardian exchanges.
// Responsibilities:
//   - Append (user prompt, assistant reply) pairs; never a lone turn.
//   - Hand out copies for replay to the completion service.
//   - JSON codec that rejects unpaired or misordered turns.

package game

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Transcript is the append-only dialogue log replayed to the completion
// service on every call. Turns are only ever added as user/assistant pairs.
type Transcript struct {
	turns []Turn
}

// AppendExchange records a prompt and the reply it produced.
func (t *Transcript) AppendExchange(prompt, reply string) {
	t.append(RoleUser, prompt)
	t.append(RoleAssistant, reply)
}

func (t *Transcript) append(role Role, text string) {
	t.turns = append(t.turns, Turn{Role: role, Text: text})
}

// Snapshot returns a copy of the turns in order.
func (t Transcript) Snapshot() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

func (t Transcript) IsEmpty() bool { return len(t.turns) == 0 }

func (t Transcript) Len() int { return len(t.turns) }

// Equal compares two transcripts turn by turn.
func (t Transcript) Equal(o Transcript) bool {
	if len(t.turns) != len(o.turns) {
		return false
	}
	for i := range t.turns {
		if t.turns[i] != o.turns[i] {
			return false
		}
	}
	return true
}

func (t Transcript) MarshalJSON() ([]byte, error) {
	if t.turns == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t.turns)
}

// UnmarshalJSON accepts only well-formed pair sequences: user first,
// roles alternating, even length.
func (t *Transcript) UnmarshalJSON(data []byte) error {
	var turns []Turn
	if err := json.Unmarshal(data, &turns); err != nil {
		return err
	}
	if len(turns)%2 != 0 {
		return errors.Errorf("transcript has %d turns, want an even count", len(turns))
	}
	for i, turn := range turns {
		want := RoleUser
		if i%2 == 1 {
			want = RoleAssistant
		}
		if turn.Role != want {
			return errors.Errorf("transcript turn %d: role %q, want %q", i, turn.Role, want)
		}
	}
	t.turns = turns
	return nil
}

// internal/prompts/prompts.go
//
// Guardian persona and the fixed prompt strings sent on each turn.
//
// Loading behavior:
//   1. The embedded default (assets/guardian.yaml) is parsed exactly once (sync.Once).
//   2. Load(path) with a non-empty path reads a YAML file and overlays it on the
//      defaults, so an override may set only the fields it cares about.
//
// Environment variable (read by internal/config, passed to Load):
//   RIDDLER_PROMPTS_FILE=/path/to/prompts.yaml
//
// Constraints:
//   • Every prompt must be non-empty after overlay.
//   • The judge template must contain the {{guess}} placeholder.
package prompts

import (
	"os"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/riddler/assets"
	"github.com/robalobadob/riddler/internal/game"
)

const guessPlaceholder = "{{guess}}"

// RiddlePrompts holds one instruction per difficulty tier.
type RiddlePrompts struct {
	Easy     string `yaml:"easy"`
	Medium   string `yaml:"medium"`
	Hard     string `yaml:"hard"`
	Fallback string `yaml:"fallback"`
}

// Set is a complete guardian configuration.
type Set struct {
	Preamble string        `yaml:"preamble"`
	Riddle   RiddlePrompts `yaml:"riddle"`
	HintCode string        `yaml:"hint_code"`
	Judge    string        `yaml:"judge"`
	Insight  string        `yaml:"insight"`
}

var (
	defaultOnce sync.Once
	defaultSet  Set
	defaultErr  error
)

// Default returns the embedded prompt set.
func Default() (*Set, error) {
	defaultOnce.Do(func() {
		raw, err := assets.GuardianYAML()
		if err != nil {
			defaultErr = errors.Wrap(err, "prompts: read embedded defaults")
			return
		}
		if err := yaml.Unmarshal(raw, &defaultSet); err != nil {
			defaultErr = errors.Wrap(err, "prompts: parse embedded defaults")
			return
		}
		defaultErr = defaultSet.Validate()
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	s := defaultSet
	return &s, nil
}

// Load overlays the YAML file at path on the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Set, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return s, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "prompts: read %s", path)
	}
	if err := yaml.Unmarshal(raw, s); err != nil {
		return nil, errors.Wrapf(err, "prompts: parse %s", path)
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrapf(err, "prompts: %s", path)
	}
	return s, nil
}

// Validate checks that every prompt is present.
func (s *Set) Validate() error {
	fields := map[string]string{
		"preamble":        s.Preamble,
		"riddle.easy":     s.Riddle.Easy,
		"riddle.medium":   s.Riddle.Medium,
		"riddle.hard":     s.Riddle.Hard,
		"riddle.fallback": s.Riddle.Fallback,
		"hint_code":       s.HintCode,
		"judge":           s.Judge,
		"insight":         s.Insight,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return errors.Errorf("%s is empty", name)
		}
	}
	if !strings.Contains(s.Judge, guessPlaceholder) {
		return errors.Errorf("judge template lacks %s", guessPlaceholder)
	}
	return nil
}

// RiddlePrompt returns the instruction for a new riddle at difficulty d.
func (s *Set) RiddlePrompt(d game.Difficulty) string {
	switch d {
	case game.Easy:
		return s.Riddle.Easy
	case game.Medium:
		return s.Riddle.Medium
	case game.Hard:
		return s.Riddle.Hard
	default:
		return s.Riddle.Fallback
	}
}

// JudgePrompt asks the guardian to rule on the literal guess text.
func (s *Set) JudgePrompt(guess string) string {
	return strings.ReplaceAll(s.Judge, guessPlaceholder, guess)
}

package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownGame is returned when a game type is not in the catalog
var ErrUnknownGame = errors.New("unknown game")

// GameType identifies a game; values match the client routes
type GameType string

const (
	ColorShape GameType = "colorshape"
	Objects    GameType = "objects"
	Speech     GameType = "speech"
	Math       GameType = "math"
)

// Difficulty selects the prompt pool and quiz length
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// Difficulties lists the supported difficulties in ascending order
var Difficulties = []Difficulty{Easy, Medium, Hard}

// ParseDifficulty normalizes a difficulty name
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("invalid difficulty %q", s)
}

// Prompt is a single item presented to the participant
type Prompt struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Glyph       string   `json:"glyph,omitempty"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Answer      string   `json:"-"`
}

// Level holds the settings for one difficulty of a game.
// PoolSize is zero for synthesized games; MaxOperand is zero for catalog games.
type Level struct {
	TargetQuestions int `json:"targetQuestions"`
	PoolSize        int `json:"poolSize,omitempty"`
	OptionsCount    int `json:"optionsCount"`
	MaxOperand      int `json:"maxOperand,omitempty"`
}

// Game describes one activity in the suite
type Game struct {
	Type          GameType
	Title         string
	Description   string
	Prompts       []Prompt
	Levels        map[Difficulty]Level
	FeedbackDelay time.Duration
}

// Level returns the settings for a difficulty
func (g *Game) Level(d Difficulty) (Level, error) {
	lvl, ok := g.Levels[d]
	if !ok {
		return Level{}, fmt.Errorf("%s has no %q difficulty", g.Type, d)
	}
	return lvl, nil
}

// Pool returns the prompts active at a difficulty: the first PoolSize
// catalog entries, or nil for synthesized games.
func (g *Game) Pool(d Difficulty) []Prompt {
	lvl, ok := g.Levels[d]
	if !ok || len(g.Prompts) == 0 {
		return nil
	}
	n := lvl.PoolSize
	if n <= 0 || n > len(g.Prompts) {
		n = len(g.Prompts)
	}
	return g.Prompts[:n]
}

// Synthesized reports whether prompts are generated rather than drawn from a catalog
func (g *Game) Synthesized() bool {
	return len(g.Prompts) == 0
}

var games = []*Game{
	{
		Type:          ColorShape,
		Title:         "Shape Recognition",
		Description:   "Learn to recognize shapes and find them in everyday objects.",
		Prompts:       shapes,
		FeedbackDelay: 3 * time.Second,
		Levels: map[Difficulty]Level{
			Easy:   {TargetQuestions: 5, PoolSize: 4, OptionsCount: 2},
			Medium: {TargetQuestions: 8, PoolSize: 6, OptionsCount: 3},
			Hard:   {TargetQuestions: 10, PoolSize: 8, OptionsCount: 4},
		},
	},
	{
		Type:          Objects,
		Title:         "Object Identification",
		Description:   "Decide whether everyday objects are safe or harmful.",
		Prompts:       objects,
		FeedbackDelay: 3 * time.Second,
		Levels: map[Difficulty]Level{
			Easy:   {TargetQuestions: 5, PoolSize: 6, OptionsCount: 2},
			Medium: {TargetQuestions: 8, PoolSize: 9, OptionsCount: 2},
			Hard:   {TargetQuestions: 10, PoolSize: 12, OptionsCount: 2},
		},
	},
	{
		Type:          Speech,
		Title:         "Speech Therapy",
		Description:   "Practice everyday gestures and what they mean.",
		Prompts:       gestures,
		FeedbackDelay: 3 * time.Second,
		Levels: map[Difficulty]Level{
			Easy:   {TargetQuestions: 5, PoolSize: 3, OptionsCount: 2},
			Medium: {TargetQuestions: 8, PoolSize: 4, OptionsCount: 3},
			Hard:   {TargetQuestions: 10, PoolSize: 5, OptionsCount: 4},
		},
	},
	{
		Type:          Math,
		Title:         "Math World",
		Description:   "Solve addition and subtraction problems against the clock.",
		FeedbackDelay: 1 * time.Second,
		Levels: map[Difficulty]Level{
			Easy:   {TargetQuestions: 5, OptionsCount: 4, MaxOperand: 5},
			Medium: {TargetQuestions: 10, OptionsCount: 4, MaxOperand: 10},
			Hard:   {TargetQuestions: 15, OptionsCount: 4, MaxOperand: 20},
		},
	},
}

// Lookup returns the game registered under t
func Lookup(t GameType) (*Game, error) {
	for _, g := range games {
		if g.Type == t {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGame, t)
}

// All returns every game in display order
func All() []*Game {
	out := make([]*Game, len(games))
	copy(out, games)
	return out
}

// FindPrompt looks up a catalog prompt by ID across all games
func FindPrompt(id string) (Prompt, bool) {
	for _, g := range games {
		for _, p := range g.Prompts {
			if p.ID == id {
				return p, true
			}
		}
	}
	return Prompt{}, false
}

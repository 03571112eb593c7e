package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"

	"mindbridge/internal/catalog"
)

// Deck selects or synthesizes prompts for one game at one difficulty and
// builds the option sets shown in the answer buttons. A deck is not safe
// for concurrent use; the owning session serializes access.
type Deck interface {
	// First returns the prompt a fresh session starts with.
	First(mode Mode) catalog.Prompt
	// Next returns the prompt that follows current.
	Next(current catalog.Prompt, mode Mode) catalog.Prompt
	// Options returns the shuffled answer choices for p.
	Options(p catalog.Prompt) []string
}

// NewDeck builds the deck for g at difficulty d
func NewDeck(g *catalog.Game, d catalog.Difficulty, rng *rand.Rand) (Deck, error) {
	lvl, err := g.Level(d)
	if err != nil {
		return nil, err
	}
	if lvl.OptionsCount < 1 {
		return nil, fmt.Errorf("%s/%s: options count must be positive", g.Type, d)
	}
	if g.Synthesized() {
		if lvl.MaxOperand < 1 {
			return nil, fmt.Errorf("%s/%s: max operand must be positive", g.Type, d)
		}
		return &arithmeticDeck{max: lvl.MaxOperand, optionsCount: lvl.OptionsCount, rng: rng}, nil
	}
	return newCatalogDeck(g.Pool(d), lvl.OptionsCount, rng)
}

type catalogDeck struct {
	pool         []catalog.Prompt
	labels       []string
	optionsCount int
	rng          *rand.Rand
}

func newCatalogDeck(pool []catalog.Prompt, optionsCount int, rng *rand.Rand) (*catalogDeck, error) {
	if len(pool) == 0 {
		return nil, errors.New("empty prompt pool")
	}
	seen := make(map[string]bool)
	var labels []string
	for _, p := range pool {
		if !seen[p.Answer] {
			seen[p.Answer] = true
			labels = append(labels, p.Answer)
		}
	}
	if len(labels) < optionsCount {
		return nil, fmt.Errorf("pool has %d distinct answers, need %d", len(labels), optionsCount)
	}
	return &catalogDeck{pool: pool, labels: labels, optionsCount: optionsCount, rng: rng}, nil
}

func (d *catalogDeck) First(mode Mode) catalog.Prompt {
	if mode == Quiz {
		return d.pool[d.rng.IntN(len(d.pool))]
	}
	return d.pool[0]
}

// Next cycles through the pool in practice mode and picks uniformly at
// random, excluding the current prompt, in quiz mode.
func (d *catalogDeck) Next(current catalog.Prompt, mode Mode) catalog.Prompt {
	idx := d.indexOf(current)
	if mode == Practice {
		return d.pool[(idx+1)%len(d.pool)]
	}
	if len(d.pool) == 1 {
		return d.pool[0]
	}
	if idx < 0 {
		return d.pool[d.rng.IntN(len(d.pool))]
	}
	n := d.rng.IntN(len(d.pool) - 1)
	if n >= idx {
		n++
	}
	return d.pool[n]
}

func (d *catalogDeck) Options(p catalog.Prompt) []string {
	distractors := make([]string, 0, len(d.labels)-1)
	for _, l := range d.labels {
		if l != p.Answer {
			distractors = append(distractors, l)
		}
	}
	d.rng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})

	opts := make([]string, 0, d.optionsCount)
	opts = append(opts, p.Answer)
	opts = append(opts, distractors[:d.optionsCount-1]...)
	d.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

func (d *catalogDeck) indexOf(p catalog.Prompt) int {
	for i, q := range d.pool {
		if q.ID == p.ID {
			return i
		}
	}
	return -1
}

// Arithmetic operations
const (
	OpAdd      = "add"
	OpSubtract = "subtract"
)

// maxDistractorOffset bounds how far a wrong answer strays from the right one
const maxDistractorOffset = 3

type arithmeticDeck struct {
	max          int
	optionsCount int
	rng          *rand.Rand
}

func (d *arithmeticDeck) First(Mode) catalog.Prompt {
	return d.question()
}

// Next synthesizes a fresh question in both modes; there is no catalog to
// cycle. The previous question is never repeated back to back.
func (d *arithmeticDeck) Next(current catalog.Prompt, _ Mode) catalog.Prompt {
	q := d.question()
	for q.ID == current.ID {
		q = d.question()
	}
	return q
}

func (d *arithmeticDeck) question() catalog.Prompt {
	a := d.rng.IntN(d.max) + 1
	var b, answer int
	op, sym := OpAdd, "+"
	if d.rng.IntN(2) == 0 {
		b = d.rng.IntN(d.max) + 1
		answer = a + b
	} else {
		op, sym = OpSubtract, "-"
		b = d.rng.IntN(a) + 1
		answer = a - b
	}
	name := fmt.Sprintf("%d %s %d", a, sym, b)
	return catalog.Prompt{
		ID:       name,
		Name:     name,
		Category: op,
		Answer:   strconv.Itoa(answer),
	}
}

// Options returns the answer plus distinct positive distractors within
// maxDistractorOffset of it. Every answer leaves at least three such
// candidates, so sets of up to four options are always satisfiable.
func (d *arithmeticDeck) Options(p catalog.Prompt) []string {
	answer, err := strconv.Atoi(p.Answer)
	if err != nil {
		return []string{p.Answer}
	}

	var candidates []int
	for off := 1; off <= maxDistractorOffset; off++ {
		if v := answer - off; v > 0 {
			candidates = append(candidates, v)
		}
		candidates = append(candidates, answer+off)
	}
	d.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	n := d.optionsCount - 1
	if n > len(candidates) {
		n = len(candidates)
	}
	opts := make([]string, 0, n+1)
	opts = append(opts, p.Answer)
	for _, c := range candidates[:n] {
		opts = append(opts, strconv.Itoa(c))
	}
	d.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

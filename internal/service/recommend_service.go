package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"mindbridge/internal/catalog"
	"mindbridge/internal/models"
)

// ErrInvalidFeatures is returned for NaN or infinite feature values
var ErrInvalidFeatures = errors.New("features must be finite numbers")

// HistoryWindow is how many recent results feed a recommendation
const HistoryWindow = 5

// movingAvgWindow is how many of those results are averaged
const movingAvgWindow = 3

// Features is the learner state the difficulty policy scores
type Features struct {
	ModuleScore     float64 `json:"module_score"`
	ImprovementRate float64 `json:"improvement_rate"`
	MovingAvg       float64 `json:"moving_avg"`
}

func (f Features) vector() [3]float64 {
	return [3]float64{f.ModuleScore, f.ImprovementRate, f.MovingAvg}
}

// Recommendation is the policy's choice and the scores behind it
type Recommendation struct {
	Difficulty catalog.Difficulty `json:"recommended_difficulty"`
	QValues    []float64          `json:"q_values"`
	Features   Features           `json:"features"`
	Samples    int                `json:"samples"`
}

// Policy is a dueling linear Q-function over Features. The value stream
// is shared; each difficulty has its own advantage stream, and the mean
// advantage is subtracted so Q = V + (A - mean(A)).
type Policy struct {
	Value         [3]float64
	ValueBias     float64
	Advantage     [3][3]float64
	AdvantageBias [3]float64
}

// DefaultPolicy favors easy for low or falling scores and hard once the
// learner scores consistently well.
var DefaultPolicy = Policy{
	Value:     [3]float64{0.5, 0.5, 0.5},
	ValueBias: 0,
	Advantage: [3][3]float64{
		{-2.0, -1.0, -1.5},
		{0.5, 0.2, 0.5},
		{2.0, 1.0, 1.5},
	},
	AdvantageBias: [3]float64{1.0, 0.2, -1.6},
}

// QValues scores each difficulty, in catalog.Difficulties order
func (p Policy) QValues(f Features) []float64 {
	x := f.vector()

	value := p.ValueBias
	for i, w := range p.Value {
		value += w * x[i]
	}

	var adv [3]float64
	mean := 0.0
	for a := range adv {
		adv[a] = p.AdvantageBias[a]
		for i, w := range p.Advantage[a] {
			adv[a] += w * x[i]
		}
		mean += adv[a]
	}
	mean /= float64(len(adv))

	q := make([]float64, len(adv))
	for a := range adv {
		q[a] = value + adv[a] - mean
	}
	return q
}

// Recommend picks the difficulty with the highest Q-value; ties go to the
// easier difficulty.
func (p Policy) Recommend(f Features) Recommendation {
	q := p.QValues(f)
	best := 0
	for a := 1; a < len(q); a++ {
		if q[a] > q[best] {
			best = a
		}
	}
	return Recommendation{Difficulty: catalog.Difficulties[best], QValues: q, Features: f}
}

// resultLister is the read side of the result store
type resultLister interface {
	ListResults(ctx context.Context, email, game string, limit int) ([]models.ResultRecord, error)
}

// RecommendService suggests the next difficulty for a participant
type RecommendService struct {
	results resultLister
	policy  Policy
}

// NewRecommendService creates a recommendation service using DefaultPolicy
func NewRecommendService(results resultLister) *RecommendService {
	return &RecommendService{results: results, policy: DefaultPolicy}
}

// NextLevel scores explicit features
func (s *RecommendService) NextLevel(f Features) (Recommendation, error) {
	for _, v := range f.vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Recommendation{}, ErrInvalidFeatures
		}
	}
	return s.policy.Recommend(f), nil
}

// ForParticipant derives features from the participant's recent results
// for a game and scores them.
func (s *RecommendService) ForParticipant(ctx context.Context, email string, gameType catalog.GameType) (Recommendation, error) {
	g, err := catalog.Lookup(gameType)
	if err != nil {
		return Recommendation{}, err
	}

	history, err := s.results.ListResults(ctx, email, g.Title, HistoryWindow)
	if err != nil {
		return Recommendation{}, fmt.Errorf("failed to load history: %w", err)
	}

	f, n := FeaturesFromHistory(g, history)
	rec := s.policy.Recommend(f)
	rec.Samples = n
	return rec, nil
}

// FeaturesFromHistory computes features from results ordered newest
// first. Scores are normalized to the fraction of the quiz answered
// correctly; results at an unknown difficulty are skipped.
func FeaturesFromHistory(g *catalog.Game, results []models.ResultRecord) (Features, int) {
	var fractions []float64
	for _, r := range results {
		d, err := catalog.ParseDifficulty(r.Difficulty)
		if err != nil {
			continue
		}
		lvl, err := g.Level(d)
		if err != nil || lvl.TargetQuestions == 0 {
			continue
		}
		fractions = append(fractions, float64(r.Score)/float64(lvl.TargetQuestions))
	}
	if len(fractions) == 0 {
		return Features{}, 0
	}

	f := Features{ModuleScore: fractions[0]}
	if len(fractions) > 1 {
		f.ImprovementRate = fractions[0] - fractions[1]
	}

	n := min(len(fractions), movingAvgWindow)
	sum := 0.0
	for _, v := range fractions[:n] {
		sum += v
	}
	f.MovingAvg = sum / float64(n)
	return f, len(fractions)
}

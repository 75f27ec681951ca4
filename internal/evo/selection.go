package evo

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// SelectionAlgorithm reads one scored population and fills the builder of
// the next one. It never mutates the source population.
type SelectionAlgorithm interface {
	Name() string
	CreateNextGeneration(rng *rand.Rand, population *Population, next *GenerationFactory) error
}

// ParentSelector picks a parent position from a ranked population (best first).
// Selectors work on rank only, so they are insensitive to fitness scale.
type ParentSelector interface {
	Name() string
	PickParent(rng *rand.Rand, ranked []ScoredGenotype) (int, error)
}

// RankSelector picks rank r of n with probability proportional to n - r.
type RankSelector struct{}

func (RankSelector) Name() string {
	return "rank"
}

func (RankSelector) PickParent(rng *rand.Rand, ranked []ScoredGenotype) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	n := int64(len(ranked))
	if n == 0 {
		return 0, fmt.Errorf("ranked population is empty")
	}
	total := n * (n + 1) / 2
	target := rng.Int63n(total)
	// cumulative weight of ranks [0, r] is (r+1)*n - r*(r+1)/2
	pick := sort.Search(int(n), func(r int) bool {
		rr := int64(r)
		return (rr+1)*n-rr*(rr+1)/2 > target
	})
	return pick, nil
}

// TournamentSelector samples TournamentSize ranks uniformly and keeps the best.
type TournamentSelector struct {
	TournamentSize int
}

func (TournamentSelector) Name() string {
	return "tournament"
}

func (s TournamentSelector) PickParent(rng *rand.Rand, ranked []ScoredGenotype) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return 0, fmt.Errorf("ranked population is empty")
	}
	size := s.TournamentSize
	if size <= 0 {
		size = 3
	}
	best := rng.Intn(len(ranked))
	for i := 1; i < size; i++ {
		if candidate := rng.Intn(len(ranked)); candidate < best {
			best = candidate
		}
	}
	return best, nil
}

// TruncatedUniformSelector picks uniformly among the top PoolFraction of the ranking.
type TruncatedUniformSelector struct {
	PoolFraction float64
}

func (TruncatedUniformSelector) Name() string {
	return "truncated_uniform"
}

func (s TruncatedUniformSelector) PickParent(rng *rand.Rand, ranked []ScoredGenotype) (int, error) {
	if rng == nil {
		return 0, fmt.Errorf("random source is required")
	}
	if len(ranked) == 0 {
		return 0, fmt.Errorf("ranked population is empty")
	}
	fraction := s.PoolFraction
	if fraction <= 0 || fraction > 1 {
		fraction = 0.5
	}
	pool := int(math.Ceil(fraction * float64(len(ranked))))
	if pool < 1 {
		pool = 1
	}
	return rng.Intn(pool), nil
}

// ParentSelectorByName resolves a selector from its configuration name.
func ParentSelectorByName(name string, tournamentSize int) (ParentSelector, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "rank":
		return RankSelector{}, nil
	case "tournament":
		return TournamentSelector{TournamentSize: tournamentSize}, nil
	case "truncated_uniform":
		return TruncatedUniformSelector{}, nil
	default:
		return nil, fmt.Errorf("unsupported parent selector: %s", name)
	}
}

// TruncationConfig parameterizes truncation selection with elitism.
type TruncationConfig struct {
	ElitePercentage     float64 `json:"elite_percentage"`
	EliteMinFitness     float64 `json:"elite_min_fitness"`
	EliteMutationChance float64 `json:"elite_mutation_chance"`
}

func DefaultTruncationConfig() TruncationConfig {
	return TruncationConfig{
		ElitePercentage:     0.1,
		EliteMinFitness:     0,
		EliteMutationChance: 0,
	}
}

func (c TruncationConfig) Validate() error {
	if math.IsNaN(c.ElitePercentage) || c.ElitePercentage < 0 || c.ElitePercentage > 1 {
		return fmt.Errorf("elite percentage must be in [0, 1]: %v", c.ElitePercentage)
	}
	if math.IsNaN(c.EliteMinFitness) {
		return fmt.Errorf("elite min fitness must be a number")
	}
	if math.IsNaN(c.EliteMutationChance) || c.EliteMutationChance < 0 || c.EliteMutationChance > 1 {
		return fmt.Errorf("elite mutation chance must be in [0, 1]: %v", c.EliteMutationChance)
	}
	return nil
}

// TruncationSelection ranks the population, carries the qualifying elites
// forward and fills the remaining slots with offspring of rank-selected parents.
type TruncationSelection struct {
	cfg     TruncationConfig
	parents ParentSelector
	logger  *slog.Logger
}

// NewTruncationSelection validates cfg. A nil parents selector defaults to RankSelector.
func NewTruncationSelection(cfg TruncationConfig, parents ParentSelector, logger *slog.Logger) (*TruncationSelection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if parents == nil {
		parents = RankSelector{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TruncationSelection{cfg: cfg, parents: parents, logger: logger}, nil
}

func (s *TruncationSelection) Name() string {
	return "truncation"
}

func (s *TruncationSelection) Config() TruncationConfig {
	return s.cfg
}

// EliteCount returns how many of the ranked individuals qualify as elites.
func (s *TruncationSelection) EliteCount(ranked []ScoredGenotype) int {
	limit := int(math.Floor(s.cfg.ElitePercentage * float64(len(ranked))))
	if limit > len(ranked) {
		limit = len(ranked)
	}
	count := 0
	for count < limit && ranked[count].Fitness >= s.cfg.EliteMinFitness {
		count++
	}
	return count
}

func (s *TruncationSelection) CreateNextGeneration(rng *rand.Rand, population *Population, next *GenerationFactory) error {
	if rng == nil {
		return fmt.Errorf("random source is required")
	}
	ranked, err := population.Ranked()
	if err != nil {
		return err
	}
	if next.Remaining() != len(ranked) {
		return fmt.Errorf("next generation size mismatch: open=%d population=%d", next.Remaining(), len(ranked))
	}

	elites := s.EliteCount(ranked)
	mutatedElites := 0
	for i := 0; i < elites; i++ {
		mutate := rng.Float64() < s.cfg.EliteMutationChance
		if mutate {
			mutatedElites++
		}
		if err := next.AddElite(ranked[i].Genotype, mutate, rng.Int63()); err != nil {
			return err
		}
	}

	n := len(ranked)
	for next.Remaining() > 0 {
		a, err := s.parents.PickParent(rng, ranked)
		if err != nil {
			return err
		}
		b, err := s.parents.PickParent(rng, ranked)
		if err != nil {
			return err
		}
		if b < a {
			a, b = b, a
		}
		if err := next.AddOffspring(ranked[a].Genotype, ranked[b].Genotype, rankPreference(a, b, n), rng.Int63()); err != nil {
			return err
		}
	}

	s.logger.Debug("next generation planned",
		"generation", next.Generation(),
		"elites", elites,
		"mutated_elites", mutatedElites,
		"offspring", n-elites,
		"parent_selector", s.parents.Name(),
	)
	return nil
}

// rankPreference weighs parent A (rank a) against parent B (rank b) by their
// linear rank weights n-a and n-b.
func rankPreference(a, b, n int) float64 {
	wa := float64(n - a)
	wb := float64(n - b)
	return wa / (wa + wb)
}

package synthetic

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"codestats-proxy/internal/domain"
)

// Generator produces placeholder records shaped like live ones when every
// acquisition path has failed. Only the source tag tells them apart.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New returns a generator over src, or over a time-seeded source when src is nil.
func New(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1)
	}
	return &Generator{rng: rand.New(src)}
}

// NewDefault is the constructor used for dependency injection.
func NewDefault() *Generator {
	return New(nil)
}

func (g *Generator) Generate(platform domain.Platform, username string) *domain.StatsRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	record := &domain.StatsRecord{
		Platform:  platform,
		Username:  username,
		Source:    domain.SourceSynthetic,
		FetchedAt: time.Now().UTC(),
	}

	switch platform {
	case domain.PlatformLeetCode:
		total := g.between(10, 500)
		easy := max(0, int(float64(total)*(0.5+g.rng.Float64()*0.2)))
		medium := max(0, int(float64(total)*(0.35+g.rng.Float64()*0.15)))
		record.LeetCode = &domain.LeetCodeStats{
			ProblemsSolved: total,
			Easy:           easy,
			Medium:         medium,
			Hard:           max(0, total-easy-medium),
		}
	case domain.PlatformCodeChef:
		record.CodeChef = &domain.CodeChefStats{
			ProblemsSolved:       g.between(5, 400),
			ContestRating:        g.between(800, 2200),
			ContestsParticipated: g.between(1, 50),
			Stars:                fmt.Sprintf("%d ★", g.between(0, 5)),
		}
	case domain.PlatformHackerRank:
		record.HackerRank = &domain.HackerRankStats{
			Badges:         g.between(0, 120),
			ProblemsSolved: g.between(10, 300),
		}
	case domain.PlatformGFG:
		total := g.between(0, 300)
		easy, medium, hard := domain.SplitByRatio(total)
		record.GFG = &domain.GFGStats{
			Username:            username,
			TotalProblemsSolved: total,
			EasyProblems:        easy,
			MediumProblems:      medium,
			HardProblems:        hard,
		}
	}

	return record
}

// between returns a uniform int in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

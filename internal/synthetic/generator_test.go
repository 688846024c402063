package synthetic

import (
	"math/rand/v2"
	"regexp"
	"sync"
	"testing"

	"codestats-proxy/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ShapeAndRanges(t *testing.T) {
	g := New(rand.NewPCG(1, 2))
	stars := regexp.MustCompile(`^[0-5] ★$`)

	for i := 0; i < 500; i++ {
		lc := g.Generate(domain.PlatformLeetCode, "alice")
		require.NotNil(t, lc.LeetCode)
		assert.Equal(t, domain.SourceSynthetic, lc.Source)
		assert.InDelta(t, 255, lc.LeetCode.ProblemsSolved, 245)
		assert.GreaterOrEqual(t, lc.LeetCode.Easy, 0)
		assert.GreaterOrEqual(t, lc.LeetCode.Medium, 0)
		assert.GreaterOrEqual(t, lc.LeetCode.Hard, 0)
		assert.Nil(t, lc.CodeChef)

		cc := g.Generate(domain.PlatformCodeChef, "chef")
		require.NotNil(t, cc.CodeChef)
		assert.InDelta(t, 202.5, cc.CodeChef.ProblemsSolved, 197.5)
		assert.InDelta(t, 1500, cc.CodeChef.ContestRating, 700)
		assert.InDelta(t, 25.5, cc.CodeChef.ContestsParticipated, 24.5)
		assert.Regexp(t, stars, cc.CodeChef.Stars)

		hr := g.Generate(domain.PlatformHackerRank, "hacker")
		require.NotNil(t, hr.HackerRank)
		assert.InDelta(t, 60, hr.HackerRank.Badges, 60)
		assert.InDelta(t, 155, hr.HackerRank.ProblemsSolved, 145)

		gfg := g.Generate(domain.PlatformGFG, "geek")
		require.NotNil(t, gfg.GFG)
		assert.Equal(t, "geek", gfg.GFG.Username)
		assert.InDelta(t, 150, gfg.GFG.TotalProblemsSolved, 150)
		easy, medium, hard := domain.SplitByRatio(gfg.GFG.TotalProblemsSolved)
		assert.Equal(t, easy, gfg.GFG.EasyProblems)
		assert.Equal(t, medium, gfg.GFG.MediumProblems)
		assert.Equal(t, hard, gfg.GFG.HardProblems)
	}
}

func TestGenerate_EmbedsRequest(t *testing.T) {
	g := New(rand.NewPCG(3, 4))
	record := g.Generate(domain.PlatformHackerRank, "bob")

	assert.Equal(t, domain.PlatformHackerRank, record.Platform)
	assert.Equal(t, "bob", record.Username)
	assert.False(t, record.FetchedAt.IsZero())
}

func TestGenerate_DeterministicForSeed(t *testing.T) {
	a := New(rand.NewPCG(7, 7)).Generate(domain.PlatformCodeChef, "x")
	b := New(rand.NewPCG(7, 7)).Generate(domain.PlatformCodeChef, "x")
	assert.Equal(t, a.CodeChef, b.CodeChef)
}

func TestGenerate_ConcurrentUse(t *testing.T) {
	g := NewDefault()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range domain.Platforms {
				assert.NotNil(t, g.Generate(p, "user"))
			}
		}()
	}
	wg.Wait()
}

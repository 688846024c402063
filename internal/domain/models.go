package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type Platform string

const (
	PlatformLeetCode   Platform = "leetcode"
	PlatformCodeChef   Platform = "codechef"
	PlatformHackerRank Platform = "hackerrank"
	PlatformGFG        Platform = "gfg"
)

// Platforms lists every supported platform in display order.
var Platforms = []Platform{PlatformLeetCode, PlatformCodeChef, PlatformHackerRank, PlatformGFG}

var platformAliases = map[string]Platform{
	"leetcode":      PlatformLeetCode,
	"codechef":      PlatformCodeChef,
	"hackerrank":    PlatformHackerRank,
	"gfg":           PlatformGFG,
	"geeksforgeeks": PlatformGFG,
}

func ParsePlatform(s string) (Platform, error) {
	if p, ok := platformAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	return "", BadRequest("invalid platform %q, use: leetcode, codechef, hackerrank, gfg", s)
}

type Source string

const (
	SourceOfficialAPI Source = "official-api"
	SourceScrape      Source = "scrape"
	SourceSynthetic   Source = "synthetic"
)

type StatsRequest struct {
	Platform string `validate:"required,platform"`
	Username string `validate:"required,max=100,username"`
}

// StatsRecord carries exactly one platform block.
type StatsRecord struct {
	Platform   Platform         `json:"platform"`
	Username   string           `json:"username"`
	Source     Source           `json:"source"`
	FetchedAt  time.Time        `json:"fetched_at"`
	LeetCode   *LeetCodeStats   `json:"leetcode,omitempty"`
	CodeChef   *CodeChefStats   `json:"codechef,omitempty"`
	HackerRank *HackerRankStats `json:"hackerrank,omitempty"`
	GFG        *GFGStats        `json:"gfg,omitempty"`
}

type LeetCodeStats struct {
	ProblemsSolved int `json:"problems_solved"`
	Easy           int `json:"Easy"`
	Medium         int `json:"Medium"`
	Hard           int `json:"Hard"`
}

type CodeChefStats struct {
	ProblemsSolved       int    `json:"problems_solved"`
	ContestRating        int    `json:"contest_rating"`
	ContestsParticipated int    `json:"contests_participated"`
	Stars                string `json:"stars,omitempty"`
}

type HackerRankStats struct {
	Badges         int `json:"badges"`
	ProblemsSolved int `json:"problems_solved"`
}

type GFGStats struct {
	Username            string `json:"username"`
	TotalProblemsSolved int    `json:"totalProblemsSolved"`
	EasyProblems        int    `json:"easyProblems"`
	MediumProblems      int    `json:"mediumProblems"`
	HardProblems        int    `json:"hardProblems"`
}

// SplitByRatio estimates easy/medium/hard counts from a total at fixed
// 50%/35%/remainder ratios. The results are estimates, not measured values,
// and hard is total minus floor(85% of total) rather than total-easy-medium.
func SplitByRatio(total int) (easy, medium, hard int) {
	easy = total * 50 / 100
	medium = total * 35 / 100
	hard = max(0, total-total*85/100)
	return easy, medium, hard
}

// Acquisition is one history row: the record served on a cache miss and how
// long it took to obtain.
type Acquisition struct {
	ID         string          `json:"id"`
	Platform   Platform        `json:"platform"`
	Username   string          `json:"username"`
	Source     Source          `json:"source"`
	DurationMs int64           `json:"duration_ms"`
	Payload    json.RawMessage `json:"record"`
	CreatedAt  time.Time       `json:"created_at"`
}

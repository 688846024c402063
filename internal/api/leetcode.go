package api

import (
	"context"
	"fmt"
	"time"

	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

const leetCodeProfileQuery = `
query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    profile {
      userAvatar
    }
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

type LeetCodeFetcher struct {
	client   *Client
	endpoint string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewLeetCodeFetcher(client *Client, endpoint string, timeout time.Duration, logger zerolog.Logger) *LeetCodeFetcher {
	return &LeetCodeFetcher{client: client, endpoint: endpoint, timeout: timeout, logger: logger}
}

func (f *LeetCodeFetcher) Platform() domain.Platform { return domain.PlatformLeetCode }

// Fetch failures are escalated to warn since this is the one official API.
func (f *LeetCodeFetcher) Fetch(ctx context.Context, username string) *domain.StatsRecord {
	return guarded(ctx, f.Platform(), username, f.timeout, zerolog.WarnLevel, f.logger,
		func(ctx context.Context) (*domain.StatsRecord, error) {
			return f.fetch(ctx, username)
		})
}

func (f *LeetCodeFetcher) fetch(ctx context.Context, username string) (*domain.StatsRecord, error) {
	payload := graphQLRequest{
		OperationName: "getUserProfile",
		Query:         leetCodeProfileQuery,
		Variables:     map[string]string{"username": username},
	}
	headers := map[string]string{
		fasthttp.HeaderReferer:        "https://leetcode.com",
		fasthttp.HeaderAcceptLanguage: "en-US,en;q=0.9",
	}

	resp, err := postJSON[leetCodeResponse](ctx, f.client, f.endpoint, payload, headers)
	if err != nil {
		return nil, err
	}

	if len(resp.Errors) > 0 {
		msg := resp.Errors[0].Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("%w: graphql: %s", domain.ErrUpstreamProtocol, msg)
	}
	if resp.Data.MatchedUser == nil || resp.Data.MatchedUser.SubmitStats == nil {
		return nil, fmt.Errorf("%w: user not found or no stats", domain.ErrUpstreamProtocol)
	}

	stats := &domain.LeetCodeStats{}
	for _, s := range resp.Data.MatchedUser.SubmitStats.AcSubmissionNum {
		switch s.Difficulty {
		case "Easy":
			stats.Easy = s.Count
		case "Medium":
			stats.Medium = s.Count
		case "Hard":
			stats.Hard = s.Count
		}
	}
	stats.ProblemsSolved = stats.Easy + stats.Medium + stats.Hard

	return &domain.StatsRecord{
		Platform:  domain.PlatformLeetCode,
		Username:  username,
		Source:    domain.SourceOfficialAPI,
		FetchedAt: time.Now().UTC(),
		LeetCode:  stats,
	}, nil
}

type graphQLRequest struct {
	OperationName string            `json:"operationName"`
	Query         string            `json:"query"`
	Variables     map[string]string `json:"variables"`
}

type leetCodeResponse struct {
	Data struct {
		MatchedUser *struct {
			SubmitStats *struct {
				AcSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStats"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

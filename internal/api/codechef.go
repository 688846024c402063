package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"codestats-proxy/internal/domain"
	"codestats-proxy/internal/timeout"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

// CodeChefFetcher walks an ordered list of candidate endpoints because the
// upstream API is unofficial and its versions come and go.
type CodeChefFetcher struct {
	client    *Client
	endpoints []string
	timeout   time.Duration
	logger    zerolog.Logger
}

func NewCodeChefFetcher(client *Client, endpoints []string, timeout time.Duration, logger zerolog.Logger) *CodeChefFetcher {
	return &CodeChefFetcher{client: client, endpoints: endpoints, timeout: timeout, logger: logger}
}

func (f *CodeChefFetcher) Platform() domain.Platform { return domain.PlatformCodeChef }

func (f *CodeChefFetcher) Fetch(ctx context.Context, username string) *domain.StatsRecord {
	// each candidate carries its own bound, so the outer guard covers all of them
	bound := f.timeout * time.Duration(max(1, len(f.endpoints)))
	return guarded(ctx, f.Platform(), username, bound, zerolog.DebugLevel, f.logger,
		func(ctx context.Context) (*domain.StatsRecord, error) {
			return f.fetch(ctx, username)
		})
}

func (f *CodeChefFetcher) fetch(ctx context.Context, username string) (*domain.StatsRecord, error) {
	var errs []error
	for _, endpoint := range f.endpoints {
		url := profileURL(endpoint, username)

		stats, err := timeout.Run(ctx, f.timeout, func(ctx context.Context) (*domain.CodeChefStats, error) {
			return f.fetchEndpoint(ctx, url)
		})
		if err != nil {
			f.logger.Debug().Err(err).Str("endpoint", url).Msg("codechef candidate failed")
			errs = append(errs, err)
			continue
		}

		return &domain.StatsRecord{
			Platform:  domain.PlatformCodeChef,
			Username:  username,
			Source:    domain.SourceScrape,
			FetchedAt: time.Now().UTC(),
			CodeChef:  stats,
		}, nil
	}

	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no codechef endpoints configured", domain.ErrUpstreamProtocol)
	}
	return nil, errors.Join(errs...)
}

func (f *CodeChefFetcher) fetchEndpoint(ctx context.Context, url string) (*domain.CodeChefStats, error) {
	body, err := f.client.do(ctx, request{
		method:  fasthttp.MethodGet,
		url:     url,
		headers: map[string]string{fasthttp.HeaderAccept: "application/json"},
	})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		UserDetails   json.RawMessage `json:"user_details"`
		ContestRating json.RawMessage `json:"contest_rating"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed body: %v", domain.ErrUpstreamProtocol, err)
	}

	var detailsRaw []byte
	switch {
	case present(envelope.UserDetails):
		detailsRaw = envelope.UserDetails
	case present(envelope.ContestRating):
		detailsRaw = body
	default:
		return nil, fmt.Errorf("%w: unrecognized codechef response shape", domain.ErrUpstreamProtocol)
	}

	var d codeChefDetails
	if err := json.Unmarshal(detailsRaw, &d); err != nil {
		return nil, fmt.Errorf("%w: malformed user details: %v", domain.ErrUpstreamProtocol, err)
	}

	solved := int(d.FullySolved)
	if solved == 0 && d.Submit != nil {
		solved = int(d.Submit.Accepted)
	}
	rating := int(d.Rating)
	if rating == 0 {
		rating = int(d.ContestRating)
	}

	return &domain.CodeChefStats{
		ProblemsSolved:       solved,
		ContestRating:        rating,
		ContestsParticipated: int(d.Contests),
		Stars:                string(d.Stars),
	}, nil
}

type codeChefDetails struct {
	FullySolved flexInt `json:"fully_solved"`
	Submit      *struct {
		Accepted flexInt `json:"accepted"`
	} `json:"submit"`
	Rating        flexInt    `json:"rating"`
	ContestRating flexInt    `json:"contest_rating"`
	Contests      flexInt    `json:"contests"`
	Stars         flexString `json:"stars"`
}

// present reports whether a raw field was sent with a non-null value.
func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// flexInt accepts a JSON number or a numeric string; anything else decodes to 0.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		*n = flexInt(v)
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*n = flexInt(int(v))
		return nil
	}
	*n = 0
	return nil
}

// flexString accepts a JSON string or a bare scalar such as a number.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	if raw := strings.TrimSpace(string(b)); raw != "null" {
		*s = flexString(raw)
	}
	return nil
}

package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"codestats-proxy/internal/constants"
	"codestats-proxy/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGFGFetcher_ScrapesTotalAndEstimatesSplit(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/geek/", r.URL.Path)
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><div class="score">42 Problems Solved</div></body></html>`))
	})

	f := NewGFGFetcher(NewClient(), srv.URL+"/user/%s/", time.Second, zerolog.Nop())
	record := f.Fetch(context.Background(), "geek")

	require.NotNil(t, record)
	assert.Equal(t, domain.PlatformGFG, record.Platform)
	assert.Equal(t, domain.SourceScrape, record.Source)
	require.NotNil(t, record.GFG)
	assert.Equal(t, "geek", record.GFG.Username)
	assert.Equal(t, 42, record.GFG.TotalProblemsSolved)
	assert.Equal(t, 21, record.GFG.EasyProblems)
	assert.Equal(t, 14, record.GFG.MediumProblems)
	assert.GreaterOrEqual(t, record.GFG.HardProblems, 0)
}

func TestGFGFetcher_NoMatchIsAbsent(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Profile is private</body></html>`))
	})

	f := NewGFGFetcher(NewClient(), srv.URL+"/%s", time.Second, zerolog.Nop())
	assert.Nil(t, f.Fetch(context.Background(), "geek"))
}

func TestGFGFetcher_FollowsRedirect(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/geek/":
			http.Redirect(w, r, "/profile/geek", http.StatusMovedPermanently)
		case "/profile/geek":
			w.Write([]byte(`<div>42 Problems Solved</div>`))
		default:
			http.NotFound(w, r)
		}
	})

	f := NewGFGFetcher(NewClient(), srv.URL+"/user/%s/", time.Second, zerolog.Nop())
	record := f.Fetch(context.Background(), "geek")

	require.NotNil(t, record)
	assert.Equal(t, domain.SourceScrape, record.Source)
	assert.Equal(t, 42, record.GFG.TotalProblemsSolved)
}

func TestGFGFetcher_RedirectLoopIsAbsent(t *testing.T) {
	var hits atomic.Int32
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	})

	f := NewGFGFetcher(NewClient(), srv.URL+"/user/%s/", time.Second, zerolog.Nop())
	assert.Nil(t, f.Fetch(context.Background(), "geek"))
	assert.Equal(t, int32(constants.UpstreamMaxRedirects+1), hits.Load())
}

func TestGFGFetcher_EscapesUsername(t *testing.T) {
	srv := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/a b/", r.URL.Path)
		w.Write([]byte(`"total_problems": 9`))
	})

	f := NewGFGFetcher(NewClient(), srv.URL+"/user/%s/", time.Second, zerolog.Nop())
	record := f.Fetch(context.Background(), "a b")

	require.NotNil(t, record)
	assert.Equal(t, 9, record.GFG.TotalProblemsSolved)
}

func TestMatchSolved(t *testing.T) {
	tests := []struct {
		name   string
		html   string
		want   int
		wantOK bool
	}{
		{
			name:   "label then number",
			html:   `<span>Problems Solved</span><span>87</span>`,
			want:   87,
			wantOK: true,
		},
		{
			name:   "number then label",
			html:   `<b>42 Problems Solved</b>`,
			want:   42,
			wantOK: true,
		},
		{
			name:   "embedded json",
			html:   `<script>var d = {"total_problems": 311};</script>`,
			want:   311,
			wantOK: true,
		},
		{
			name:   "earlier matcher wins over later ones",
			html:   `Problem Solved: 5 ... "total_problems": 77`,
			want:   5,
			wantOK: true,
		},
		{
			name:   "zero capture falls through to next matcher",
			html:   `Problems Solved: 0 <script>{"total_problems": 13}</script>`,
			want:   13,
			wantOK: true,
		},
		{
			name: "nothing to match",
			html: `<html>coding score 150</html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := matchSolved(tt.html)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "https://x.test/u/alice/", profileURL("https://x.test/u/%s/", "alice"))
	assert.Equal(t, "https://x.test/u/a%20b", profileURL("https://x.test/u/%s", "a b"))
	assert.Equal(t, "https://x.test/static", profileURL("https://x.test/static", "alice"))
}

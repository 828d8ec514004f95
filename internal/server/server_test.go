package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/contentiq/contentiq/models"
	"github.com/contentiq/contentiq/pkg/ai"
	"github.com/contentiq/contentiq/pkg/caching"
	"github.com/contentiq/contentiq/pkg/detector"
	"github.com/contentiq/contentiq/pkg/extractor"
	"github.com/contentiq/contentiq/pkg/fetcher"
	"github.com/contentiq/contentiq/pkg/urlguard"
)

const testPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <title>Server Test Page</title>
  <meta name="description" content="A page served from the test transport.">
  <meta property="article:published_time" content="2024-01-01T00:00:00Z">
</head>
<body>
  <h1>Server Test Page</h1>
  <h2>Details</h2>
  <article>
    <p>The handler pipeline fetches this page through a fake transport and
    extracts the article body. It carries enough words that readability
    scoring and quality scoring both have real inputs to work with, which
    keeps the full analysis endpoint honest in these tests.</p>
    <p>A second paragraph pads the word count a little further so that the
    extraction step always finds a substantial main content area here.</p>
  </article>
  <img src="/pic.png" alt="pic">
</body>
</html>`

type publicResolver struct{}

func (publicResolver) LookupIP(context.Context, string, string) ([]net.IP, error) {
	return []net.IP{net.ParseIP("93.184.216.34")}, nil
}

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func htmlResponse(req *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

type scriptedAI struct {
	reply string
}

func (s scriptedAI) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	reply := s.reply
	if req.ResponseFormat != nil && !strings.HasPrefix(strings.TrimSpace(reply), "{") {
		reply = `{"sentiment": "neutral", "confidence": 0.8, "scores": {}, "key_phrases": []}`
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: reply}},
		},
	}, nil
}

func newTestServer(t *testing.T, transport http.RoundTripper, withAI bool) *Server {
	t.Helper()

	guard, err := urlguard.New(nil)
	if err != nil {
		t.Fatalf("urlguard.New() failed: %v", err)
	}
	guard = guard.WithResolver(publicResolver{})

	f := fetcher.NewFetcher(guard,
		fetcher.WithTimeout(2*time.Second),
		fetcher.WithTransport(transport),
	)

	cfg := models.DefaultConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := extractor.NewExtractor(cfg.MaxContentLength, detector.New())
	cache := caching.New(100, time.Minute, nil, logger)

	var aiSvc *ai.Service
	if withAI {
		aiSvc = ai.NewService(scriptedAI{reply: "A generated summary."}, "")
	}

	return New(cfg, logger, f, e, aiSvc, cache)
}

func servePage(body string) http.RoundTripper {
	return roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return htmlResponse(req, body), nil
	})
}

func postJSON(t *testing.T, srv *Server, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (data map[string]any, cached bool) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Cached  bool            `json:"cached"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("response is not an envelope: %v\n%s", err, rec.Body.String())
	}
	if !env.Success {
		t.Fatalf("success = false: %s", rec.Body.String())
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("data is not an object: %v", err)
	}
	return data, env.Cached
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (code string) {
	t.Helper()
	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not an error payload: %v\n%s", err, rec.Body.String())
	}
	if resp.Success {
		t.Fatalf("success = true on error response: %s", rec.Body.String())
	}
	return resp.Error.Code
}

func TestHandleExtract(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/extract", `{"url": "https://example.com/article"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, cached := decodeEnvelope(t, rec)
	if cached {
		t.Error("first request reported cached=true")
	}
	if data["title"] != "Server Test Page" {
		t.Errorf("title = %v", data["title"])
	}
	if data["word_count"].(float64) < 40 {
		t.Errorf("word_count = %v", data["word_count"])
	}

	// Second identical request is served from cache.
	rec = postJSON(t, srv, "/api/v1/extract", `{"url": "https://example.com/article"}`)
	if _, cached := decodeEnvelope(t, rec); !cached {
		t.Error("second request not served from cache")
	}
}

func TestHandleExtract_InvalidURL(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/extract", `{"url": "ftp://example.com/file"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_URL" {
		t.Errorf("error code = %q, want INVALID_URL", code)
	}
}

func TestHandleExtract_UpstreamError(t *testing.T) {
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusServiceUnavailable,
			Header:     http.Header{},
			Body:       io.NopCloser(strings.NewReader("")),
			Request:    req,
		}, nil
	})
	srv := newTestServer(t, transport, false)

	rec := postJSON(t, srv, "/api/v1/extract", `{"url": "https://example.com/"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if code := decodeError(t, rec); code != "UPSTREAM_ERROR" {
		t.Errorf("error code = %q, want UPSTREAM_ERROR", code)
	}
}

func TestHandleExtract_MissingURL(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/extract", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if code := decodeError(t, rec); code != "MISSING_INPUT" {
		t.Errorf("error code = %q, want MISSING_INPUT", code)
	}
}

func TestHandleSummarize_RawText(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), true)

	rec := postJSON(t, srv, "/api/v1/summarize",
		`{"text": "A long enough piece of text to summarize.", "format": "bullets"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	if data["summary"] != "A generated summary." {
		t.Errorf("summary = %v", data["summary"])
	}
	if data["format"] != "bullets" {
		t.Errorf("format = %v", data["format"])
	}
}

func TestHandleSummarize_MissingInput(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), true)

	rec := postJSON(t, srv, "/api/v1/summarize", `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if code := decodeError(t, rec); code != "MISSING_INPUT" {
		t.Errorf("error code = %q, want MISSING_INPUT", code)
	}
}

func TestHandleSummarize_InvalidFormat(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), true)

	rec := postJSON(t, srv, "/api/v1/summarize", `{"text": "abc", "format": "haiku"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if code := decodeError(t, rec); code != "INVALID_FORMAT" {
		t.Errorf("error code = %q, want INVALID_FORMAT", code)
	}
}

func TestHandleSummarize_WithoutAI(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/summarize", `{"text": "some text"}`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if code := decodeError(t, rec); code != "AI_UNAVAILABLE" {
		t.Errorf("error code = %q, want AI_UNAVAILABLE", code)
	}
}

func TestHandleSentiment_RawText(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), true)

	rec := postJSON(t, srv, "/api/v1/sentiment", `{"text": "This is wonderful."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	if data["sentiment"] != "neutral" {
		t.Errorf("sentiment = %v", data["sentiment"])
	}
}

func TestHandleSEO(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/seo", `{"url": "https://example.com/article"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	h1s := data["h1_tags"].([]any)
	if len(h1s) != 1 || h1s[0] != "Server Test Page" {
		t.Errorf("h1_tags = %v", h1s)
	}
	if data["total_images"].(float64) != 1 {
		t.Errorf("total_images = %v", data["total_images"])
	}
}

func TestHandleAnalyze_WithAI(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), true)

	rec := postJSON(t, srv, "/api/v1/analyze", `{"url": "https://example.com/article"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	for _, section := range []string{"content", "summary", "sentiment", "seo", "keywords", "quality"} {
		if _, ok := data[section]; !ok {
			t.Errorf("analyze payload missing %q section", section)
		}
	}
	quality := data["quality"].(map[string]any)
	total := quality["total_score"].(float64)
	if total < 0 || total > 100 {
		t.Errorf("total_score = %v, want within [0,100]", total)
	}
}

func TestHandleAnalyze_WithoutAI(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/analyze", `{"url": "https://example.com/article"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	if _, ok := data["summary"]; ok {
		t.Error("analyze payload has AI summary without an AI service")
	}
	if _, ok := data["quality"]; !ok {
		t.Error("analyze payload missing quality section")
	}
}

func TestHandleCompare(t *testing.T) {
	pageA := strings.Replace(testPage, "fake transport", "первый transport alpha", 1)
	transport := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "first") {
			return htmlResponse(req, pageA), nil
		}
		return htmlResponse(req, testPage), nil
	})
	srv := newTestServer(t, transport, false)

	rec := postJSON(t, srv, "/api/v1/compare",
		`{"url1": "https://example.com/first", "url2": "https://example.com/second"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	data, _ := decodeEnvelope(t, rec)
	score := data["similarity_score"].(float64)
	if score <= 0 || score > 1 {
		t.Errorf("similarity_score = %v, want within (0,1]", score)
	}
	if data["url1"] == data["url2"] {
		t.Error("compare payload lost the two distinct URLs")
	}
}

func TestHandleCompare_MissingInput(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	rec := postJSON(t, srv, "/api/v1/compare", `{"url1": "https://example.com/a"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if code := decodeError(t, rec); code != "MISSING_INPUT" {
		t.Errorf("error code = %q, want MISSING_INPUT", code)
	}
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var health map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &health); err != nil {
		t.Fatalf("health response not JSON: %v", err)
	}
	if health["status"] != "healthy" {
		t.Errorf("status = %v", health["status"])
	}
	if health["ai_enabled"] != false {
		t.Errorf("ai_enabled = %v", health["ai_enabled"])
	}
}

func TestHandlePricing(t *testing.T) {
	srv := newTestServer(t, servePage(testPage), false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Tiers map[string]PricingTier `json:"tiers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("pricing response not JSON: %v", err)
	}
	for _, tier := range []string{"free", "starter", "pro", "business", "enterprise"} {
		if _, ok := payload.Tiers[tier]; !ok {
			t.Errorf("pricing missing %q tier", tier)
		}
	}
}

func TestTierInfo_UnknownFallsBackToFree(t *testing.T) {
	if got := TierInfo("platinum"); got.Name != "Basic (Free)" {
		t.Errorf("TierInfo(platinum) = %q, want free tier", got.Name)
	}
}

package osuapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"golang.org/x/time/rate"

	"osubot/internal/osu"
	"osubot/internal/services"
)

const (
	defaultBaseURL     = "https://osu.ppy.sh/api"
	defaultWebURL      = "https://osu.ppy.sh"
	defaultHTTPTimeout = 15 * time.Second
	defaultRecentLimit = 50
	defaultEventDays   = 31
	errorBodyLimit     = 4096
	chartSizeLimit     = 8 << 20
)

// User lookup types accepted by the v1 API.
const (
	IDTypeName = "string"
	IDTypeID   = "id"
)

// Config describes the client configuration.
type Config struct {
	APIKey            string
	BaseURL           string
	WebURL            string
	RequestsPerSecond float64
	Timeout           time.Duration
	RecentLimit       int
	EventDays         int
	HTTPClient        *http.Client
}

// Client wraps the osu! v1 API.
type Client struct {
	apiKey      string
	baseURL     *url.URL
	webURL      *url.URL
	recentLimit int
	eventDays   int
	limiter     *rate.Limiter
	http        *http.Client
}

// New creates a Client from cfg.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "osuapi", "init", "api key is required", nil)
	}
	baseURL, err := parseBase(cfg.BaseURL, defaultBaseURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "osuapi", "init", "parse base url", err)
	}
	webURL, err := parseBase(cfg.WebURL, defaultWebURL)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "osuapi", "init", "parse web url", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	recentLimit := cfg.RecentLimit
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	eventDays := cfg.EventDays
	if eventDays <= 0 {
		eventDays = defaultEventDays
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     baseURL,
		webURL:      webURL,
		recentLimit: recentLimit,
		eventDays:   eventDays,
		limiter:     rate.NewLimiter(limit, 1),
		http:        client,
	}, nil
}

func parseBase(raw, fallback string) (*url.URL, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		raw = fallback
	}
	return url.Parse(raw)
}

type userQuery struct {
	Key       string `url:"k"`
	User      string `url:"u"`
	Type      string `url:"type"`
	EventDays int    `url:"event_days,omitempty"`
	Limit     int    `url:"limit,omitempty"`
}

type beatmapQuery struct {
	Key       string `url:"k"`
	BeatmapID int    `url:"b"`
}

type scoresQuery struct {
	Key       string `url:"k"`
	BeatmapID int    `url:"b"`
	User      string `url:"u,omitempty"`
	Type      string `url:"type,omitempty"`
	Limit     int    `url:"limit,omitempty"`
}

// User returns a player profile with recent events. idType is IDTypeName or
// IDTypeID.
func (c *Client) User(ctx context.Context, nameOrID, idType string) (osu.Player, error) {
	if idType == "" {
		idType = IDTypeName
	}
	var payload []userPayload
	q := userQuery{Key: c.apiKey, User: nameOrID, Type: idType, EventDays: c.eventDays}
	if err := c.get(ctx, "get_user", q, &payload); err != nil {
		return osu.Player{}, err
	}
	if len(payload) == 0 {
		return osu.Player{}, emptyResult("get_user", nameOrID)
	}
	return payload[0].player(), nil
}

// UserRecent returns the player's most recent plays, newest first.
func (c *Client) UserRecent(ctx context.Context, userID int) ([]osu.Play, error) {
	var payload []scorePayload
	q := userQuery{Key: c.apiKey, User: strconv.Itoa(userID), Type: IDTypeID, Limit: c.recentLimit}
	if err := c.get(ctx, "get_user_recent", q, &payload); err != nil {
		return nil, err
	}
	plays := make([]osu.Play, 0, len(payload))
	for _, p := range payload {
		plays = append(plays, p.play())
	}
	return plays, nil
}

// UserBest returns the player's top plays.
func (c *Client) UserBest(ctx context.Context, userID int, limit int) ([]osu.Score, error) {
	var payload []scorePayload
	q := userQuery{Key: c.apiKey, User: strconv.Itoa(userID), Type: IDTypeID, Limit: limit}
	if err := c.get(ctx, "get_user_best", q, &payload); err != nil {
		return nil, err
	}
	scores := make([]osu.Score, 0, len(payload))
	for _, p := range payload {
		scores = append(scores, p.score())
	}
	return scores, nil
}

// Beatmap returns a single chart by id.
func (c *Client) Beatmap(ctx context.Context, id int) (osu.Beatmap, error) {
	var payload []beatmapPayload
	if err := c.get(ctx, "get_beatmaps", beatmapQuery{Key: c.apiKey, BeatmapID: id}, &payload); err != nil {
		return osu.Beatmap{}, err
	}
	if len(payload) == 0 {
		return osu.Beatmap{}, emptyResult("get_beatmaps", strconv.Itoa(id))
	}
	return payload[0].beatmap(), nil
}

// UserScore returns the player's best score on a chart.
func (c *Client) UserScore(ctx context.Context, userID, beatmapID int) (osu.Score, error) {
	q := scoresQuery{Key: c.apiKey, BeatmapID: beatmapID, User: strconv.Itoa(userID), Type: IDTypeID, Limit: 1}
	return c.firstScore(ctx, q)
}

// TopScore returns the leaderboard's first place on a chart.
func (c *Client) TopScore(ctx context.Context, beatmapID int) (osu.Score, error) {
	return c.firstScore(ctx, scoresQuery{Key: c.apiKey, BeatmapID: beatmapID, Limit: 1})
}

func (c *Client) firstScore(ctx context.Context, q scoresQuery) (osu.Score, error) {
	var payload []scorePayload
	if err := c.get(ctx, "get_scores", q, &payload); err != nil {
		return osu.Score{}, err
	}
	if len(payload) == 0 {
		return osu.Score{}, emptyResult("get_scores", "beatmap "+strconv.Itoa(q.BeatmapID))
	}
	score := payload[0].score()
	score.BeatmapID = q.BeatmapID
	return score, nil
}

// FetchRawFile downloads the .osu chart file for a beatmap.
func (c *Client) FetchRawFile(ctx context.Context, beatmapID int) ([]byte, error) {
	endpoint := c.webURL.JoinPath("osu", strconv.Itoa(beatmapID))
	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return nil, services.Wrap(services.ErrAPI, "osuapi", "download chart", strconv.Itoa(beatmapID), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, statusError("download chart", resp)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, chartSizeLimit))
	if err != nil {
		return nil, services.Wrap(services.ErrAPI, "osuapi", "download chart", "read body", err)
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, method string, params any, out any) error {
	values, err := query.Values(params)
	if err != nil {
		return services.Wrap(services.ErrAPI, "osuapi", method, "encode query", err)
	}
	endpoint := c.baseURL.JoinPath(method)
	endpoint.RawQuery = values.Encode()

	resp, err := c.do(ctx, endpoint)
	if err != nil {
		return services.Wrap(services.ErrAPI, "osuapi", method, "request failed", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(method, resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrAPI, "osuapi", method, "decode response", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, c.redact(err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.redact(err)
	}
	return resp, nil
}

// redact removes the API key from URLs embedded in transport errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.apiKey), "REDACTED")
		urlErr.URL = strings.ReplaceAll(urlErr.URL, c.apiKey, "REDACTED")
	}
	return err
}

func statusError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	message := fmt.Sprintf("status %s", resp.Status)
	if text := strings.TrimSpace(string(body)); text != "" {
		message += ": " + text
	}
	return services.Wrap(services.ErrAPI, "osuapi", operation, message, nil)
}

func emptyResult(method, subject string) error {
	return services.Wrap(services.ErrAPI, "osuapi", method, "empty result for "+subject, services.ErrNotFound)
}

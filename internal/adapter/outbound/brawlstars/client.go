// Package brawlstars is the HTTP adapter for the public Brawl Stars game-data
// API. It is strictly read-only: the service consults the feed as a
// verification oracle and never writes to it.
package brawlstars

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arqon/playproof/internal/domain/model"
	"github.com/arqon/playproof/internal/port/outbound/gamedata"
)

// battleTimeLayout is the compact ISO-8601 form the feed reports, e.g.
// "20250406T154833.000Z".
const battleTimeLayout = "20060102T150405.000Z"

// modeNames maps the feed's camelCase mode strings to domain event types.
var modeNames = map[string]model.EventType{
	"gemGrab":      model.EventTypeGemGrab,
	"brawlBall":    model.EventTypeBrawlBall,
	"heist":        model.EventTypeHeist,
	"bounty":       model.EventTypeBounty,
	"hotZone":      model.EventTypeHotZone,
	"knockout":     model.EventTypeKnockout,
	"soloShowdown": model.EventTypeSoloShowdown,
	"duoShowdown":  model.EventTypeDuoShowdown,
	"bigGame":      model.EventTypeBigGame,
	"bossFight":    model.EventTypeBossFight,
}

// Config holds connection settings for the game-data API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// client implements gamedata.Client.
type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new game-data feed client.
func NewClient(cfg Config) gamedata.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *client) PlayerExists(ctx context.Context, tag model.PlayerTag) (bool, error) {
	status, body, err := c.get(ctx, "/v1/players/"+url.PathEscape(tag.String()))
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("game data api: player lookup: unexpected status %d: %s", status, body)
	}
}

func (c *client) LastBattle(ctx context.Context, tag model.PlayerTag) (model.Battle, error) {
	status, body, err := c.get(ctx, "/v1/players/"+url.PathEscape(tag.String())+"/battlelog")
	if err != nil {
		return model.Battle{}, err
	}

	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.Battle{}, gamedata.ErrPlayerNotFound
	default:
		return model.Battle{}, fmt.Errorf("game data api: battle log: unexpected status %d: %s", status, body)
	}

	var log battlelogResponse
	if err := json.Unmarshal(body, &log); err != nil {
		return model.Battle{}, fmt.Errorf("game data api: decode battle log: %w", err)
	}
	if len(log.Items) == 0 {
		return model.Battle{}, gamedata.ErrNoBattles
	}

	// The feed lists battles most recent first.
	return log.Items[0].toBattle(tag)
}

func (c *client) get(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("game data api: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("game data api: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, nil, fmt.Errorf("game data api: read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// Wire types

type battlelogResponse struct {
	Items []battleItem `json:"items"`
}

type battleItem struct {
	BattleTime string `json:"battleTime"`
	Event      struct {
		Mode string `json:"mode"`
	} `json:"event"`
	Battle struct {
		Mode    string          `json:"mode"`
		Teams   [][]rosterEntry `json:"teams"`
		Players []rosterEntry   `json:"players"`
	} `json:"battle"`
}

type rosterEntry struct {
	Tag     string `json:"tag"`
	Bot     bool   `json:"bot"`
	Brawler struct {
		ID int64 `json:"id"`
	} `json:"brawler"`
}

// toBattle projects a raw battle log item onto the domain Battle: the mode,
// the brawler the claimed player used, the bot headcount, and when it was
// played.
func (item battleItem) toBattle(tag model.PlayerTag) (model.Battle, error) {
	battleTime, err := time.Parse(battleTimeLayout, item.BattleTime)
	if err != nil {
		return model.Battle{}, fmt.Errorf("game data api: parse battle time %q: %w", item.BattleTime, err)
	}

	mode := item.Battle.Mode
	if mode == "" {
		mode = item.Event.Mode
	}
	eventType, ok := modeNames[mode]
	if !ok {
		return model.Battle{}, fmt.Errorf("game data api: unknown battle mode %q", mode)
	}

	var (
		playerBrawler model.BrawlerID
		playerFound   bool
		bots          int
	)
	for _, entry := range item.roster() {
		if entry.Bot {
			bots++
			continue
		}
		if strings.EqualFold(entry.Tag, tag.String()) {
			brawlerID, err := model.NewBrawlerID(entry.Brawler.ID)
			if err != nil {
				return model.Battle{}, fmt.Errorf("game data api: brawler id %d: %w", entry.Brawler.ID, err)
			}
			playerBrawler = brawlerID
			playerFound = true
		}
	}
	if !playerFound {
		return model.Battle{}, fmt.Errorf("game data api: player %s absent from own battle roster", tag)
	}

	return model.NewBattle(playerBrawler, eventType, bots, battleTime), nil
}

// roster flattens the battle participants; team modes report nested teams,
// showdown modes report a flat player list.
func (item battleItem) roster() []rosterEntry {
	if len(item.Battle.Teams) > 0 {
		var all []rosterEntry
		for _, team := range item.Battle.Teams {
			all = append(all, team...)
		}
		return all
	}
	return item.Battle.Players
}

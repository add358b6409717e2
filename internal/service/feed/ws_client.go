// Package feed provides FeedStream implementations: a WebSocket client for
// the external metrics subsystem and a synthetic generator for development.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"FusionGate/internal/domain/models"
	drepo "FusionGate/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a FeedStream backed by the metrics subsystem WebSocket.
type Client struct {
	token          string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// NewClient creates a new WebSocket FeedStream.
func NewClient(websocketURL, token string, reconnectDelay, pingInterval time.Duration) drepo.FeedStream {
	return &Client{
		token:          token,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := c.websocketURL
	if c.token != "" {
		u = fmt.Sprintf("%s?token=%s", c.websocketURL, c.token)
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("feed: connected")
	return nil
}

// Subscribe requests all three snapshot channels.
func (c *Client) Subscribe(ctx context.Context) error {
	if c.conn == nil || !c.connected {
		return fmt.Errorf("feed not connected")
	}
	for _, ch := range []string{"intel", "tech", "perf"} {
		msg := map[string]string{"type": "subscribe", "channel": ch}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", ch, err)
		}
		log.Printf("feed: subscribed %s", ch)
	}
	return nil
}

type wsFrame struct {
	Type  string          `json:"type"`
	TS    int64           `json:"ts"` // ms
	Intel json.RawMessage `json:"intel,omitempty"`
	Tech  json.RawMessage `json:"tech,omitempty"`
	Perf  json.RawMessage `json:"perf,omitempty"`
	Role  string          `json:"role,omitempty"`
}

type wsIntel struct {
	Score       float64 `json:"score"`
	RiskLevel   float64 `json:"risk_level"`
	CascadeRisk float64 `json:"cascade_risk"`
}

type wsTech struct {
	Momentum      float64 `json:"momentum"`
	TrendStrength float64 `json:"trend_strength"`
	VolumeScore   float64 `json:"volume_score"`
	ATRPercent    float64 `json:"atr_percent"`
}

// Read streams FeedEvents and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.FeedEvent, <-chan error) {
	events := make(chan *models.FeedEvent, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				ev, err := decodeFrame(b)
				if err != nil || ev == nil {
					// ignore non-snapshot frames
					continue
				}
				select {
				case events <- ev:
				default:
					// drop on backpressure
				}
			}
		}
	}()

	return events, errs
}

func decodeFrame(b []byte) (*models.FeedEvent, error) {
	var f wsFrame
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	ts := time.Now()
	if f.TS > 0 {
		ts = time.UnixMilli(f.TS)
	}
	switch f.Type {
	case "intel":
		var m wsIntel
		if err := json.Unmarshal(f.Intel, &m); err != nil {
			return nil, err
		}
		return &models.FeedEvent{Intel: &models.IntelligenceSnapshot{
			IntelligenceScore: m.Score,
			RiskLevel:         m.RiskLevel,
			CascadeRisk:       m.CascadeRisk,
			Timestamp:         ts,
		}}, nil
	case "tech":
		var m wsTech
		if err := json.Unmarshal(f.Tech, &m); err != nil {
			return nil, err
		}
		return &models.FeedEvent{Tech: &models.TechnicalSnapshot{
			Momentum:      m.Momentum,
			TrendStrength: m.TrendStrength,
			VolumeScore:   m.VolumeScore,
			ATRPercent:    m.ATRPercent,
			Timestamp:     ts,
		}}, nil
	case "perf":
		var snap models.PerformanceSnapshot
		if err := json.Unmarshal(f.Perf, &snap); err != nil {
			return nil, err
		}
		if snap.Timestamp.IsZero() {
			snap.Timestamp = ts
		}
		role := f.Role
		if role == "" {
			role = models.PerfRoleLive
		}
		return &models.FeedEvent{Perf: &models.PerformanceSample{Role: role, Snapshot: snap}}, nil
	default:
		return nil, nil
	}
}

// Reconnect closes and reconnects.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	return c.Subscribe(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }

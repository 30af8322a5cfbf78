package wyvern

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Heartbeat interval
	HeartbeatInterval = 30 * time.Second

	// Reconnect settings
	DefaultReconnectInterval    = 5 * time.Second
	DefaultMaxReconnectAttempts = 10
)

// Phoenix channel events
const (
	EventJoin       = "phx_join"
	EventLeave      = "phx_leave"
	EventReply      = "phx_reply"
	EventHeartbeat  = "heartbeat"
	EventItemListed = "item_listed"

	heartbeatTopic = "phoenix"
)

// StreamMessage is a Phoenix channel frame
type StreamMessage struct {
	Topic   string          `json:"topic"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	Ref     *int64          `json:"ref"`
}

// itemListedPayload is the payload of an item_listed frame
type itemListedPayload struct {
	EventType string `json:"event_type"`
	Payload   struct {
		Item struct {
			NFTID string `json:"nft_id"`
		} `json:"item"`
		Collection struct {
			Slug string `json:"slug"`
		} `json:"collection"`
		Maker struct {
			Address string `json:"address"`
		} `json:"maker"`
		BasePrice    string `json:"base_price"`
		PaymentToken struct {
			Address string `json:"address"`
		} `json:"payment_token"`
		ListingDate    string `json:"listing_date"`
		ExpirationDate string `json:"expiration_date"`
	} `json:"payload"`
}

// StreamErrorHandler is a callback function for handling stream errors
type StreamErrorHandler func(err error)

// StreamConfig holds configuration for the listing stream client
type StreamConfig struct {
	Endpoint             string
	APIKey               string
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int
	Logger               *zap.Logger
	OnListing            func(event *ListingEvent)
	OnError              StreamErrorHandler
	OnConnect            func()
	OnDisconnect         func()
}

// StreamClient follows item_listed events of marketplace collections
type StreamClient struct {
	config           StreamConfig
	logger           *zap.Logger
	conn             *websocket.Conn
	mu               sync.RWMutex
	writeMu          sync.Mutex
	isConnected      bool
	subscriptions    map[string]struct{} // collection slugs, rejoined after reconnect
	subMu            sync.RWMutex
	parent           context.Context
	ctx              context.Context
	cancel           context.CancelFunc
	heartbeatTicker  *time.Ticker
	reconnectAttempt int
	session          uint64 // bumped by Disconnect, stale reconnect loops exit
	ref              int64
}

// NewStreamClient creates a new listing stream client
func NewStreamClient(config StreamConfig) *StreamClient {
	if config.Endpoint == "" {
		config.Endpoint = DefaultContractAddresses[NetworkMainnet].StreamEndpoint
	}
	if config.ReconnectInterval == 0 {
		config.ReconnectInterval = DefaultReconnectInterval
	}
	if config.MaxReconnectAttempts == 0 {
		config.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &StreamClient{
		config:        config,
		logger:        logger,
		subscriptions: make(map[string]struct{}),
	}
}

// Connect establishes the stream connection. The connection is re-established
// after failures until ctx is done or Disconnect is called.
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return nil
	}
	s.parent = ctx
	return s.connect(ctx)
}

// connect must be called with the lock held
func (s *StreamClient) connect(ctx context.Context) error {
	if s.isConnected {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(s.parent)

	u, err := url.Parse(s.config.Endpoint)
	if err != nil {
		return fmt.Errorf("failed to parse stream endpoint: %w", err)
	}
	q := u.Query()
	q.Set("token", s.config.APIKey)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.reconnectAttempt = 0

	s.startHeartbeat(s.ctx)
	go s.readLoop(s.ctx, conn)

	s.logger.Info("stream connected", zap.String("endpoint", s.config.Endpoint))
	if s.config.OnConnect != nil {
		go s.config.OnConnect()
	}

	return nil
}

// Disconnect closes the stream connection. A reconnect already scheduled is
// abandoned.
func (s *StreamClient) Disconnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.parent = nil
	s.session++
	return s.disconnect()
}

// disconnect must be called with the lock held
func (s *StreamClient) disconnect() error {
	if !s.isConnected {
		return nil
	}

	s.isConnected = false

	if s.cancel != nil {
		s.cancel()
	}
	if s.heartbeatTicker != nil {
		s.heartbeatTicker.Stop()
	}

	var err error
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}

	if s.config.OnDisconnect != nil {
		go s.config.OnDisconnect()
	}

	return err
}

// IsConnected returns the current connection status
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

func collectionTopic(slug string) string {
	return "collection:" + slug
}

// Subscribe joins the channel of a collection
func (s *StreamClient) Subscribe(collection string) error {
	if collection == "" {
		return &InvalidParamError{Message: "collection slug is required"}
	}
	if err := s.sendEvent(collectionTopic(collection), EventJoin); err != nil {
		return err
	}

	s.subMu.Lock()
	s.subscriptions[collection] = struct{}{}
	s.subMu.Unlock()

	return nil
}

// Unsubscribe leaves the channel of a collection
func (s *StreamClient) Unsubscribe(collection string) error {
	if err := s.sendEvent(collectionTopic(collection), EventLeave); err != nil {
		return err
	}

	s.subMu.Lock()
	delete(s.subscriptions, collection)
	s.subMu.Unlock()

	return nil
}

// GetSubscriptions returns the collections currently joined
func (s *StreamClient) GetSubscriptions() []string {
	s.subMu.RLock()
	defer s.subMu.RUnlock()

	subs := make([]string, 0, len(s.subscriptions))
	for slug := range s.subscriptions {
		subs = append(subs, slug)
	}
	return subs
}

func (s *StreamClient) sendEvent(topic, event string) error {
	s.mu.Lock()
	s.ref++
	ref := s.ref
	s.mu.Unlock()

	return s.sendMessage(StreamMessage{
		Topic:   topic,
		Event:   event,
		Payload: json.RawMessage("{}"),
		Ref:     &ref,
	})
}

// sendMessage writes a frame to the connection
func (s *StreamClient) sendMessage(msg StreamMessage) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isConnected || s.conn == nil {
		return fmt.Errorf("stream not connected")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// gorilla connections allow one concurrent writer
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// startHeartbeat must be called with the lock held
func (s *StreamClient) startHeartbeat(ctx context.Context) {
	ticker := time.NewTicker(HeartbeatInterval)
	s.heartbeatTicker = ticker

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.sendEvent(heartbeatTopic, EventHeartbeat); err != nil {
					s.reportError(fmt.Errorf("heartbeat failed: %w", err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *StreamClient) reportError(err error) {
	s.logger.Warn("stream error", zap.Error(err))
	if s.config.OnError != nil {
		s.config.OnError(err)
	}
}

// readLoop reads frames until the connection fails or ctx is cancelled
func (s *StreamClient) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.reportError(fmt.Errorf("read error: %w", err))
			}
			s.handleDisconnect()
			return
		}
		s.handleMessage(data)
	}
}

func (s *StreamClient) handleMessage(data []byte) {
	var msg StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		s.reportError(fmt.Errorf("failed to decode frame: %w", err))
		return
	}

	switch msg.Event {
	case EventItemListed:
		event, err := decodeListingEvent(msg.Payload)
		if err != nil {
			s.reportError(err)
			return
		}
		if event.Collection == "" {
			event.Collection = strings.TrimPrefix(msg.Topic, "collection:")
		}
		if s.config.OnListing != nil {
			s.config.OnListing(event)
		}
	case EventReply, EventHeartbeat:
	default:
		s.logger.Debug("ignoring stream event", zap.String("topic", msg.Topic), zap.String("event", msg.Event))
	}
}

// decodeListingEvent converts an item_listed payload into a ListingEvent
func decodeListingEvent(raw json.RawMessage) (*ListingEvent, error) {
	var p itemListedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode item_listed payload: %w", err)
	}

	token, id, err := parseNFTID(p.Payload.Item.NFTID)
	if err != nil {
		return nil, err
	}

	event := &ListingEvent{
		EventType:      p.EventType,
		Collection:     p.Payload.Collection.Slug,
		TokenAddress:   token,
		TokenID:        id,
		BasePrice:      p.Payload.BasePrice,
		ListingDate:    p.Payload.ListingDate,
		ExpirationDate: p.Payload.ExpirationDate,
	}
	if event.EventType == "" {
		event.EventType = EventItemListed
	}
	if addr, err := ParseAddress(p.Payload.Maker.Address); err == nil {
		event.Maker = addr
	}
	if addr, err := ParseAddress(p.Payload.PaymentToken.Address); err == nil {
		event.PaymentToken = addr
	}
	return event, nil
}

// parseNFTID splits "<chain>/<contract>/<token id>"
func parseNFTID(nftID string) (common.Address, *big.Int, error) {
	parts := strings.Split(nftID, "/")
	if len(parts) != 3 {
		return common.Address{}, nil, &InvalidParamError{Message: fmt.Sprintf("invalid nft_id %q", nftID)}
	}
	token, err := ParseAddress(parts[1])
	if err != nil {
		return common.Address{}, nil, err
	}
	id, err := ParseTokenID(parts[2])
	if err != nil {
		return common.Address{}, nil, err
	}
	return token, id, nil
}

// handleDisconnect marks the connection lost and starts reconnecting
func (s *StreamClient) handleDisconnect() {
	s.mu.Lock()
	wasConnected := s.isConnected
	s.isConnected = false
	if s.cancel != nil {
		s.cancel()
	}
	if s.heartbeatTicker != nil {
		s.heartbeatTicker.Stop()
	}
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	parent := s.parent
	session := s.session
	s.mu.Unlock()

	if wasConnected && s.config.OnDisconnect != nil {
		s.config.OnDisconnect()
	}
	if parent == nil || parent.Err() != nil {
		return
	}

	go s.attemptReconnect(parent, session)
}

// attemptReconnect redials and rejoins every tracked collection. It gives up
// once Disconnect has been called since session started.
func (s *StreamClient) attemptReconnect(ctx context.Context, session uint64) {
	for {
		s.mu.Lock()
		if s.session != session {
			s.mu.Unlock()
			return
		}
		if s.reconnectAttempt >= s.config.MaxReconnectAttempts {
			s.mu.Unlock()
			s.reportError(fmt.Errorf("max reconnect attempts (%d) reached", s.config.MaxReconnectAttempts))
			return
		}
		s.reconnectAttempt++
		attempt := s.reconnectAttempt
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.config.ReconnectInterval):
		}

		s.mu.Lock()
		if s.session != session {
			s.mu.Unlock()
			return
		}
		err := s.connect(ctx)
		s.mu.Unlock()

		if err != nil {
			s.reportError(fmt.Errorf("reconnect attempt %d failed: %w", attempt, err))
			continue
		}

		s.resubscribe()
		return
	}
}

// resubscribe rejoins all tracked collections
func (s *StreamClient) resubscribe() {
	for _, slug := range s.GetSubscriptions() {
		if err := s.sendEvent(collectionTopic(slug), EventJoin); err != nil {
			s.reportError(fmt.Errorf("resubscribe %s failed: %w", slug, err))
		}
	}
}

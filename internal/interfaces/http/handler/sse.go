package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/application/notification"
)

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID       string
	UserID   uuid.UUID
	TenantID uuid.UUID
	Chan     chan SSEMessage
	Done     chan struct{}
}

// SSEMessage represents a message to be sent to SSE clients
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// NotificationSSEHandler streams inbox notifications to connected clients.
// It implements notification.Broadcaster: the fan-out event handler pushes
// into it, and connected browsers receive the events live. Delivery is best
// effort; slow clients drop messages and reconcile from the inbox.
type NotificationSSEHandler struct {
	BaseHandler
	logger     *zap.Logger
	clients    sync.Map // map[string]*SSEClient
	ctx        context.Context
	cancel     context.CancelFunc
	heartbeat  time.Duration
	started    bool
	startMu    sync.Mutex
	maxClients int
}

// NotificationSSEOption is a functional option for configuring the handler
type NotificationSSEOption func(*NotificationSSEHandler)

// WithSSELogger sets the logger for the handler
func WithSSELogger(logger *zap.Logger) NotificationSSEOption {
	return func(h *NotificationSSEHandler) {
		h.logger = logger
	}
}

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) NotificationSSEOption {
	return func(h *NotificationSSEHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients sets the maximum number of concurrent SSE clients
func WithSSEMaxClients(max int) NotificationSSEOption {
	return func(h *NotificationSSEHandler) {
		h.maxClients = max
	}
}

// NewNotificationSSEHandler creates a new notification SSE handler
func NewNotificationSSEHandler(opts ...NotificationSSEOption) *NotificationSSEHandler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &NotificationSSEHandler{
		logger:     zap.NewNop(),
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		maxClients: 10000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start begins the heartbeat loop
func (h *NotificationSSEHandler) Start() error {
	h.startMu.Lock()
	defer h.startMu.Unlock()

	if h.started {
		return fmt.Errorf("SSE handler already started")
	}

	go h.sendHeartbeats()

	h.started = true
	h.logger.Info("Notification SSE handler started")
	return nil
}

// Stop disconnects all clients and stops the handler
func (h *NotificationSSEHandler) Stop() {
	h.cancel()

	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*SSEClient); ok {
			close(client.Done)
		}
		return true
	})

	h.logger.Info("Notification SSE handler stopped")
}

// Push implements notification.Broadcaster. An empty userIDs slice targets
// every connected client of the tenant.
func (h *NotificationSSEHandler) Push(tenantID uuid.UUID, userIDs []uuid.UUID, event notification.PushEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal push event", zap.Error(err))
		return
	}

	msg := SSEMessage{
		Event: "notification",
		Data:  string(data),
		ID:    event.NotificationID.String(),
	}

	var targets map[uuid.UUID]struct{}
	if len(userIDs) > 0 {
		targets = make(map[uuid.UUID]struct{}, len(userIDs))
		for _, id := range userIDs {
			targets[id] = struct{}{}
		}
	}

	h.clients.Range(func(key, value any) bool {
		client, ok := value.(*SSEClient)
		if !ok || client.TenantID != tenantID {
			return true
		}
		if targets != nil {
			if _, wanted := targets[client.UserID]; !wanted {
				return true
			}
		}

		select {
		case client.Chan <- msg:
		default:
			// Channel full, client is slow; it reconciles from the inbox
			h.logger.Warn("Client channel full, dropping message",
				zap.String("client_id", client.ID))
		}
		return true
	})
}

// sendHeartbeats periodically pings every connected client to keep the
// connection alive through proxies
func (h *NotificationSSEHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			msg := SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			}
			h.clients.Range(func(_, value any) bool {
				if client, ok := value.(*SSEClient); ok {
					select {
					case client.Chan <- msg:
					default:
					}
				}
				return true
			})
		}
	}
}

// Stream godoc
// @Summary      Subscribe to inbox notifications via SSE
// @Description  Establishes a Server-Sent Events connection; new inbox
// @Description  notifications are pushed as they are sent
// @Tags         notification
// @Produce      text/event-stream
// @Success      200 {string} string "SSE stream"
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /notifications/stream [get]
func (h *NotificationSSEHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		c.JSON(503, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAX_CONNECTIONS_REACHED",
				"message": "Maximum number of SSE connections reached",
			},
		})
		return
	}

	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	// Buffer allows messages to queue without blocking Push
	const sseMessageBufferSize = 100
	client := &SSEClient{
		ID:       uuid.New().String(),
		UserID:   userID,
		TenantID: tenantID,
		Chan:     make(chan SSEMessage, sseMessageBufferSize),
		Done:     make(chan struct{}),
	}

	h.clients.Store(client.ID, client)
	defer func() {
		h.clients.Delete(client.ID)
	}()

	h.logger.Info("SSE client connected",
		zap.String("client_id", client.ID),
		zap.String("user_id", userID.String()),
		zap.String("tenant_id", tenantID.String()))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()
	for {
		select {
		case <-reqCtx.Done():
			h.logger.Debug("SSE client disconnected",
				zap.String("client_id", client.ID))
			return
		case <-client.Done:
			return
		case <-h.ctx.Done():
			return
		case msg, ok := <-client.Chan:
			if !ok {
				return
			}
			h.sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *NotificationSSEHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// ClientCount returns the number of connected SSE clients
func (h *NotificationSSEHandler) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Interface check
var _ notification.Broadcaster = (*NotificationSSEHandler)(nil)

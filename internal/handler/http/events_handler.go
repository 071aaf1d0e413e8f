package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Litzi-Otero/ReadyBook-back/internal/events"
)

// EventsHandler streams reservation events to connected clients over SSE.
type EventsHandler struct {
	logger *zap.Logger
	broker *events.Broker
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(logger *zap.Logger, broker *events.Broker) *EventsHandler {
	return &EventsHandler{
		logger: logger.Named("events_handler"),
		broker: broker,
	}
}

// Stream holds the connection open and writes one `data:` frame per event.
// The subscription is dropped when the client disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	id, ch := h.broker.Subscribe()
	defer h.broker.Unsubscribe(id)

	h.logger.Info("event stream opened", zap.String("subscriber_id", id))

	for {
		select {
		case <-c.Request.Context().Done():
			h.logger.Info("event stream closed", zap.String("subscriber_id", id))
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to encode event", zap.Error(err))
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			c.Writer.Flush()
		}
	}
}

package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Litzi-Otero/ReadyBook-back/internal/domain/models"
)

func TestEventStream(t *testing.T) {
	env := newRouterEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// Wait for the subscription to land before publishing.
	deadline := time.Now().Add(2 * time.Second)
	for env.broker.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	env.broker.Publish(models.Event{
		Event: models.EventNewBookReservation,
		Data:  models.ReservationCreatedPayload{Title: "Dune"},
	})

	scanner := bufio.NewScanner(resp.Body)
	var frame string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "data: ") {
			frame = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NotEmpty(t, frame)

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Title string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(frame), &event))
	assert.Equal(t, models.EventNewBookReservation, event.Event)
	assert.Equal(t, "Dune", event.Data.Title)
}

func TestEventStream_UnsubscribesOnDisconnect(t *testing.T) {
	env := newRouterEnv(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for env.broker.SubscriberCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cancel()

	deadline = time.Now().Add(2 * time.Second)
	for env.broker.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber was not pruned after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

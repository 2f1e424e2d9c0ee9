package mealplanner

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchPlanReceivesBroadcast(t *testing.T) {
	router := httprouter.New()
	router.GET("/ws/mealplan/:planId", WatchPlan)
	server := httptest.NewServer(router)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/mealplan/plan-1"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// let the server register the connection before broadcasting
	require.Eventually(t, func() bool {
		rooms.Lock()
		defer rooms.Unlock()
		return len(rooms.m["plan-1"]) == 1
	}, time.Second, 10*time.Millisecond)

	broadcastPlanUpdate("plan-1", map[string]string{"type": "plan-updated"})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	var msg map[string]string
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "plan-updated", msg["type"])
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	broadcastPlanUpdate("nobody-watching", map[string]string{"type": "plan-updated"})
}

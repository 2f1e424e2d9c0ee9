package mealplanner

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

// Live plan updates: collaborators watching a plan get a push whenever it
// is saved, so two people editing the same week see each other's changes.

var (
	rooms = struct {
		sync.Mutex
		m map[string]map[*websocket.Conn]bool
	}{m: make(map[string]map[*websocket.Conn]bool)}

	upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
)

func WatchPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	planID := ps.ByName("planId")
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("ws upgrade:", err)
		return
	}

	rooms.Lock()
	if rooms.m[planID] == nil {
		rooms.m[planID] = make(map[*websocket.Conn]bool)
	}
	rooms.m[planID][conn] = true
	rooms.Unlock()

	defer func() {
		rooms.Lock()
		delete(rooms.m[planID], conn)
		if len(rooms.m[planID]) == 0 {
			delete(rooms.m, planID)
		}
		rooms.Unlock()
		conn.Close()
	}()

	// read loop only detects disconnects; clients never send anything
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func broadcastPlanUpdate(planID string, payload interface{}) {
	rooms.Lock()
	defer rooms.Unlock()
	for conn := range rooms.m[planID] {
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(rooms.m[planID], conn)
		}
	}
}

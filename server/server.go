package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/nguyenphuquang1234567/Tank-Battle-Game/protocol"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // Non-browser clients don't send Origin
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	},
}

func extractIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SetupRoutes configures HTTP routes. publicURL is the base that invite
// codes point at.
func SetupRoutes(hub *Hub, publicURL string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "tank relay: %d rooms, %d connections\n", hub.rooms.Count(), hub.TotalConns())
	})

	mux.HandleFunc("/rooms", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-cache")
		json.NewEncoder(w).Encode(hub.rooms.ListRooms())
	})

	// Reserves a room and returns its invite code
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		room, err := hub.rooms.CreateRoom()
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		http.Redirect(w, r, "/invite.png?room="+room.ID, http.StatusSeeOther)
	})

	mux.HandleFunc("/invite.png", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("room")
		if hub.rooms.GetRoom(id) == nil {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}
		png, err := InvitePNG(publicURL, id)
		if err != nil {
			log.Error("invite encode", "room", id, "error", err)
			http.Error(w, "invite unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	// WebSocket endpoint
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r)
		if !hub.CanAccept(ip) {
			http.Error(w, "too many connections", http.StatusServiceUnavailable)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("upgrade error", "error", err)
			return
		}

		client := NewClient(hub, conn, ip)
		if err := hub.Seat(client, r.URL.Query().Get("room")); err != nil {
			log.Info("refused", "addr", ip, "error", err)
			conn.WriteJSON(protocol.Envelope{T: protocol.MsgError, Data: protocol.ErrorMsg{Msg: err.Error()}})
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			conn.Close()
			return
		}

		hub.TrackConnect(ip)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	})

	return mux
}

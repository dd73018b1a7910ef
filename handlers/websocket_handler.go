package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kfactor072/matchmaking-system/live"
	"github.com/kfactor072/matchmaking-system/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// TODO: ограничить Origin доверенными доменами перед продом.
		return true
	},
}

type WebSocketHandler struct {
	hub           *live.Hub
	playerService services.PlayerService
}

func NewWebSocketHandler(hub *live.Hub, ps services.PlayerService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:           hub,
		playerService: ps,
	}
}

// ServeFeed подключает клиента к общей ленте матчей.
func (h *WebSocketHandler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, live.FeedRoom)
}

// ServePlayer подключает клиента к ленте конкретного игрока.
func (h *WebSocketHandler) ServePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	// Комната создаётся только для существующего игрока.
	if _, err := h.playerService.GetByID(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.serve(w, r, live.PlayerRoom(playerID))
}

func (h *WebSocketHandler) serve(w http.ResponseWriter, r *http.Request, room string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade сам отправляет HTTP-ошибку клиенту.
		log.Printf("failed to upgrade connection for room %s: %v", room, err)
		return
	}

	client := &live.Client{
		Hub:  h.hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		Room: room,
	}
	client.Hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}

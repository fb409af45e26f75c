package main

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	previewWriteWait  = 10 * time.Second
	previewPongWait   = 60 * time.Second
	previewPingPeriod = previewPongWait * 9 / 10
	previewQueueSize  = 8
)

// PreviewEvent announces a finished render to preview subscribers.
type PreviewEvent struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Printed bool   `json:"printed"`
	Preview string `json:"preview"`
}

// EncodePreview returns img as a PNG data URI for inline display.
func EncodePreview(img *Monochrome) (string, error) {
	var buf bytes.Buffer
	if err := EncodeImage(&buf, img, FormatPNG); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

type previewClient struct {
	conn *websocket.Conn
	send chan PreviewEvent
}

// PreviewHub fans render events out to websocket clients. A client whose
// queue is full is disconnected rather than blocking the print path.
type PreviewHub struct {
	clients  map[*previewClient]struct{}
	mutex    sync.Mutex
	upgrader websocket.Upgrader
}

func NewPreviewHub() *PreviewHub {
	return &PreviewHub{
		clients: make(map[*previewClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *PreviewHub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *PreviewHub) Broadcast(ev PreviewEvent) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients {
		select {
		case client.send <- ev:
		default:
			logWarnModule("preview", "Client %s too slow, dropping", client.conn.RemoteAddr())
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *PreviewHub) register(client *previewClient) {
	h.mutex.Lock()
	h.clients[client] = struct{}{}
	h.mutex.Unlock()
}

func (h *PreviewHub) unregister(client *previewClient) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	h.mutex.Unlock()
}

// Handle upgrades the request and streams events until the client leaves.
func (h *PreviewHub) Handle(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &previewClient{conn: conn, send: make(chan PreviewEvent, previewQueueSize)}
	h.register(client)
	logInfoModule("preview", "Client connected: %s", conn.RemoteAddr())

	go h.writeLoop(client)
	h.readLoop(client)
	return nil
}

// readLoop only services control frames; it returns when the peer closes.
func (h *PreviewHub) readLoop(client *previewClient) {
	defer func() {
		h.unregister(client)
		client.conn.Close()
		logInfoModule("preview", "Client disconnected: %s", client.conn.RemoteAddr())
	}()

	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(previewPongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(previewPongWait))
	})
	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *PreviewHub) writeLoop(client *previewClient) {
	ticker := time.NewTicker(previewPingPeriod)
	defer func() {
		ticker.Stop()
		client.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-client.send:
			_ = client.conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
			if !ok {
				_ = client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(previewWriteWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package main

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestEncodePreview(t *testing.T) {
	img := NewMonochrome(image.Rect(0, 0, 24, 10))
	img.SetInk(3, 4, true)

	uri, err := EncodePreview(img)
	if err != nil {
		t.Fatal(err)
	}
	const prefix = "data:image/png;base64,"
	if !strings.HasPrefix(uri, prefix) {
		t.Fatalf("uri = %.40q", uri)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if decoded.Bounds().Dx() != 24 || decoded.Bounds().Dy() != 10 {
		t.Errorf("decoded bounds = %v", decoded.Bounds())
	}
	if r, _, _, _ := decoded.At(3, 4).RGBA(); r != 0 {
		t.Error("ink pixel lost in preview")
	}
}

func TestPreviewHubStreamsPrints(t *testing.T) {
	s := newTestService(t, &fakeOutput{kind: "ipp"})
	srv := httptest.NewServer(s.Echo())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/preview"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	resp, err := http.Post(srv.URL+"/print/tasks", "application/json", strings.NewReader(`{"tasks": ["sweep"]}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev PreviewEvent
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("read: %v", err)
	}
	if ev.Kind != "tasks" || ev.Title != taskListTitle || !ev.Printed {
		t.Errorf("event = %+v", ev)
	}
	if ev.Width != taskListWidth || ev.Height != TaskListHeight(1) {
		t.Errorf("size = %dx%d", ev.Width, ev.Height)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for s.hub.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never unregistered")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPreviewHubBroadcastWithoutClients(t *testing.T) {
	hub := NewPreviewHub()
	hub.Broadcast(PreviewEvent{Kind: "tasks"})
	if hub.ClientCount() != 0 {
		t.Errorf("clients = %d", hub.ClientCount())
	}
}

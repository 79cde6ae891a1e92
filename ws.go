package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func wsClientHandlerWrapper(exitchan <-chan struct{}) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		wsClientHandler(w, r, exitchan)
	}
}

func wsClientHandler(w http.ResponseWriter, r *http.Request, exitchan <-chan struct{}) {
	upgrader := websocket.Upgrader{
		HandshakeTimeout: 2 * time.Second,
		Error: func(w http.ResponseWriter, r *http.Request, status int, reason error) {
			log.Printf("Websocket error: %v %v", status, reason.Error())
		},
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
		EnableCompression: true,
	}
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Print("Websocket upgrade error:", err)
		return
	}
	defer c.Close()
	id := uuid.New()
	log.Printf("Websocket client %s connected from %s", id, r.RemoteAddr)
	defer log.Printf("Websocket client %s disconnected", id)
	errChan := make(chan error, 1)
	go func() {
		for {
			_, _, err := c.ReadMessage()
			if err != nil {
				errChan <- err
				return
			}
		}
	}()
	events := globalEventRouter.Connect()
	defer globalEventRouter.Disconnect(events)
	err = c.WriteJSON(mapEvent{Action: "hello", Data: map[string]any{"client": id.String()}})
	if err != nil {
		return
	}
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			b, err := json.Marshal(e)
			if err != nil {
				log.Printf("Failed to marshal event: %v\n", err)
				return
			}
			err = c.WriteMessage(websocket.TextMessage, b)
			if err != nil {
				return
			}
		case <-errChan:
			return
		case <-exitchan:
			c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return
		}
	}
}

package main

import (
	"log"
)

type mapEvent struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

// mapEventRouter fans events out to subscribers, slow subscribers lose events.
type mapEventRouter struct {
	connect    chan chan mapEvent
	disconnect chan chan mapEvent
	events     chan mapEvent
	done       chan struct{}
}

var (
	globalEventRouter = newMapEventRouter()
)

func newMapEventRouter() *mapEventRouter {
	return &mapEventRouter{
		connect:    make(chan chan mapEvent, 16),
		disconnect: make(chan chan mapEvent, 16),
		events:     make(chan mapEvent, 256),
		done:       make(chan struct{}),
	}
}

func (router *mapEventRouter) Run(exitchan <-chan struct{}) {
	clients := map[chan mapEvent]bool{}
	for {
		select {
		case <-exitchan:
			close(router.done)
			for c := range clients {
				close(c)
			}
			return
		case c := <-router.connect:
			clients[c] = true
		case c := <-router.disconnect:
			if clients[c] {
				delete(clients, c)
				close(c)
			}
		case e := <-router.events:
			for c := range clients {
				select {
				case c <- e:
				default:
					log.Printf("Event %v dropped!", e.Action)
				}
			}
		}
	}
}

func (router *mapEventRouter) Connect() chan mapEvent {
	c := make(chan mapEvent, 256)
	select {
	case <-router.done:
		close(c)
		return c
	default:
	}
	select {
	case router.connect <- c:
	case <-router.done:
		close(c)
	}
	return c
}

func (router *mapEventRouter) Disconnect(c chan mapEvent) {
	select {
	case router.disconnect <- c:
	case <-router.done:
	}
}

func (router *mapEventRouter) Broadcast(e mapEvent) {
	select {
	case router.events <- e:
	case <-router.done:
	default:
		log.Printf("Event router queue full, event %v dropped!", e.Action)
	}
}

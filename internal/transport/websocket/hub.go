// Package websocket
package websocket

import (
	"context"
	"encoding/json"

	"knightd/internal/domain"
	"knightd/internal/logger"
)

// Hub fans rendered status reports out to subscribed clients. It is the
// messenger collaborator of the status core: delivery is synchronous from
// the caller's point of view so failures can propagate.
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan *Subscription
	unsubscribe chan *Subscription
	outbound    chan *delivery

	log logger.Logger
}

type Subscription struct {
	client  *Client
	channel string
}

type delivery struct {
	channel string
	message []byte
	reply   chan error
}

// Message is the wire envelope pushed to subscribers.
type Message struct {
	Channel string `json:"channel"`
	Event   string `json:"event"`
	Payload string `json:"payload"`
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		channels: make(map[string]map[*Client]bool),

		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *Subscription),
		unsubscribe: make(chan *Subscription),
		outbound:    make(chan *delivery, 16),

		log: log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Info("ws: client registered", "total_clients", len(h.clients))

		case client := <-h.unregister:
			h.drop(client)

		case sub := <-h.subscribe:
			if h.channels[sub.channel] == nil {
				h.channels[sub.channel] = make(map[*Client]bool)
			}
			h.channels[sub.channel][sub.client] = true
			h.log.Debug("ws: client subscribed", "channel", sub.channel)

		case sub := <-h.unsubscribe:
			if subs, ok := h.channels[sub.channel]; ok {
				delete(subs, sub.client)
				if len(subs) == 0 {
					delete(h.channels, sub.channel)
				}
				h.log.Debug("ws: client unsubscribed", "channel", sub.channel)
			}

		case d := <-h.outbound:
			d.reply <- h.deliver(d)
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	close(client.send)

	for channel, subs := range h.channels {
		if _, subscribed := subs[client]; subscribed {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.channels, channel)
			}
		}
	}

	h.log.Info("ws: client unregistered", "total_clients", len(h.clients))
}

func (h *Hub) deliver(d *delivery) error {
	subs, ok := h.channels[d.channel]
	if !ok || len(subs) == 0 {
		return domain.ErrNoSubscribers
	}

	delivered := 0
	for client := range subs {
		select {
		case client.send <- d.message:
			delivered++
		default:
			h.log.Warn("ws: client send buffer full, dropping client")
			h.drop(client)
		}
	}

	if delivered == 0 {
		return domain.ErrNoSubscribers
	}

	return nil
}

// Send implements domain.Messenger. It blocks until the hub has handed the
// message to every subscriber's send buffer, so a channel with nobody
// listening surfaces as an error to the invoker.
func (h *Hub) Send(ctx context.Context, channel, text string) error {
	message, err := json.Marshal(Message{
		Channel: channel,
		Event:   "status.report",
		Payload: text,
	})
	if err != nil {
		return err
	}

	d := &delivery{channel: channel, message: message, reply: make(chan error, 1)}

	select {
	case h.outbound <- d:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-d.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

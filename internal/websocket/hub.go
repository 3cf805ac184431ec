package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/npatel/recipebox-backend/internal/app/model"
	"github.com/npatel/recipebox-backend/pkg/logger"
)

// ClientMessage is a message received from a client.
type ClientMessage struct {
	Type     string `json:"type"` // subscribe, unsubscribe
	RecipeID uint   `json:"recipe_id"`
}

// Client is one WebSocket session. A user can hold several sessions at
// once (multiple devices), each with its own subscription set.
type Client struct {
	Hub           *Hub
	Conn          *Conn
	UserID        uint
	Send          chan []byte
	Recipes       map[uint]bool // recipe IDs this session watches
	mu            sync.RWMutex
	MessageCount  int
	LastResetTime time.Time
	RateMu        sync.Mutex
}

// Hub fans feedback events out to the sessions watching each recipe.
type Hub struct {
	// UserID -> sessions (multi device)
	clients map[uint][]*Client

	// RecipeID -> watching user IDs
	recipes map[uint]map[uint]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage

	mu sync.RWMutex
}

// BroadcastMessage is an event addressed to one recipe's watchers.
type BroadcastMessage struct {
	RecipeID uint
	Message  []byte
	SenderID uint // the poster, excluded from delivery
}

// FeedbackEventMessage is the wire format for live feedback events.
type FeedbackEventMessage struct {
	Type     string          `json:"type"` // rating_posted, comment_posted
	RecipeID uint            `json:"recipe_id"`
	Feedback *model.Feedback `json:"feedback"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		recipes:    make(map[uint]map[uint]bool),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan *BroadcastMessage, 1024),
	}
}

// Run processes register/unregister/broadcast events. Call in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				removed := false
				for _, c := range clientList {
					if c == client {
						removed = true
						continue
					}
					newList = append(newList, c)
				}

				// A session can be unregistered twice (stuck-send drop, then
				// the read pump's own teardown); only the pass that actually
				// removes it may close the channel
				if removed {
					if len(newList) == 0 {
						// Last session: drop the user from every recipe feed
						delete(h.clients, client.UserID)

						client.mu.RLock()
						for recipeID := range client.Recipes {
							if users, ok := h.recipes[recipeID]; ok {
								delete(users, client.UserID)
								if len(users) == 0 {
									delete(h.recipes, recipeID)
								}
							}
						}
						client.mu.RUnlock()
					} else {
						h.clients[client.UserID] = newList
					}

					close(client.Send)
				}
			}
			h.mu.Unlock()
			logger.Info("WebSocket client unregistered", map[string]interface{}{
				"user_id":            client.UserID,
				"remaining_sessions": len(h.clients[client.UserID]),
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			if users, ok := h.recipes[message.RecipeID]; ok {
				for userID := range users {
					if userID == message.SenderID {
						continue
					}

					if clientList, ok := h.clients[userID]; ok {
						for _, client := range clientList {
							select {
							case client.Send <- message.Message:
							default:
								// Send buffer is stuck - drop the session
								go h.Unregister(client)
								logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
									"user_id": userID,
								})
							}
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Subscribe adds every session of the user to a recipe's feed.
func (h *Hub) Subscribe(userID, recipeID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			client.Recipes[recipeID] = true
			client.mu.Unlock()
		}

		if _, ok := h.recipes[recipeID]; !ok {
			h.recipes[recipeID] = make(map[uint]bool)
		}
		h.recipes[recipeID][userID] = true

		logger.Info("User subscribed to recipe feed", map[string]interface{}{
			"user_id":   userID,
			"recipe_id": recipeID,
		})
	}
}

// Unsubscribe removes the user's sessions from a recipe's feed.
func (h *Hub) Unsubscribe(userID, recipeID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clientList, ok := h.clients[userID]; ok {
		for _, client := range clientList {
			client.mu.Lock()
			delete(client.Recipes, recipeID)
			client.mu.Unlock()
		}
	}

	if users, ok := h.recipes[recipeID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(h.recipes, recipeID)
		}
	}
}

// FeedbackPosted pushes a new rating or comment to the recipe's watchers.
// Called by the feedback service after the row is committed.
func (h *Hub) FeedbackPosted(recipeID uint, feedback *model.Feedback) {
	eventType := "comment_posted"
	if feedback.Rating != nil {
		eventType = "rating_posted"
	}

	h.sendToRecipe(recipeID, &FeedbackEventMessage{
		Type:     eventType,
		RecipeID: recipeID,
		Feedback: feedback,
	}, feedback.UserID)
}

func (h *Hub) sendToRecipe(recipeID uint, message interface{}, senderID uint) {
	data, err := json.Marshal(message)
	if err != nil {
		logger.Error("Failed to marshal feed message", err, nil)
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{
		RecipeID: recipeID,
		Message:  data,
		SenderID: senderID,
	}:
	default:
		// The feed is best effort; a dropped event never blocks feedback writes
		logger.Warn("Broadcast channel full, message dropped", map[string]interface{}{
			"recipe_id": recipeID,
		})
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// IsUserOnline reports whether the user has at least one live session.
func (h *Hub) IsUserOnline(userID uint) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// WatchersOf returns the user IDs currently watching a recipe.
func (h *Hub) WatchersOf(recipeID uint) []uint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var users []uint
	if watching, ok := h.recipes[recipeID]; ok {
		for userID := range watching {
			users = append(users, userID)
		}
	}
	return users
}

// HandleClientMessage processes a subscribe/unsubscribe request.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.RateMu.Lock()
	now := time.Now()
	if now.Sub(client.LastResetTime) >= time.Second {
		client.MessageCount = 0
		client.LastResetTime = now
	}
	client.MessageCount++
	count := client.MessageCount
	client.RateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	switch msg.Type {
	case "subscribe":
		h.Subscribe(client.UserID, msg.RecipeID)
	case "unsubscribe":
		h.Unsubscribe(client.UserID, msg.RecipeID)
	default:
		logger.Warn("Unknown client message type", map[string]interface{}{
			"user_id": client.UserID,
			"type":    msg.Type,
		})
	}
}

// Package session serves editing sessions over websockets. Each connection
// gets its own engine; the project is loaded on connect and saved when the
// connection closes.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/engine"
	"github.com/memeforge/memeforge/backend-go/internal/typeid"
)

const saveTimeout = 10 * time.Second

// Loader returns the latest document of a project.
type Loader func(ctx context.Context, projectID string) (*document.Project, error)

// Saver persists a document and returns the new snapshot version.
type Saver func(ctx context.Context, p *document.Project) (int, error)

type Hub struct {
	mu         sync.RWMutex
	clients    map[string]*Client // sessionID -> client
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	done       chan struct{}

	load     Loader
	save     Saver
	engine   engine.Options
	autosave time.Duration
}

// SetAutosave makes Run save dirty sessions every interval. Zero disables it.
// Call before Run.
func (h *Hub) SetAutosave(interval time.Duration) {
	h.autosave = interval
}

func NewHub(load Loader, save Saver, opts engine.Options) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		load:       load,
		save:       save,
		engine:     opts,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	var tick <-chan time.Time
	if h.autosave > 0 {
		ticker := time.NewTicker(h.autosave)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-tick:
			h.saveAll(false)
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			h.saveAll(true)
			return
		}
	}
}

// Stop saves every dirty session and stops the hub loop.
func (h *Hub) Stop() {
	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Open loads the project into a new engine and registers a client for conn.
func (h *Hub) Open(ctx context.Context, conn *websocket.Conn, projectID string) (*Client, error) {
	p, err := h.load(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	eng := engine.NewEngine(h.engine)
	if err := eng.Load(p); err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}

	client := NewClient(h, conn, eng, projectID, typeid.NewSessionID(), uuid.New().String())
	h.Register(client)
	return client, nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client.SessionID] = client
	h.mu.Unlock()
	activeSessions.Inc()

	client.reply(nil, TypeWelcome, WelcomePayload{SessionID: client.SessionID, ProjectID: client.ProjectID})

	slog.Info("session opened", "session", client.SessionID, "project", client.ProjectID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client.SessionID]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client.SessionID)
	close(client.send)
	h.mu.Unlock()
	activeSessions.Dec()

	release(client)
	if _, err := h.saveClient(context.Background(), client, false); err != nil {
		slog.Error("save on close failed", "error", err, "session", client.SessionID)
	}

	slog.Info("session closed", "session", client.SessionID, "project", client.ProjectID)
}

// release drops a drag the client still holds, since its pointer is gone.
func release(c *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine.ForceDrop()
}

// saveAll saves every dirty session. Autosaves leave drags running; with
// closing set, open drags are dropped first.
func (h *Hub) saveAll(closing bool) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if closing {
			release(c)
		}
		if _, err := h.saveClient(context.Background(), c, false); err != nil {
			slog.Error("save failed", "error", err, "session", c.SessionID)
		}
	}
}

// saveClient persists the client's project. Clean projects are skipped unless
// force is set. It returns the saved version, 0 when skipped.
func (h *Hub) saveClient(ctx context.Context, c *Client, force bool) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && !c.engine.Dirty() {
		return 0, nil
	}
	p, err := c.engine.Project()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	version, err := h.save(ctx, p)
	recordSave(err)
	if err != nil {
		return 0, fmt.Errorf("save project %s: %w", p.ID, err)
	}
	c.engine.MarkSaved()
	slog.Info("project saved", "project", p.ID, "version", version, "session", c.SessionID)
	return version, nil
}

// SessionCount returns the number of registered sessions.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	if msg.Type == TypeProjectSave {
		version, err := h.saveClient(ctx, sender, true)
		if err != nil {
			slog.Error("save failed", "error", err, "session", sender.SessionID)
			sender.reply(msg, TypeError, ErrorPayload{Request: msg.Type, Message: "save failed"})
			return
		}
		sender.reply(msg, TypeSaved, SavedPayload{Version: version})
		return
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()

	if err := h.apply(sender, msg); err != nil {
		slog.Warn("message rejected", "type", msg.Type, "error", err, "session", sender.SessionID)
		sender.reply(msg, TypeError, ErrorPayload{Request: msg.Type, Message: err.Error()})
		return
	}

	switch msg.Type {
	case TypePointerMove, TypeModifiers:
	case TypeTick:
		frame := sender.engine.Tick()
		for _, op := range frame.Operations {
			operationsTotal.WithLabelValues(string(op.Kind)).Inc()
		}
		sender.reply(msg, TypeFrameDraw, frame)
	default:
		sender.reply(msg, TypeStatus, sender.engine.Status())
	}
}

// apply runs a client message against the sender's engine. The caller holds
// sender.mu.
func (h *Hub) apply(sender *Client, msg *Message) error {
	eng := sender.engine
	switch msg.Type {
	case TypePointerMove, TypePointerDown, TypePointerUp:
		var p PointerPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerMove:
			eng.PointerMove(p.X, p.Y)
		case TypePointerDown:
			eng.PointerDown(p.X, p.Y)
		default:
			eng.PointerUp(p.X, p.Y)
		}
	case TypeModifiers:
		var p ModifiersPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		eng.SetModifiers(p.Shift, p.Ctrl)
	case TypeViewport:
		var p ViewportPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		eng.SetScale(p.Scale)
	case TypePointerCancel:
		eng.ForceDrop()
	case TypeUndo:
		eng.Undo()
	case TypeRedo:
		eng.Redo()
	case TypeFrameSelect, TypeFrameRemove, TypeTextSelect, TypeTextRemove:
		var p IDPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		switch msg.Type {
		case TypeFrameSelect:
			return eng.SelectFrame(p.ID)
		case TypeFrameRemove:
			return eng.RemoveFrame(p.ID)
		case TypeTextSelect:
			return eng.SelectText(p.ID)
		default:
			return eng.RemoveText(p.ID)
		}
	case TypeFrameShift, TypeTextShift:
		var p ShiftPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if msg.Type == TypeFrameShift {
			return eng.ShiftFrame(p.ID, p.Dir)
		}
		return eng.ShiftText(p.ID, p.Dir)
	case TypeFrameAdd:
		var p FrameAddPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("invalid frame size %dx%d", p.Width, p.Height)
		}
		_, err := eng.AddFrame(p.Image, p.Width, p.Height)
		return err
	case TypeTextAdd:
		var p TextAddPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		_, err := eng.AddText(p.Text)
		return err
	case TypeTextUpdate:
		var p TextUpdatePayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.Text != nil {
			if err := eng.SetText(p.ID, *p.Text); err != nil {
				return err
			}
		}
		if p.Style != nil {
			return eng.SetStyle(p.ID, *p.Style)
		}
	case TypeTick:
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}

package session

import (
	"encoding/json"

	"github.com/memeforge/memeforge/backend-go/internal/document"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Pointer and viewport
	TypePointerMove   = "pointer.move"
	TypePointerDown   = "pointer.down"
	TypePointerUp     = "pointer.up"
	TypePointerCancel = "pointer.cancel" // lost capture: an open drag is dropped
	TypeModifiers     = "modifiers"
	TypeViewport      = "viewport"

	// History
	TypeUndo = "history.undo"
	TypeRedo = "history.redo"

	// Document structure
	TypeFrameSelect = "frame.select"
	TypeFrameAdd    = "frame.add"
	TypeFrameRemove = "frame.remove"
	TypeFrameShift  = "frame.shift"
	TypeTextSelect  = "text.select"
	TypeTextAdd     = "text.add"
	TypeTextRemove  = "text.remove"
	TypeTextShift   = "text.shift"
	TypeTextUpdate  = "text.update"

	// Rendering and persistence
	TypeTick        = "tick"
	TypeFrameDraw   = "frame.draw"
	TypeStatus      = "status"
	TypeProjectSave = "project.save"
	TypeSaved       = "project.saved"
)

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type ModifiersPayload struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
}

type ViewportPayload struct {
	Scale float64 `json:"scale"`
}

type IDPayload struct {
	ID string `json:"id"`
}

type ShiftPayload struct {
	ID  string `json:"id"`
	Dir int    `json:"dir"`
}

type FrameAddPayload struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type TextAddPayload struct {
	Text string `json:"text"`
}

type TextUpdatePayload struct {
	ID    string              `json:"id"`
	Text  *string             `json:"text,omitempty"`
	Style *document.TextStyle `json:"style,omitempty"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ProjectID string `json:"projectId"`
}

type ErrorPayload struct {
	Request string `json:"request,omitempty"`
	Message string `json:"message"`
}

type SavedPayload struct {
	Version int `json:"version"`
}

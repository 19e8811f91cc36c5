package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/engine"
)

type memoryStore struct {
	mu      sync.Mutex
	saved   []*document.Project
	failing bool
}

func (s *memoryStore) load(_ context.Context, projectID string) (*document.Project, error) {
	if projectID == "proj_missing" {
		return nil, errors.New("no such project")
	}
	return document.NewSampleProject(projectID), nil
}

func (s *memoryStore) save(_ context.Context, p *document.Project) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return 0, errors.New("database down")
	}
	s.saved = append(s.saved, p)
	return len(s.saved) + 1, nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func startHub(t *testing.T) (*Hub, *memoryStore) {
	t.Helper()
	store := &memoryStore{}
	h := NewHub(store.load, store.save, engine.Options{})
	go h.Run()
	return h, store
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case data := <-c.send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func request(t *testing.T, msgType string, seq int64, payload any) *Message {
	t.Helper()
	msg := &Message{Type: msgType, Seq: seq}
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		msg.Payload = data
	}
	return msg
}

func open(t *testing.T, h *Hub) *Client {
	t.Helper()
	c, err := h.Open(context.Background(), nil, "proj_test")
	require.NoError(t, err)
	welcome := receive(t, c)
	require.Equal(t, TypeWelcome, welcome.Type)
	var p WelcomePayload
	require.NoError(t, json.Unmarshal(welcome.Payload, &p))
	assert.Equal(t, c.SessionID, p.SessionID)
	assert.Equal(t, "proj_test", p.ProjectID)
	return c
}

func TestOpenFailsForUnknownProject(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()

	_, err := h.Open(context.Background(), nil, "proj_missing")
	assert.Error(t, err)
	assert.Equal(t, 0, h.SessionCount())
}

func TestStatusAfterCommands(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()
	c := open(t, h)
	assert.Equal(t, 1, h.SessionCount())

	ctx := context.Background()
	h.handleMessage(ctx, c, request(t, TypeTextAdd, 7, TextAddPayload{Text: "hello"}))
	msg := receive(t, c)
	assert.Equal(t, TypeStatus, msg.Type)
	assert.Equal(t, int64(7), msg.Seq)

	var st engine.Status
	require.NoError(t, json.Unmarshal(msg.Payload, &st))
	assert.True(t, st.CanUndo)
	require.NotNil(t, st.Box)
	assert.Len(t, st.Frames[0].Texts, 2)

	h.handleMessage(ctx, c, request(t, TypeUndo, 8, nil))
	msg = receive(t, c)
	require.NoError(t, json.Unmarshal(msg.Payload, &st))
	assert.False(t, st.CanUndo)
	assert.True(t, st.CanRedo)
}

func TestTickReturnsDrawCommands(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()
	c := open(t, h)

	h.handleMessage(context.Background(), c, request(t, TypeTick, 1, nil))
	msg := receive(t, c)
	assert.Equal(t, TypeFrameDraw, msg.Type)

	var frame engine.Frame
	require.NoError(t, json.Unmarshal(msg.Payload, &frame))
	require.NotEmpty(t, frame.Commands)
	assert.Equal(t, "image", frame.Commands[0].Op)
	require.Len(t, frame.Operations, 1)
}

func TestPointerMoveIsSilent(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()
	c := open(t, h)

	h.handleMessage(context.Background(), c, request(t, TypePointerMove, 1, PointerPayload{X: 10, Y: 10}))
	select {
	case data := <-c.send:
		t.Fatalf("unexpected message %s", data)
	default:
	}
}

func TestInvalidMessagesAnswerWithError(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()
	c := open(t, h)
	ctx := context.Background()

	tests := []struct {
		name string
		msg  *Message
	}{
		{"unknown type", request(t, "bogus", 1, nil)},
		{"missing payload", request(t, TypeTextSelect, 2, nil)},
		{"unknown text", request(t, TypeTextSelect, 3, IDPayload{ID: "text_missing"})},
		{"bad frame size", request(t, TypeFrameAdd, 4, FrameAddPayload{Image: "x.png"})},
		{"unknown frame", request(t, TypeFrameRemove, 5, IDPayload{ID: "frame_missing"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h.handleMessage(ctx, c, tt.msg)
			msg := receive(t, c)
			assert.Equal(t, TypeError, msg.Type)
			assert.Equal(t, tt.msg.Seq, msg.Seq)
			var p ErrorPayload
			require.NoError(t, json.Unmarshal(msg.Payload, &p))
			assert.Equal(t, tt.msg.Type, p.Request)
			assert.NotEmpty(t, p.Message)
		})
	}
}

func TestSaveOnRequestAndClose(t *testing.T) {
	h, store := startHub(t)
	defer h.Stop()
	c := open(t, h)
	ctx := context.Background()

	h.handleMessage(ctx, c, request(t, TypeProjectSave, 1, nil))
	msg := receive(t, c)
	assert.Equal(t, TypeSaved, msg.Type)
	assert.Equal(t, 1, store.count())

	// Closing a dirty session saves it.
	h.handleMessage(ctx, c, request(t, TypeTextAdd, 2, TextAddPayload{Text: "dirty"}))
	receive(t, c)
	h.Unregister(c)

	require.Eventually(t, func() bool { return store.count() == 2 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, h.SessionCount())
}

func TestSaveFailureReportsError(t *testing.T) {
	h, store := startHub(t)
	defer h.Stop()
	c := open(t, h)
	store.failing = true

	h.handleMessage(context.Background(), c, request(t, TypeProjectSave, 1, nil))
	msg := receive(t, c)
	assert.Equal(t, TypeError, msg.Type)
}

func TestStopSavesDirtySessions(t *testing.T) {
	h, store := startHub(t)
	c := open(t, h)

	h.handleMessage(context.Background(), c, request(t, TypeTextAdd, 1, TextAddPayload{Text: "unsaved"}))
	receive(t, c)

	h.Stop()
	assert.Equal(t, 1, store.count())
	assert.Equal(t, "proj_test", store.saved[0].ID)
}

func TestAutosave(t *testing.T) {
	store := &memoryStore{}
	h := NewHub(store.load, store.save, engine.Options{})
	h.SetAutosave(10 * time.Millisecond)
	go h.Run()
	defer h.Stop()
	c := open(t, h)

	c.mu.Lock()
	_, err := c.engine.AddText("autosaved")
	c.mu.Unlock()
	require.NoError(t, err)

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	// Saved sessions are clean until the next edit.
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, store.count())
}

// dragRightEdge adds a caption to the sample frame and starts widening it by
// 40 without releasing the pointer.
func dragRightEdge(t *testing.T, c *Client) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.engine.AddText("dragged")
	require.NoError(t, err)
	// Caption box: 640x180 centered at (640, 360).
	c.engine.PointerMove(960, 360)
	c.engine.PointerDown(960, 360)
	c.engine.PointerMove(980, 360)
	require.True(t, c.engine.Status().Dragging)
}

func (s *memoryStore) last() *document.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

func TestCloseDropsOpenDrag(t *testing.T) {
	h, store := startHub(t)
	defer h.Stop()
	c := open(t, h)
	dragRightEdge(t, c)
	c.mu.Lock()
	c.engine.MarkSaved()
	c.mu.Unlock()

	h.Unregister(c)

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	box := store.last().Frames[0].Contents[1].Box
	assert.InDelta(t, 680, box.Width(), 1e-9)
}

func TestStopDropsOpenDrag(t *testing.T) {
	h, store := startHub(t)
	c := open(t, h)
	dragRightEdge(t, c)

	h.Stop()

	require.Equal(t, 1, store.count())
	assert.InDelta(t, 680, store.last().Frames[0].Contents[1].Box.Width(), 1e-9)
}

func TestAutosaveSkipsDragPreview(t *testing.T) {
	store := &memoryStore{}
	h := NewHub(store.load, store.save, engine.Options{})
	h.SetAutosave(10 * time.Millisecond)
	go h.Run()
	defer h.Stop()
	c := open(t, h)
	dragRightEdge(t, c)

	require.Eventually(t, func() bool { return store.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.InDelta(t, 640, store.last().Frames[0].Contents[1].Box.Width(), 1e-9)

	c.mu.Lock()
	defer c.mu.Unlock()
	assert.True(t, c.engine.Status().Dragging)
}

func TestPointerCancelDropsDrag(t *testing.T) {
	h, _ := startHub(t)
	defer h.Stop()
	c := open(t, h)
	dragRightEdge(t, c)

	h.handleMessage(context.Background(), c, request(t, TypePointerCancel, 3, nil))
	msg := receive(t, c)
	require.Equal(t, TypeStatus, msg.Type)

	var st engine.Status
	require.NoError(t, json.Unmarshal(msg.Payload, &st))
	assert.False(t, st.Dragging)
	require.NotNil(t, st.Box)
	assert.InDelta(t, 680, st.Box.Width, 1e-9)
}

package document

import (
	"encoding/json"
	"fmt"

	"github.com/memeforge/memeforge/backend-go/internal/patch"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
	"github.com/memeforge/memeforge/backend-go/internal/typeid"
)

// BoxStroke is the outline color of an editable text box.
const BoxStroke = "#aaaa00"

type Project struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Frames []*Frame `json:"frames"`
}

// Frame is one image of the meme with its captions.
type Frame struct {
	ID     string `json:"id"`
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Contents[0] is the main caption.
	Contents []*TextContent `json:"contents"`
}

type TextCase string

const (
	CaseNone  TextCase = "none"
	CaseUpper TextCase = "upper"
	CaseLower TextCase = "lower"
)

type TextStyle struct {
	Font      string   `json:"font"`
	FontSize  float64  `json:"fontSize"`
	Case      TextCase `json:"case"`
	Fill      string   `json:"fill"`
	Stroke    string   `json:"stroke"`
	LineWidth float64  `json:"lineWidth"`
}

// DefaultStyle is the classic white caption with a black outline.
var DefaultStyle = TextStyle{
	Font:      "Impact",
	FontSize:  48,
	Case:      CaseUpper,
	Fill:      "#FFFFFF",
	Stroke:    "#000000",
	LineWidth: 4,
}

// TextContent is a caption placed in a box on a frame.
type TextContent struct {
	ID    string
	Box   *sprite.RectangleSprite
	Text  string
	Style TextStyle
	// Main marks the frame-wide caption, which has no editable box.
	Main bool
}

type boxJSON struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

type textContentJSON struct {
	ID    string    `json:"id"`
	Box   boxJSON   `json:"box"`
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
	Main  bool      `json:"main"`
}

func (c *TextContent) MarshalJSON() ([]byte, error) {
	out := textContentJSON{ID: c.ID, Text: c.Text, Style: c.Style, Main: c.Main}
	if c.Box != nil {
		out.Box = boxJSON{
			X:        c.Box.X(),
			Y:        c.Box.Y(),
			Width:    c.Box.Width(),
			Height:   c.Box.Height(),
			Rotation: c.Box.Rotation(),
		}
	}
	return json.Marshal(out)
}

func (c *TextContent) UnmarshalJSON(data []byte) error {
	var in textContentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decode text content: %w", err)
	}
	c.ID = in.ID
	c.Text = in.Text
	c.Style = in.Style
	c.Main = in.Main
	c.Box = NewBox(in.Box.X, in.Box.Y, in.Box.Width, in.Box.Height, in.Box.Rotation)
	return nil
}

// NewBox creates a text box with the standard palette.
func NewBox(x, y, width, height, rotation float64) *sprite.RectangleSprite {
	return sprite.NewRectangleSprite(x, y, width, height, rotation, sprite.Palette{
		Stroke: map[sprite.State]string{
			sprite.StateDefault: BoxStroke,
			sprite.StateHover:   BoxStroke,
			sprite.StateActive:  BoxStroke,
		},
	})
}

// NewFrame creates a frame with an empty main caption covering the image.
func NewFrame(image string, width, height int) *Frame {
	w, h := float64(width), float64(height)
	return &Frame{
		ID:     typeid.NewFrameID(),
		Image:  image,
		Width:  width,
		Height: height,
		Contents: []*TextContent{{
			ID:    typeid.NewTextID(),
			Box:   NewBox(w/2, h/2, w, h, 0),
			Style: DefaultStyle,
			Main:  true,
		}},
	}
}

// NewText creates a boxed caption centered on the frame.
func (f *Frame) NewText(text string) *TextContent {
	w, h := float64(f.Width), float64(f.Height)
	return &TextContent{
		ID:    typeid.NewTextID(),
		Box:   NewBox(w/2, h/2, w/2, h/4, 0),
		Text:  text,
		Style: DefaultStyle,
	}
}

// Main returns the main caption.
func (f *Frame) Main() *TextContent {
	if len(f.Contents) == 0 {
		return nil
	}
	return f.Contents[0]
}

// Content returns the caption with the given id.
func (f *Frame) Content(id string) (*TextContent, bool) {
	for _, c := range f.Contents {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// Frame returns the frame with the given id.
func (p *Project) Frame(id string) (*Frame, bool) {
	for _, f := range p.Frames {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// Field paths of document objects.
var (
	FrameContents = patch.NewField("contents",
		func(f *Frame) []*TextContent { return f.Contents },
		func(f *Frame, v []*TextContent) { f.Contents = v })

	TextBox = patch.NewRef("box", func(c *TextContent) *sprite.RectangleSprite { return c.Box })

	TextValue = patch.NewField("text",
		func(c *TextContent) string { return c.Text },
		func(c *TextContent, v string) { c.Text = v })

	TextStyleField = patch.NewField("style",
		func(c *TextContent) TextStyle { return c.Style },
		func(c *TextContent, v TextStyle) { c.Style = v })
)

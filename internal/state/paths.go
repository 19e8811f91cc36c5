package state

import (
	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/patch"
	"github.com/memeforge/memeforge/backend-go/internal/sprite"
)

var (
	Frames = patch.NewField("frames",
		func(s *State) []*document.Frame { return s.Frames },
		func(s *State, v []*document.Frame) { s.Frames = v })

	ActiveFrame = patch.NewField("activeFrame",
		func(s *State) *document.Frame { return s.ActiveFrame },
		func(s *State, v *document.Frame) { s.ActiveFrame = v })

	ActiveText = patch.NewField("activeText",
		func(s *State) *document.TextContent { return s.ActiveText },
		func(s *State, v *document.TextContent) { s.ActiveText = v })

	ActiveFrameRef = patch.NewRef("activeFrame", func(s *State) *document.Frame { return s.ActiveFrame })
	ActiveTextRef  = patch.NewRef("activeText", func(s *State) *document.TextContent { return s.ActiveText })

	// ActiveBox is the box of the active text: ["activeText", "box"].
	ActiveBox = patch.Chain(ActiveTextRef, document.TextBox)
)

// Box wraps a box patch so it targets the active text's box.
func Box(p patch.Patch[sprite.RectangleSprite]) Diff {
	return patch.Nest(ActiveBox, p)
}

// frameRef pins a frame object under the "frames" path.
func frameRef(f *document.Frame) patch.Ref[State, document.Frame] {
	return patch.NewRef("frames", func(*State) *document.Frame { return f })
}

// contentRef pins a text content of f under ["frames", "contents"].
func contentRef(f *document.Frame, c *document.TextContent) patch.Ref[State, document.TextContent] {
	inner := patch.NewRef("contents", func(*document.Frame) *document.TextContent { return c })
	return patch.Chain(frameRef(f), inner)
}

func inFrame(f *document.Frame, p patch.Patch[document.Frame]) Diff {
	return patch.Nest(frameRef(f), p)
}

func inContent(f *document.Frame, c *document.TextContent, p patch.Patch[document.TextContent]) Diff {
	return patch.Nest(contentRef(f, c), p)
}

func batch(patches ...Diff) Diff {
	return patch.NewBatch(patches...)
}

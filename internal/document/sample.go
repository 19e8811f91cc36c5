package document

import "github.com/memeforge/memeforge/backend-go/internal/typeid"

// NewSampleProject returns a two-frame project used when no snapshot exists.
func NewSampleProject(projectID string) *Project {
	first := NewFrame("/assets/sample/drake-no.png", 1280, 720)
	first.Main().Text = "writing undo by hand"

	second := NewFrame("/assets/sample/drake-yes.png", 1280, 720)
	second.Main().Text = "self-inverting patches"
	caption := second.NewText("ctrl+z")
	caption.Box.SetX(960)
	caption.Box.SetY(180)
	caption.Box.SetRotation(-0.2)
	second.Contents = append(second.Contents, caption)

	return &Project{
		ID:     projectID,
		Name:   "Untitled",
		Frames: []*Frame{first, second},
	}
}

// NewEmptyProject creates a project with one blank frame.
func NewEmptyProject(name string, width, height int) *Project {
	return &Project{
		ID:     typeid.NewProjectID(),
		Name:   name,
		Frames: []*Frame{NewFrame("", width, height)},
	}
}

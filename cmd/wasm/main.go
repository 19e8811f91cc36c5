//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/memeforge/memeforge/backend-go/internal/document"
	"github.com/memeforge/memeforge/backend-go/internal/engine"
	"github.com/memeforge/memeforge/backend-go/internal/render"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.Options{})

	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadProject", js.FuncOf(loadProject))
	api.Set("loadSampleProject", js.FuncOf(loadSampleProject))
	api.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	api.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	api.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	api.Set("forceDrop", js.FuncOf(func(js.Value, []js.Value) any { eng.ForceDrop(); return nil }))
	api.Set("setModifiers", js.FuncOf(setModifiers))
	api.Set("setScale", js.FuncOf(setScale))
	api.Set("undo", js.FuncOf(func(js.Value, []js.Value) any { eng.Undo(); return nil }))
	api.Set("redo", js.FuncOf(func(js.Value, []js.Value) any { eng.Redo(); return nil }))
	api.Set("selectFrame", js.FuncOf(byID(eng.SelectFrame)))
	api.Set("selectText", js.FuncOf(byID(eng.SelectText)))
	api.Set("removeFrame", js.FuncOf(byID(eng.RemoveFrame)))
	api.Set("removeText", js.FuncOf(byID(eng.RemoveText)))
	api.Set("shiftFrame", js.FuncOf(shift(eng.ShiftFrame)))
	api.Set("shiftText", js.FuncOf(shift(eng.ShiftText)))
	api.Set("addFrame", js.FuncOf(addFrame))
	api.Set("addText", js.FuncOf(addText))
	api.Set("setText", js.FuncOf(setText))
	api.Set("setStyle", js.FuncOf(setStyle))

	// --- Queries (frontend ← backend) ---
	api.Set("tick", js.FuncOf(tick))
	api.Set("render", js.FuncOf(renderCommands))
	api.Set("getStatus", js.FuncOf(func(js.Value, []js.Value) any { return js.ValueOf(eng.StatusJSON()) }))
	api.Set("getProject", js.FuncOf(getProject))

	js.Global().Set("memeforgeEngine", api)
	js.Global().Set("memeforgeWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func missing(what string) any {
	return js.ValueOf(map[string]any{"error": "missing " + what})
}

func loadProject(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("project JSON")
	}
	return result(eng.LoadJSON([]byte(args[0].String())))
}

func loadSampleProject(this js.Value, args []js.Value) any {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}
	eng.LoadSample(projectID)
	return result(nil)
}

func pointer(fn func(x, y float64)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return nil
		}
		fn(args[0].Float(), args[1].Float())
		return nil
	}
}

func setModifiers(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.SetModifiers(args[0].Truthy(), args[1].Truthy())
	return nil
}

func setScale(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	eng.SetScale(args[0].Float())
	return nil
}

func byID(fn func(id string) error) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 1 {
			return missing("id")
		}
		return result(fn(args[0].String()))
	}
}

func shift(fn func(id string, dir int) error) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 2 {
			return missing("id or direction")
		}
		return result(fn(args[0].String(), args[1].Int()))
	}
}

func created(id string, err error) any {
	if err != nil {
		return result(err)
	}
	return js.ValueOf(map[string]any{"ok": true, "id": id})
}

func addFrame(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return missing("image or size")
	}
	return created(eng.AddFrame(args[0].String(), args[1].Int(), args[2].Int()))
}

func addText(this js.Value, args []js.Value) any {
	text := ""
	if len(args) > 0 && args[0].Type() == js.TypeString {
		text = args[0].String()
	}
	return created(eng.AddText(text))
}

func setText(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return missing("id or text")
	}
	return result(eng.SetText(args[0].String(), args[1].String()))
}

func setStyle(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return missing("id or style JSON")
	}
	var style document.TextStyle
	if err := json.Unmarshal([]byte(args[1].String()), &style); err != nil {
		return result(err)
	}
	return result(eng.SetStyle(args[0].String(), style))
}

func tick(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.Tick())
	if err != nil {
		return js.ValueOf(`{"commands":[],"operations":[]}`)
	}
	return js.ValueOf(string(data))
}

func renderCommands(this js.Value, args []js.Value) any {
	data, err := render.ToJSON(eng.Render())
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(data)
}

func getProject(this js.Value, args []js.Value) any {
	p, err := eng.Project()
	if err != nil {
		return js.ValueOf("null")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return js.ValueOf("null")
	}
	return js.ValueOf(string(data))
}

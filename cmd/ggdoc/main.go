// Command ggdoc runs a short editing session against a ggdoc workspace and
// writes the flattened result, so history behavior can be checked by eye.
//
// It paints a red square, selects and moves it, paints a blue square, then
// undoes and redoes according to the flags before saving.
package main

import (
	"context"
	"flag"
	"image"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/ggdoc"
	"github.com/gogpu/ggdoc/actions"
	"github.com/gogpu/ggdoc/tools"
)

func main() {
	var (
		size    = flag.Int("size", 20, "canvas width and height")
		undo    = flag.Int("undo", 1, "steps to undo after editing")
		redo    = flag.Int("redo", 0, "steps to redo after undoing")
		config  = flag.String("config", "", "YAML config file")
		output  = flag.String("output", "ggdoc.png", "output file")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	ggdoc.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := ggdoc.DefaultConfig()
	if *config != "" {
		var err error
		if cfg, err = ggdoc.LoadConfig(*config); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	doc, err := ggdoc.NewDocument(*size, *size)
	if err != nil {
		log.Fatalf("Failed to create document: %v", err)
	}
	ws := ggdoc.NewWorkspace(doc, ggdoc.WithConfig(cfg))
	defer ws.Close()
	tools.Register(ws)

	if err := session(ws, *size); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
	for i := 0; i < *undo; i++ {
		if err := actions.Undo(ws); err != nil {
			log.Fatalf("Undo failed: %v", err)
		}
	}
	for i := 0; i < *redo; i++ {
		if err := actions.Redo(ws); err != nil {
			log.Fatalf("Redo failed: %v", err)
		}
	}

	out := ggdoc.NewPixmap(ws.Document().Width(), ws.Document().Height())
	ws.Document().Flatten(out)
	if err := out.SavePNG(*output); err != nil {
		log.Fatalf("Failed to save: %v", err)
	}
	log.Printf("Saved %s (%d undo entries, %d redo entries)\n",
		*output, len(ws.History().UndoStack()), len(ws.History().RedoStack()))
}

func session(ws *ggdoc.Workspace, size int) error {
	if err := actions.AddLayer(ws, "Background"); err != nil {
		return err
	}
	if _, err := actions.FillSelection(context.Background(), ws, ggdoc.White); err != nil {
		return err
	}

	q := size / 4
	if err := ws.SetTool(tools.RectangleName); err != nil {
		return err
	}
	rect := ws.ActiveTool().(*tools.RectangleTool)
	rect.Color = ggdoc.Red
	if err := rect.MouseDown(image.Pt(q, q)); err != nil {
		return err
	}
	if err := rect.MouseUp(image.Pt(2*q, 2*q)); err != nil {
		return err
	}

	if err := actions.SelectRect(ws, ggdoc.RectFrom(image.Rect(q, q, 2*q, 2*q)), ggdoc.CombineReplace); err != nil {
		return err
	}
	if err := ws.SetTool(tools.MoveName); err != nil {
		return err
	}
	move := ws.ActiveTool().(*tools.MoveTool)
	if err := move.BeginDrag(); err != nil {
		return err
	}
	for i := 1; i <= q; i++ {
		if err := move.Drag(ggdoc.Translate(float64(i), float64(i))); err != nil {
			return err
		}
	}
	if err := move.EndDrag(); err != nil {
		return err
	}
	if err := move.Finish(); err != nil {
		return err
	}
	if err := actions.Deselect(ws); err != nil {
		return err
	}

	if err := ws.SetTool(tools.RectangleName); err != nil {
		return err
	}
	rect = ws.ActiveTool().(*tools.RectangleTool)
	rect.Color = ggdoc.Blue
	if err := rect.MouseDown(image.Pt(0, 3*q)); err != nil {
		return err
	}
	return rect.MouseUp(image.Pt(q, size))
}

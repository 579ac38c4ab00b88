package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/chazu/floorplan/pkg/engine"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/kernel/sdfx"
	"github.com/chazu/floorplan/pkg/render"
	"github.com/chazu/floorplan/pkg/scene"
	"github.com/chazu/floorplan/pkg/tessellate"
	"github.com/chazu/floorplan/pkg/workspace"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	drawables bool
	meshes    bool
	cells     int
}

// runOutput is the JSON document printed by `floorplan run`.
type runOutput struct {
	State      workspace.State   `json:"state"`
	Dispatched int               `json:"dispatched"`
	Changed    int               `json:"changed"`
	Findings   []string          `json:"findings,omitempty"`
	Drawables  []render.Drawable `json:"drawables,omitempty"`
	Meshes     []*kernel.Mesh    `json:"meshes,omitempty"`
	MeshCells  int               `json:"meshCells,omitempty"`
}

func newRunCmd(root *rootOptions) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run <script|->",
		Short: "Evaluate a session script and print the resulting workspace",
		Long: `Evaluate a session script, dispatch every action it produces into a
fresh workspace, and print the final state as JSON.

Builtins:
  (vec3 x y z)  (tool :edit)  (element :wall)  (edit-mode :select)
  (toggle-view)  (cancel)  (undo)  (redo)
  (click p [:on id|:hit])  (hover p)
  (drag-start p :on id|:hit)  (drag-move p)  (drag-end)
  (place :box p...)  (wall p1 p2 p3...)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			out, err := runScript(root, f, src)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&f.drawables, "drawables", false, "include the render tree")
	cmd.Flags().BoolVar(&f.meshes, "meshes", false, "include triangle meshes")
	cmd.Flags().IntVar(&f.cells, "cells", 0, "mesh resolution (default: render.meshCells)")
	return cmd
}

func readScript(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(data), nil
}

func runScript(root *rootOptions, f *runFlags, src string) (*runOutput, error) {
	log := root.log
	eng := engine.NewEngine(
		engine.WithTimeout(root.cfg.ScriptTimeout()),
		engine.WithLogger(log.Named("engine")),
	)
	actions, evalErrs, err := eng.Evaluate(src)
	if err != nil {
		return nil, fmt.Errorf("script: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			log.Error("script error", zap.Int("line", e.Line), zap.String("message", e.Message))
		}
		return nil, fmt.Errorf("script: %w", evalErrs[0])
	}

	w := workspace.New(root.cfg.WorkspaceOptions(log.Named("workspace")))
	out := &runOutput{Dispatched: len(actions)}
	for _, a := range actions {
		if w.Dispatch(a) {
			out.Changed++
		}
	}
	out.State = w.State()

	for _, finding := range scene.Validate(out.State.Objects) {
		out.Findings = append(out.Findings, finding.Error())
	}

	if f.drawables || f.meshes {
		drawables := append(render.Build(out.State.Objects), render.Overlay(out.State.Draft)...)
		if f.drawables {
			out.Drawables = drawables
		}
		if f.meshes {
			cells := f.cells
			if cells <= 0 {
				cells = root.cfg.Render.MeshCells
			}
			k := sdfx.New(cells)
			log.Debug("tessellating", zap.Int("drawables", len(drawables)), zap.Int("cells", k.Cells()))
			meshes, err := tessellate.Tessellate(drawables, k)
			if err != nil {
				return nil, err
			}
			out.Meshes, out.MeshCells = meshes, k.Cells()
		}
	}
	return out, nil
}

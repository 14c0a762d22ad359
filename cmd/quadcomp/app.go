package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/internal/framefile"
	"github.com/gogpu/compositor/output"
	"github.com/gogpu/compositor/renderer"
	"github.com/gogpu/compositor/renderpass"
	"github.com/gogpu/compositor/resource"
)

// app renders frame descriptions into PNG files. The renderer, its
// resources and the retained pass cache live across re-renders.
type app struct {
	out    string
	dev    *output.SoftwareDevice
	res    *resource.Provider
	passes *renderpass.Cache
	r      *renderer.SoftwareRenderer

	// presented is the last frame the device handed to the presenter.
	presented output.FrameID
}

func newApp(settings compositor.Settings, out string) (*app, error) {
	a := &app{
		out: out,
		res: resource.NewProvider(resource.WithSettings(settings)),
	}
	a.dev = output.NewSoftwareDevice(1, 1, output.WithPresenter(output.PresenterFunc(a.present)))
	a.passes = renderpass.NewCache(0, a.res)

	r, err := renderer.New(settings, a.dev, a.res, a.passes)
	if err != nil {
		return nil, err
	}
	a.r = r
	return a, nil
}

// render draws the description at path and writes the PNG.
func (a *app) render(ctx context.Context, path string) error {
	f, err := framefile.Load(path)
	if err != nil {
		return err
	}
	size, err := f.OutputSize()
	if err != nil {
		return err
	}
	a.dev.Resize(size.X, size.Y)

	scene, err := f.Build(a.res, a.writeCopy)
	if err != nil {
		return err
	}
	defer func() {
		if err := scene.Release(); err != nil {
			compositor.Logger().Warn("quadcomp: release resources", "err", err)
		}
	}()

	if !a.r.DrawFrame(ctx, scene.Passes) {
		return errors.New("frame not drawn")
	}
	if !a.r.SwapBuffers() {
		return errors.New("frame not presented")
	}
	a.r.ReceiveSwapBuffersAck(output.CompositorFrameAck{LastSoftwareFrameID: a.presented})

	stats := a.r.Stats()
	compositor.Logger().Info("quadcomp: rendered",
		"frame", path, "out", a.out, "passes", stats.Passes, "quads", stats.Quads,
		"skipped", stats.Skipped, "fallbacks", stats.Fallbacks, "elapsed", stats.Elapsed)
	return nil
}

func (a *app) present(frame *output.CompositorFrame) error {
	a.presented = frame.Software.ID
	return writePNG(a.out, frame.Software.Pixels)
}

// writeCopy saves a copy request result next to the output file as
// <out>-<name>.png.
func (a *app) writeCopy(name string, img *image.RGBA) {
	if img == nil {
		compositor.Logger().Warn("quadcomp: copy request produced no pixels", "name", name)
		return
	}
	path := strings.TrimSuffix(a.out, filepath.Ext(a.out)) + "-" + name + ".png"
	if err := writePNG(path, img); err != nil {
		compositor.Logger().Warn("quadcomp: write copy", "name", name, "err", err)
	}
}

// watch re-renders path whenever it is written until ctx is done.
// Editors often replace files instead of writing them, so the directory
// is watched rather than the file.
func (a *app) watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	compositor.Logger().Info("quadcomp: watching", "frame", abs)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			if err := a.render(ctx, abs); err != nil {
				compositor.Logger().Warn("quadcomp: render failed", "frame", abs, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			compositor.Logger().Warn("quadcomp: watch error", "err", err)
		}
	}
}

// Close releases the device and cached passes.
func (a *app) Close() error {
	a.passes.Clear()
	return a.dev.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // path is user-provided output
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

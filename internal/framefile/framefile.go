// Package framefile reads YAML frame descriptions: the render passes of
// one frame and the quads they contain. Images referenced by quads are
// loaded relative to the description file.
//
// A minimal description:
//
//	size: [256, 256]
//	passes:
//	  - id: "1"
//	    rect: [0, 0, 256, 256]
//	    quads:
//	      - material: SolidColor
//	        rect: [16, 16, 128, 128]
//	        color: "#ff0000"
package framefile

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder
	"gopkg.in/yaml.v3"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/filter"
	"github.com/gogpu/compositor/output"
	"github.com/gogpu/compositor/picture"
	"github.com/gogpu/compositor/quad"
	"github.com/gogpu/compositor/renderpass"
	"github.com/gogpu/compositor/resource"
)

// Frame is a parsed frame description.
type Frame struct {
	// Size is the output size in pixels.
	Size []int `yaml:"size"`

	// DeviceScaleFactor is reported in frame metadata. Zero means 1.
	DeviceScaleFactor float64 `yaml:"device_scale_factor"`

	// Passes are in dependency order, root pass last.
	Passes []Pass `yaml:"passes"`

	// dir resolves relative image paths.
	dir string
}

// Pass describes one render pass.
type Pass struct {
	ID          string `yaml:"id"`
	Rect        Rect   `yaml:"rect"`
	Damage      Rect   `yaml:"damage"`
	Transparent bool   `yaml:"transparent"`
	Quads       []Quad `yaml:"quads"`
	Copies      []Copy `yaml:"copies"`
}

// Copy asks for the pass pixels once it is drawn.
type Copy struct {
	Name string `yaml:"name"`
	Area Rect   `yaml:"area"`
	Size []int  `yaml:"size"`
}

// Quad describes one quad. Which fields apply depends on Material.
type Quad struct {
	Material string   `yaml:"material"`
	Rect     Rect     `yaml:"rect"`
	Opaque   Rect     `yaml:"opaque"`
	Visible  Rect     `yaml:"visible"`
	Opacity  *float64 `yaml:"opacity"`
	Blend    bool     `yaml:"blend"`
	Edges    []string `yaml:"edges"`

	Transform Transform `yaml:"transform"`

	// SolidColor, Checkerboard, DebugBorder.
	Color string  `yaml:"color"`
	Width float64 `yaml:"width"`

	// TextureContent and TiledContent.
	Image      string    `yaml:"image"`
	UV         []float64 `yaml:"uv"`
	TexCoords  []float64 `yaml:"tex_coords"`
	Flipped    bool      `yaml:"flipped"`
	Background string    `yaml:"background"`

	// RenderPass.
	Pass              string    `yaml:"pass"`
	Mask              string    `yaml:"mask"`
	MaskUV            []float64 `yaml:"mask_uv"`
	Filters           []Filter  `yaml:"filters"`
	BackgroundFilters []Filter  `yaml:"background_filters"`

	// PictureContent.
	Picture []Draw  `yaml:"picture"`
	Scale   float64 `yaml:"scale"`

	// Unsupported.
	Kind string `yaml:"kind"`
}

// Transform is applied as translate, then rotate, then scale.
type Transform struct {
	Translate []float64 `yaml:"translate"`
	Rotate    float64   `yaml:"rotate"` // degrees
	Scale     []float64 `yaml:"scale"`
}

// Filter is one filter operation, such as {kind: blur, amount: 2}.
type Filter struct {
	Kind   string  `yaml:"kind"`
	Amount float64 `yaml:"amount"`
}

// Draw is one recorded picture operation. Exactly one of Fill and Stroke
// is set.
type Draw struct {
	Fill   Rect        `yaml:"fill"`
	Stroke [][]float64 `yaml:"stroke"`
	Width  float64     `yaml:"width"`
	Color  string      `yaml:"color"`
}

// Rect is [x, y, width, height].
type Rect []int

// rect converts r, returning def when r is unset.
func (r Rect) rect(def image.Rectangle) (image.Rectangle, error) {
	if r == nil {
		return def, nil
	}
	if len(r) != 4 {
		return image.Rectangle{}, fmt.Errorf("rect %v: want [x, y, width, height]", []int(r))
	}
	if r[2] < 0 || r[3] < 0 {
		return image.Rectangle{}, fmt.Errorf("rect %v: negative size", []int(r))
	}
	return image.Rect(r[0], r[1], r[0]+r[2], r[1]+r[3]), nil
}

// Parse decodes a frame description. Unknown fields are rejected.
func Parse(data []byte) (*Frame, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Frame
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("framefile: %w", err)
	}
	if _, err := f.OutputSize(); err != nil {
		return nil, err
	}
	if len(f.Passes) == 0 {
		return nil, errors.New("framefile: no passes")
	}
	return &f, nil
}

// Load reads and parses the description at path.
func Load(path string) (*Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("framefile: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.dir = filepath.Dir(path)
	return f, nil
}

// OutputSize returns the output size.
func (f *Frame) OutputSize() (image.Point, error) {
	if len(f.Size) != 2 || f.Size[0] <= 0 || f.Size[1] <= 0 {
		return image.Point{}, fmt.Errorf("framefile: size %v: want [width, height]", f.Size)
	}
	return image.Pt(f.Size[0], f.Size[1]), nil
}

// Scale returns the device scale factor.
func (f *Frame) Scale() float64 {
	if f.DeviceScaleFactor <= 0 {
		return 1
	}
	return f.DeviceScaleFactor
}

// CopyFunc receives the result of a copy request named in the description.
// img is nil when the copy could not be made.
type CopyFunc func(name string, img *image.RGBA)

// Scene is a built frame: its passes and the resources they draw from.
type Scene struct {
	Passes    []*renderpass.Pass
	Resources []resource.ID

	res *resource.Provider
}

// Release deletes the scene's resources.
func (s *Scene) Release() error {
	var errs []error
	for _, id := range s.Resources {
		if err := s.res.Delete(id); err != nil {
			errs = append(errs, err)
		}
	}
	s.Resources = nil
	return errors.Join(errs...)
}

// builder carries the state of one Build.
type builder struct {
	frame  *Frame
	res    *resource.Provider
	onCopy CopyFunc
	scene  *Scene
	images map[string]resource.ID
	passes map[quad.PassID]bool
}

// Build turns the description into render passes, loading images into
// res. onCopy may be nil when the description has no copies.
func (f *Frame) Build(res *resource.Provider, onCopy CopyFunc) (*Scene, error) {
	b := &builder{
		frame:  f,
		res:    res,
		onCopy: onCopy,
		scene:  &Scene{res: res},
		images: make(map[string]resource.ID),
		passes: make(map[quad.PassID]bool),
	}
	for i := range f.Passes {
		pass, err := b.pass(&f.Passes[i])
		if err != nil {
			_ = b.scene.Release()
			return nil, fmt.Errorf("framefile: pass %d: %w", i, err)
		}
		b.scene.Passes = append(b.scene.Passes, pass)
	}
	return b.scene, nil
}

func (b *builder) pass(p *Pass) (*renderpass.Pass, error) {
	id, err := ParsePassID(p.ID)
	if err != nil {
		return nil, err
	}
	if b.passes[id] {
		return nil, fmt.Errorf("duplicate pass %v", id)
	}

	out := &renderpass.Pass{
		ID:                       id,
		HasTransparentBackground: p.Transparent,
		TransformToRootTarget:    compositor.IdentityTransform(),
	}
	size, _ := b.frame.OutputSize()
	if out.OutputRect, err = p.Rect.rect(image.Rectangle{Max: size}); err != nil {
		return nil, err
	}
	damage, err := p.Damage.rect(image.Rectangle{})
	if err != nil {
		return nil, err
	}
	out.DamageRect = compositor.RectFromImage(damage)

	for i := range p.Quads {
		q, err := b.quad(&p.Quads[i])
		if err != nil {
			return nil, fmt.Errorf("quad %d: %w", i, err)
		}
		out.Quads = append(out.Quads, q)
	}
	for i := range p.Copies {
		req, err := b.copyRequest(&p.Copies[i])
		if err != nil {
			return nil, fmt.Errorf("copy %d: %w", i, err)
		}
		out.CopyRequests = append(out.CopyRequests, req)
	}
	b.passes[id] = true
	return out, nil
}

func (b *builder) copyRequest(c *Copy) (*output.CopyRequest, error) {
	name := c.Name
	onCopy := b.onCopy
	var opts []output.CopyOption
	if c.Area != nil {
		area, err := c.Area.rect(image.Rectangle{})
		if err != nil {
			return nil, err
		}
		opts = append(opts, output.WithArea(area))
	}
	if c.Size != nil {
		if len(c.Size) != 2 {
			return nil, fmt.Errorf("size %v: want [width, height]", c.Size)
		}
		opts = append(opts, output.WithScale(c.Size[0], c.Size[1]))
	}
	return output.NewCopyRequest(func(img *image.RGBA) {
		if onCopy != nil {
			onCopy(name, img)
		}
	}, opts...), nil
}

func (b *builder) quad(d *Quad) (quad.Quad, error) {
	material, err := quad.ParseMaterial(d.Material)
	if err != nil {
		return quad.Quad{}, err
	}
	q := quad.Quad{
		Opacity:       1,
		NeedsBlending: d.Blend,
		Transform:     d.Transform.transform(),
	}
	if q.Rect, err = d.Rect.rect(image.Rectangle{}); err != nil {
		return q, err
	}
	if q.Rect.Empty() {
		return q, errors.New("empty rect")
	}
	if q.OpaqueRect, err = d.Opaque.rect(q.Rect); err != nil {
		return q, err
	}
	if q.VisibleRect, err = d.Visible.rect(q.Rect); err != nil {
		return q, err
	}
	if d.Opacity != nil {
		q.Opacity = *d.Opacity
	}
	if q.Edges, err = parseEdges(d.Edges); err != nil {
		return q, err
	}

	q.Payload, err = b.payload(material, d, q.Rect)
	return q, err
}

func (b *builder) payload(m quad.Material, d *Quad, rect image.Rectangle) (quad.Payload, error) {
	switch m {
	case quad.Checkerboard:
		c, err := parseColor(d.Color, compositor.White)
		return quad.CheckerboardPayload{Color: c}, err

	case quad.DebugBorder:
		c, err := parseColor(d.Color, compositor.Magenta)
		return quad.DebugBorderPayload{Color: c, Width: max(d.Width, 1)}, err

	case quad.SolidColor:
		c, err := parseColor(d.Color, compositor.Transparent)
		return quad.SolidColorPayload{Color: c}, err

	case quad.TextureContent:
		id, _, err := b.image(d.Image)
		if err != nil {
			return nil, err
		}
		uv, err := floatRect(d.UV, compositor.RectF{W: 1, H: 1})
		if err != nil {
			return nil, fmt.Errorf("uv: %w", err)
		}
		bg, err := parseColor(d.Background, compositor.Transparent)
		if err != nil {
			return nil, err
		}
		return quad.TexturePayload{
			Resource:           id,
			PremultipliedAlpha: true,
			UVTopLeft:          compositor.Pt(uv.X, uv.Y),
			UVBottomRight:      compositor.Pt(uv.Right(), uv.Bottom()),
			VertexOpacity:      [4]float64{1, 1, 1, 1},
			Flipped:            d.Flipped,
			Background:         bg,
		}, nil

	case quad.TiledContent:
		id, size, err := b.image(d.Image)
		if err != nil {
			return nil, err
		}
		tex, err := floatRect(d.TexCoords, compositor.RectF{W: float64(size.X), H: float64(size.Y)})
		if err != nil {
			return nil, fmt.Errorf("tex_coords: %w", err)
		}
		return quad.TilePayload{Resource: id, TexCoordRect: tex, TextureSize: size}, nil

	case quad.RenderPass:
		return b.renderPass(d)

	case quad.PictureContent:
		return b.picture(d, rect)

	case quad.Unsupported:
		return quad.UnsupportedPayload{Kind: d.Kind}, nil
	}
	return nil, fmt.Errorf("material %v not supported in frame files", m)
}

func (b *builder) renderPass(d *Quad) (quad.Payload, error) {
	id, err := ParsePassID(d.Pass)
	if err != nil {
		return nil, err
	}
	if !b.passes[id] {
		return nil, fmt.Errorf("pass %v is not drawn before it is used", id)
	}
	p := quad.RenderPassPayload{PassID: id}
	if d.Mask != "" {
		if p.MaskResource, _, err = b.image(d.Mask); err != nil {
			return nil, err
		}
		if p.MaskUVRect, err = floatRect(d.MaskUV, compositor.RectF{W: 1, H: 1}); err != nil {
			return nil, fmt.Errorf("mask_uv: %w", err)
		}
	}
	if p.Filters, err = parseFilters(d.Filters); err != nil {
		return nil, err
	}
	if p.BackgroundFilters, err = parseFilters(d.BackgroundFilters); err != nil {
		return nil, err
	}
	return p, nil
}

// picture records d.Picture in quad-local space. The quad is rasterized
// at d.Scale content pixels per local unit.
func (b *builder) picture(d *Quad, rect image.Rectangle) (quad.Payload, error) {
	scale := d.Scale
	if scale <= 0 {
		scale = 1
	}
	content := image.Rect(
		int(math.Floor(float64(rect.Min.X)*scale)), int(math.Floor(float64(rect.Min.Y)*scale)),
		int(math.Ceil(float64(rect.Max.X)*scale)), int(math.Ceil(float64(rect.Max.Y)*scale)))
	size := content.Size()

	rec := picture.NewRecorder(compositor.RectFromImage(rect))
	for i, op := range d.Picture {
		c, err := parseColor(op.Color, compositor.White)
		if err != nil {
			return nil, fmt.Errorf("picture %d: %w", i, err)
		}
		switch {
		case op.Fill != nil:
			r, err := op.Fill.rect(image.Rectangle{})
			if err != nil {
				return nil, fmt.Errorf("picture %d: %w", i, err)
			}
			rec.FillRect(compositor.RectFromImage(r), c)
		case op.Stroke != nil:
			pts := make([]compositor.Point, 0, len(op.Stroke))
			for _, xy := range op.Stroke {
				if len(xy) != 2 {
					return nil, fmt.Errorf("picture %d: point %v: want [x, y]", i, xy)
				}
				pts = append(pts, compositor.Pt(xy[0], xy[1]))
			}
			rec.StrokePolygon(pts, c, max(op.Width, 1))
		default:
			return nil, fmt.Errorf("picture %d: want fill or stroke", i)
		}
	}
	return quad.PicturePayload{
		Picture:       rec.FinishRecording(),
		TexCoordRect:  compositor.RectF{W: float64(size.X), H: float64(size.Y)},
		TextureSize:   size,
		ContentRect:   content,
		ContentsScale: scale,
	}, nil
}

// image loads path into a bitmap resource. Each file is loaded once per
// Build.
func (b *builder) image(path string) (resource.ID, image.Point, error) {
	if path == "" {
		return 0, image.Point{}, errors.New("missing image")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.frame.dir, path)
	}
	if id, ok := b.images[path]; ok {
		size, err := b.res.Size(id)
		return id, size, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, image.Point{}, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return 0, image.Point{}, fmt.Errorf("%s: %w", path, err)
	}
	id, err := b.res.CreateBitmapFromImage(img)
	if err != nil {
		return 0, image.Point{}, fmt.Errorf("%s: %w", path, err)
	}
	b.images[path] = id
	b.scene.Resources = append(b.scene.Resources, id)
	return id, img.Bounds().Size(), nil
}

func (t Transform) transform() compositor.Transform {
	m := compositor.IdentityTransform()
	if len(t.Translate) == 2 {
		m = m.Translate(t.Translate[0], t.Translate[1])
	}
	if t.Rotate != 0 {
		m = m.Multiply(compositor.FromMatrix(compositor.Rotate(t.Rotate * math.Pi / 180)))
	}
	if len(t.Scale) == 2 {
		m = m.Scale(t.Scale[0], t.Scale[1])
	}
	return m
}

// ParsePassID parses "layer" or "layer.index".
func ParsePassID(s string) (quad.PassID, error) {
	layer, index, found := strings.Cut(strings.TrimSpace(s), ".")
	l, err := strconv.Atoi(layer)
	if err != nil {
		return quad.PassID{}, fmt.Errorf("pass id %q: %w", s, err)
	}
	id := quad.PassID{Layer: l}
	if found {
		if id.Index, err = strconv.Atoi(index); err != nil {
			return quad.PassID{}, fmt.Errorf("pass id %q: %w", s, err)
		}
	}
	return id, nil
}

var edgeNames = map[string]quad.Edges{
	"top":    quad.EdgeTop,
	"left":   quad.EdgeLeft,
	"bottom": quad.EdgeBottom,
	"right":  quad.EdgeRight,
}

// parseEdges returns AllEdges when names is unset.
func parseEdges(names []string) (quad.Edges, error) {
	if names == nil {
		return quad.AllEdges, nil
	}
	var edges quad.Edges
	for _, name := range names {
		e, ok := edgeNames[strings.ToLower(name)]
		if !ok {
			return 0, fmt.Errorf("unknown edge %q", name)
		}
		edges |= e
	}
	return edges, nil
}

func parseFilters(fs []Filter) (filter.Operations, error) {
	var ops filter.Operations
	for _, f := range fs {
		kind, err := filter.ParseKind(f.Kind)
		if err != nil {
			return nil, err
		}
		ops = append(ops, filter.Op{Kind: kind, Amount: f.Amount})
	}
	return ops, nil
}

func parseColor(s string, def color.NRGBA) (color.NRGBA, error) {
	if s == "" {
		return def, nil
	}
	return compositor.ParseHexColor(s)
}

// floatRect converts [x, y, width, height], returning def when v is unset.
func floatRect(v []float64, def compositor.RectF) (compositor.RectF, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 4 {
		return compositor.RectF{}, fmt.Errorf("%v: want [x, y, width, height]", v)
	}
	return compositor.RectF{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}

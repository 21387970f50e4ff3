package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-scene/internal/engine/lighting"
	"github.com/Faultbox/midgard-scene/internal/engine/texture"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/query"
	"github.com/Faultbox/midgard-scene/pkg/scene"
	"github.com/Faultbox/midgard-scene/pkg/spatial"
)

func cmdInfo(t *tool, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: daetool info <file.dae>...")
	}
	for i, name := range args {
		if i > 0 {
			fmt.Fprintln(t.out)
		}
		if err := t.info(name); err != nil {
			return err
		}
	}
	if !t.cfg.Library.Watch {
		return nil
	}
	return t.follow()
}

// follow reprints info for every document that changes on disk until the
// context is cancelled.
func (t *tool) follow() error {
	if err := t.mgr.Watch(); err != nil {
		return fmt.Errorf("watching roots: %w", err)
	}
	fmt.Fprintln(t.out, "\nWatching for changes, press Ctrl+C to stop")
	for {
		select {
		case <-t.ctx.Done():
			return nil
		case path := <-t.changed:
			fmt.Fprintf(t.out, "\nChanged: %s\n", path)
			if err := t.info(path); err != nil {
				logger.Warn("reload failed", zap.String("document", path), zap.Error(err))
			}
		}
	}
}

type summary struct {
	kinds      map[scene.Kind]int
	primitives int
	triangles  int
	vertices   int
	materials  map[string]bool
}

func summarize(root *scene.Node) summary {
	s := summary{kinds: make(map[scene.Kind]int), materials: make(map[string]bool)}
	root.Walk(func(n *scene.Node) bool {
		s.kinds[n.Kind]++
		if n.Geometry == nil {
			return true
		}
		s.triangles += n.Geometry.TriangleCount()
		s.vertices += n.Geometry.VertexCount()
		for _, p := range n.Geometry.Primitives {
			s.primitives++
			if p.Material != nil {
				s.materials[p.Material.ID] = true
			}
		}
		return true
	})
	return s
}

func (t *tool) info(name string) error {
	path, err := t.mgr.Resolve(name)
	if err != nil {
		return err
	}
	doc, err := t.mgr.Document(path)
	if err != nil {
		return err
	}

	s := summarize(doc.Root)
	fmt.Fprintf(t.out, "Document:   %s\n", path)
	fmt.Fprintf(t.out, "Up axis:    %s (%g m per unit)\n", doc.UpAxis, doc.Unit)
	fmt.Fprintf(t.out, "Nodes:      %d (group %d, mesh %d, light %d, camera %d)\n",
		doc.Root.Count(), s.kinds[scene.KindGroup], s.kinds[scene.KindMesh],
		s.kinds[scene.KindLight], s.kinds[scene.KindCamera])
	fmt.Fprintf(t.out, "Primitives: %d\n", s.primitives)
	fmt.Fprintf(t.out, "Triangles:  %d\n", s.triangles)
	fmt.Fprintf(t.out, "Vertices:   %d\n", s.vertices)
	fmt.Fprintf(t.out, "Materials:  %d\n", len(s.materials))

	if textures := doc.TexturePaths(); len(textures) > 0 {
		fmt.Fprintln(t.out, "Textures:")
		for _, p := range textures {
			fmt.Fprintf(t.out, "  %s %s\n", p, textureStatus(p))
		}
	}
	if problems := multierr.Errors(doc.Problems); len(problems) > 0 {
		fmt.Fprintf(t.out, "Problems:   %d\n", len(problems))
		for _, p := range problems {
			fmt.Fprintf(t.out, "  %v\n", p)
		}
	}
	return nil
}

func textureStatus(path string) string {
	info, err := texture.Probe(path)
	switch {
	case err == nil:
		return "(" + info.String() + ")"
	case texture.Missing(err):
		return "(missing)"
	default:
		logger.Debug("texture probe failed", zap.String("texture", path), zap.Error(err))
		return "(unreadable)"
	}
}

func cmdTree(t *tool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: daetool tree <file.dae>")
	}
	root, err := t.mgr.Load(args[0])
	if err != nil {
		return err
	}
	t.printNode(root, 0)
	return nil
}

func (t *tool) printNode(n *scene.Node, depth int) {
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(nodeLabel(n))
	fmt.Fprintf(&b, " (%s)", n.Kind)
	switch {
	case n.Geometry != nil:
		fmt.Fprintf(&b, " %d primitives, %d triangles", len(n.Geometry.Primitives), n.Geometry.TriangleCount())
	case n.Light != nil:
		fmt.Fprintf(&b, " %s light", n.Light.Type)
	case n.CameraID != "":
		fmt.Fprintf(&b, " camera #%s", n.CameraID)
	}
	fmt.Fprintln(t.out, b.String())
	for _, c := range n.Children {
		t.printNode(c, depth+1)
	}
}

func nodeLabel(n *scene.Node) string {
	switch {
	case n.Name != "" && n.ID != "" && n.Name != n.ID:
		return fmt.Sprintf("%s #%s", n.Name, n.ID)
	case n.Name != "":
		return n.Name
	case n.ID != "":
		return "#" + n.ID
	default:
		return "(unnamed)"
	}
}

func cmdLights(t *tool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: daetool lights <file.dae>")
	}
	root, err := t.mgr.Load(args[0])
	if err != nil {
		return err
	}

	lights := lighting.Extract(root)
	if len(lights) == 0 {
		fmt.Fprintln(t.out, "No lights")
		return nil
	}
	for _, l := range lights {
		fmt.Fprintf(t.out, "%-24s %-11s color (%.3g, %.3g, %.3g)", nodeLabel(l.Node), l.Type, l.Color[0], l.Color[1], l.Color[2])
		switch l.Type {
		case scene.LightDirectional:
			fmt.Fprintf(t.out, " direction %s", vec(l.Direction))
		case scene.LightPoint:
			fmt.Fprintf(t.out, " at %s range %s", vec(l.Position), lightRange(l.Range))
		case scene.LightSpot:
			fmt.Fprintf(t.out, " at %s direction %s range %s cone %.3g°", vec(l.Position), vec(l.Direction),
				lightRange(l.Range), 2*l.Falloff*180/math32.Pi)
		}
		fmt.Fprintln(t.out)
	}

	buf := lighting.NewBuffer()
	if dropped := buf.SetLights(lights); dropped > 0 {
		logger.Warn("light limit exceeded", zap.Int("max", lighting.MaxLights), zap.Int("dropped", dropped))
	}
	amb := lighting.Ambient(lights)
	fmt.Fprintf(t.out, "%d lights, %d in buffer, ambient (%.3g, %.3g, %.3g)\n", len(lights), len(buf.Lights), amb[0], amb[1], amb[2])
	return nil
}

func lightRange(r float32) string {
	if r == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%.4g", r)
}

func cmdBounds(t *tool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: daetool bounds <file.dae>")
	}
	root, err := t.mgr.Load(args[0])
	if err != nil {
		return err
	}

	root.Walk(func(n *scene.Node) bool {
		s, ok := n.BoundingSphere()
		if !ok {
			return true
		}
		box, _ := n.BoundingBox()
		lo, hi := box.AABB()
		fmt.Fprintf(t.out, "%-24s sphere %s r=%.4g  box %s .. %s\n",
			nodeLabel(n), vec(s.Center()), s.Radius(), vec(lo), vec(hi))
		return true
	})
	if s, ok := sceneSphere(root); ok {
		fmt.Fprintf(t.out, "%-24s sphere %s r=%.4g\n", "scene", vec(s.Center()), s.Radius())
	}
	return nil
}

func cmdCull(t *tool, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: daetool cull <file.dae>")
	}
	root, err := t.mgr.Load(args[0])
	if err != nil {
		return err
	}

	cam := t.camera(root)
	frustum := spatial.NewFrustum(cam.ViewProjection(t.cfg.View.Aspect()))
	results := query.Cull(&frustum, root)

	visible := 0
	for _, r := range results {
		if r.Visibility == spatial.Inside {
			visible++
		}
		fmt.Fprintf(t.out, "%-8s %s\n", r.Visibility, nodeLabel(r.Node))
	}
	fmt.Fprintf(t.out, "%d of %d mesh nodes visible from %s\n", visible, len(results), vec(cam.Position()))
	return nil
}

func cmdPick(t *tool, args []string) error {
	if len(args) != 3 {
		return errors.New("usage: daetool pick <file.dae> <x> <y>")
	}
	x, err := strconv.ParseFloat(args[1], 32)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[2], err)
	}
	root, err := t.mgr.Load(args[0])
	if err != nil {
		return err
	}

	cam := t.camera(root)
	screen := math.Vec2{X: float32(x), Y: float32(y)}
	hits, err := query.PickScreen(screen, t.viewport(), cam.Projection(t.cfg.View.Aspect()), cam.ViewMatrix(), root, t.cfg.Picking.Precise)
	if err != nil {
		return fmt.Errorf("picking: %w", err)
	}

	if len(hits) == 0 {
		fmt.Fprintln(t.out, "No hits")
		return nil
	}
	mode := "bounding sphere"
	if t.cfg.Picking.Precise {
		mode = "triangle"
	}
	fmt.Fprintf(t.out, "%d hits (%s test):\n", len(hits), mode)
	for i, h := range hits {
		fmt.Fprintf(t.out, "  %2d. %-24s distance %.4g\n", i+1, nodeLabel(h.Node), h.Distance)
	}
	return nil
}

func vec(v math.Vec3) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v.X, v.Y, v.Z)
}

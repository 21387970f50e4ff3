package main

import (
	"context"
	"io"

	"github.com/Faultbox/midgard-scene/internal/assets"
	"github.com/Faultbox/midgard-scene/internal/config"
	"github.com/Faultbox/midgard-scene/internal/engine/camera"
	"github.com/Faultbox/midgard-scene/internal/logger"
	"github.com/Faultbox/midgard-scene/pkg/bounds"
	"github.com/Faultbox/midgard-scene/pkg/math"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// tool carries what every command needs.
type tool struct {
	ctx     context.Context
	cfg     *config.Config
	mgr     *assets.Manager
	out     io.Writer
	changed chan string
}

func newTool(ctx context.Context, cfg *config.Config, out io.Writer) *tool {
	t := &tool{
		ctx:     ctx,
		cfg:     cfg,
		out:     out,
		changed: make(chan string, 16),
	}
	opts := assets.OptionsFromConfig(cfg)
	opts.Logger = logger.Named("assets")
	opts.OnInvalidate = func(path string) {
		select {
		case t.changed <- path:
		default:
		}
	}
	t.mgr = assets.NewManager(opts)
	return t
}

func (t *tool) Close() error {
	return t.mgr.Close()
}

// camera builds the orbit camera from the view settings, framing the whole
// scene unless a distance is configured.
func (t *tool) camera(root *scene.Node) *camera.OrbitCamera {
	v := t.cfg.View
	c := camera.NewOrbitCamera()
	c.FOV = math.DegToRad(v.FOV)
	c.Near = v.Near
	c.Far = v.Far
	c.SetRotation(v.RotationX, v.RotationY)
	if s, ok := sceneSphere(root); ok {
		c.FitToSphere(s.Center(), s.Radius())
	}
	if v.Distance > 0 {
		c.Distance = v.Distance
	}
	return c
}

func (t *tool) viewport() math.Vec2 {
	return math.Vec2{X: float32(t.cfg.View.Width), Y: float32(t.cfg.View.Height)}
}

// sceneSphere merges the bounding spheres of every mesh node under root.
func sceneSphere(root *scene.Node) (bounds.Sphere, bool) {
	var all bounds.Sphere
	found := false
	root.Walk(func(n *scene.Node) bool {
		s, ok := n.BoundingSphere()
		if !ok {
			return true
		}
		if found {
			all = all.Merge(&s)
		} else {
			all, found = s, true
		}
		return true
	})
	return all, found
}

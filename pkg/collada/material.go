package collada

import (
	"path/filepath"
	"strings"

	"github.com/Faultbox/midgard-scene/pkg/encoding"
	"github.com/Faultbox/midgard-scene/pkg/scene"
)

// material resolves a library material id into a scene material. A failure
// is reported once and cached as nil for the rest of the parse.
func (b *builder) material(id string) *scene.Material {
	if m, ok := b.builtMaterials[id]; ok {
		return m
	}
	m, err := b.buildMaterial(id)
	if err != nil {
		b.problem(err)
		m = nil
	}
	b.builtMaterials[id] = m
	return m
}

func (b *builder) buildMaterial(id string) (*scene.Material, error) {
	def, ok := b.materials[id]
	if !ok {
		return nil, unresolved("material", id)
	}
	effectID := fragment(def.InstanceEffect.URL)
	effect, ok := b.effects[effectID]
	if !ok {
		return nil, unresolved("instance_effect", effectID)
	}

	m := scene.DefaultMaterial()
	m.ID = def.ID
	m.Name = def.Name
	m.Effect = effect.ID
	if effect.Profile == nil {
		return m, nil
	}

	technique, shader := effect.Profile.Technique.Shader()
	if shader == nil {
		return m, nil
	}
	m.Technique = technique

	var err error
	channels := []struct {
		src *ColorOrTexture
		dst *scene.Channel
	}{
		{shader.Emission, &m.Emission},
		{shader.Ambient, &m.Ambient},
		{shader.Diffuse, &m.Diffuse},
		{shader.Specular, &m.Specular},
	}
	for _, ch := range channels {
		if ch.src == nil {
			continue
		}
		if err = b.channel(effect, ch.src, ch.dst); err != nil {
			return m, err
		}
	}
	if shader.Shininess != nil && shader.Shininess.Float != nil {
		if m.Shininess, err = parseFloat(shader.Shininess.Float.Text, 0, "shininess", effect.ID); err != nil {
			return m, err
		}
	}
	if shader.Transparency != nil && shader.Transparency.Float != nil {
		if m.Transparency, err = parseFloat(shader.Transparency.Float.Text, 1, "transparency", effect.ID); err != nil {
			return m, err
		}
	}
	return m, nil
}

// channel fills dst from a color or texture element.
func (b *builder) channel(effect *Effect, src *ColorOrTexture, dst *scene.Channel) error {
	if src.Color != nil {
		c, err := parseColor(src.Color.Text, "color", effect.ID)
		if err != nil {
			return err
		}
		dst.Color = c
	}
	if src.Texture != nil {
		image := b.textureImage(effect.Profile, src.Texture.Texture)
		dst.Texture = &scene.TextureRef{
			Image:    image,
			Path:     b.imagePath(image),
			TexCoord: src.Texture.TexCoord,
		}
	}
	return nil
}

// textureImage follows sampler2D to a surface to an image id. A texture
// attribute naming an image directly is accepted as is.
func (b *builder) textureImage(profile *ProfileCommon, sid string) string {
	params := make(map[string]*NewParam, len(profile.NewParams))
	for i := range profile.NewParams {
		params[profile.NewParams[i].SID] = &profile.NewParams[i]
	}

	p, ok := params[sid]
	if !ok || p.Sampler2D == nil {
		return sid
	}
	if inst := p.Sampler2D.InstanceImage; inst != nil {
		return fragment(inst.URL)
	}
	surface, ok := params[strings.TrimSpace(p.Sampler2D.Source)]
	if !ok || surface.Surface == nil {
		return sid
	}
	return strings.TrimSpace(surface.Surface.InitFrom)
}

// imagePath returns the normalized location of an image, joined with the
// base directory when relative. Unknown images yield "".
func (b *builder) imagePath(id string) string {
	img, ok := b.images[id]
	if !ok {
		return ""
	}
	p := encoding.NormalizePath(img.InitFrom.Path())
	if p == "" || b.opts.baseDir == "" || filepath.IsAbs(p) || isDrivePath(p) {
		return p
	}
	return filepath.ToSlash(filepath.Join(b.opts.baseDir, p))
}

func isDrivePath(p string) bool {
	return len(p) > 2 && p[1] == ':' && p[2] == '/'
}

// bindMaterials attaches materials to the primitive sets of one geometry
// instance. A bound symbol whose target is missing is reported and left
// materialless; an unbound symbol is tried as a material id and otherwise
// left materialless silently.
func (b *builder) bindMaterials(g *scene.Geometry, inst *InstanceGeometry) {
	targets := make(map[string]string)
	if inst.BindMaterial != nil {
		for _, im := range inst.BindMaterial.Materials {
			targets[im.Symbol] = fragment(im.Target)
		}
	}

	for _, p := range g.Primitives {
		if p.MaterialSymbol == "" {
			continue
		}
		target, bound := targets[p.MaterialSymbol]
		if !bound {
			if _, ok := b.materials[p.MaterialSymbol]; !ok {
				continue
			}
			target = p.MaterialSymbol
		}
		if m := b.material(target); m != nil {
			p.BindMaterial(m.Clone())
		}
	}
}

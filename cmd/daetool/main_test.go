package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-scene/internal/config"
)

const sceneDAE = `<?xml version="1.0" encoding="utf-8"?>
<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">
  <asset><unit name="inch" meter="0.0254"/><up_axis>Y_UP</up_axis></asset>
  <library_lights>
    <light id="sun"><technique_common><directional><color>1 1 1</color></directional></technique_common></light>
  </library_lights>
  <library_cameras><camera id="cam"/></library_cameras>
  <library_geometries>
    <geometry id="square" name="square">
      <mesh>
        <source id="square-positions">
          <float_array id="square-positions-array" count="12">0 0 0 1 0 0 1 1 0 0 1 0</float_array>
          <technique_common><accessor source="#square-positions-array" count="4" stride="3"/></technique_common>
        </source>
        <vertices id="square-vertices"><input semantic="POSITION" source="#square-positions"/></vertices>
        <polylist count="1"><input semantic="VERTEX" source="#square-vertices" offset="0"/><vcount>4</vcount><p>0 1 2 3</p></polylist>
      </mesh>
    </geometry>
  </library_geometries>
  <library_visual_scenes>
    <visual_scene id="Scene" name="Scene">
      <node id="Square" name="Square"><instance_geometry url="#square"/></node>
      <node id="Sun" name="Sun"><instance_light url="#sun"/></node>
      <node id="Eye" name="Eye"><translate>0 0 10</translate><instance_camera url="#cam"/></node>
      <node id="Broken"><instance_geometry url="#missing"/></node>
    </visual_scene>
  </library_visual_scenes>
  <scene><instance_visual_scene url="#Scene"/></scene>
</COLLADA>`

func newTestTool(t *testing.T, edit func(*config.Config)) (*tool, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene.dae"), []byte(sceneDAE), 0644))

	cfg := config.Default()
	cfg.Library.Roots = []string{dir}
	if edit != nil {
		edit(cfg)
	}
	out := &bytes.Buffer{}
	tl := newTool(context.Background(), cfg, out)
	t.Cleanup(func() { tl.Close() })
	return tl, out
}

func TestInfo(t *testing.T) {
	tl, out := newTestTool(t, nil)
	require.NoError(t, cmdInfo(tl, []string{"scene.dae"}))

	got := out.String()
	assert.Contains(t, got, "Up axis:    Y_UP (0.0254 m per unit)")
	assert.Contains(t, got, "group 2, mesh 1, light 1, camera 1")
	assert.Contains(t, got, "Triangles:  2")
	assert.Contains(t, got, "Problems:   1")
	assert.Contains(t, got, "missing")
}

func TestTree(t *testing.T) {
	tl, out := newTestTool(t, nil)
	require.NoError(t, cmdTree(tl, []string{"scene.dae"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.False(t, strings.HasPrefix(lines[0], " "))
	assert.Equal(t, "  Square (mesh) 1 primitives, 2 triangles", lines[1])
	assert.Equal(t, "  Sun (light) directional light", lines[2])
	assert.Equal(t, "  Eye (camera) camera #cam", lines[3])
	assert.Equal(t, "  Broken (group)", lines[4])
}

func TestLights(t *testing.T) {
	tl, out := newTestTool(t, nil)
	require.NoError(t, cmdLights(tl, []string{"scene.dae"}))

	got := out.String()
	assert.Contains(t, got, "Sun")
	assert.Contains(t, got, "directional color (1, 1, 1) direction (0, 0, -1)")
	assert.Contains(t, got, "1 lights, 1 in buffer, ambient (0, 0, 0)")
}

func TestTextureStatus(t *testing.T) {
	assert.Equal(t, "(missing)", textureStatus(filepath.Join(t.TempDir(), "gone.png")))

	junk := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("junk"), 0644))
	assert.Equal(t, "(unreadable)", textureStatus(junk))
}

func TestBounds(t *testing.T) {
	tl, out := newTestTool(t, nil)
	require.NoError(t, cmdBounds(tl, []string{"scene.dae"}))

	got := out.String()
	assert.Contains(t, got, "sphere (0.5, 0.5, 0) r=0.7071")
	assert.Contains(t, got, "box (0, 0, 0) .. (1, 1, 0)")
	assert.Contains(t, got, "scene")
}

func TestCull(t *testing.T) {
	tl, out := newTestTool(t, nil)
	require.NoError(t, cmdCull(tl, []string{"scene.dae"}))

	got := out.String()
	assert.Contains(t, got, "INSIDE   Square")
	assert.Contains(t, got, "1 of 1 mesh nodes visible")
}

func TestPick(t *testing.T) {
	tests := []struct {
		name    string
		precise bool
		x, y    string
		want    string
	}{
		{"near center enclosure", false, "610", "345", "1 hits (bounding sphere test)"},
		{"near center precise", true, "610", "345", "1 hits (triangle test)"},
		{"corner", false, "0", "0", "No hits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, out := newTestTool(t, func(c *config.Config) { c.Picking.Precise = tt.precise })
			require.NoError(t, cmdPick(tl, []string{"scene.dae", tt.x, tt.y}))
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCommandErrors(t *testing.T) {
	tl, _ := newTestTool(t, nil)

	assert.Error(t, cmdInfo(tl, nil))
	assert.Error(t, cmdTree(tl, []string{"a", "b"}))
	assert.Error(t, cmdPick(tl, []string{"scene.dae", "x", "1"}))
	assert.Error(t, cmdBounds(tl, []string{"missing.dae"}))
}

package collada

import (
	"fmt"
	"strconv"
	"strings"
)

// makeDAE wraps library XML and visual scene nodes into a full document.
func makeDAE(upAxis, libraries, nodes string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<COLLADA xmlns="http://www.collada.org/2005/11/COLLADASchema" version="1.4.1">`)
	b.WriteString(`<asset><unit name="meter" meter="1"/>`)
	if upAxis != "" {
		fmt.Fprintf(&b, "<up_axis>%s</up_axis>", upAxis)
	}
	b.WriteString(`</asset>`)
	b.WriteString(libraries)
	fmt.Fprintf(&b, `<library_visual_scenes><visual_scene id="Scene" name="Scene">%s</visual_scene></library_visual_scenes>`, nodes)
	b.WriteString(`<scene><instance_visual_scene url="#Scene"/></scene>`)
	b.WriteString(`</COLLADA>`)
	return []byte(b.String())
}

func floatList(v []float32) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(float64(f), 'g', -1, 32)
	}
	return strings.Join(parts, " ")
}

func intList(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

// makeSource builds a float source with an accessor of the given stride.
func makeSource(id string, stride int, v ...float32) string {
	return fmt.Sprintf(`<source id="%[1]s"><float_array id="%[1]s-array" count="%[2]d">%[3]s</float_array>`+
		`<technique_common><accessor source="#%[1]s-array" count="%[4]d" stride="%[5]d"/></technique_common></source>`,
		id, len(v), floatList(v), len(v)/stride, stride)
}

// makeMesh builds a geometry whose positions come from id-positions through
// a vertices block named id-vertices. extraSources and elements are inserted
// verbatim.
func makeMesh(id string, positions []float32, extraSources, elements string) string {
	return fmt.Sprintf(`<geometry id="%[1]s" name="%[1]s"><mesh>%[2]s%[3]s`+
		`<vertices id="%[1]s-vertices"><input semantic="POSITION" source="#%[1]s-positions"/></vertices>`+
		`%[4]s</mesh></geometry>`,
		id, makeSource(id+"-positions", 3, positions...), extraSources, elements)
}

func vertexInput(geomID string, offset int) string {
	return fmt.Sprintf(`<input semantic="VERTEX" source="#%s-vertices" offset="%d"/>`, geomID, offset)
}

func makeTriangles(geomID, material string, indices ...int) string {
	return fmt.Sprintf(`<triangles material="%s" count="%d">%s<p>%s</p></triangles>`,
		material, len(indices)/3, vertexInput(geomID, 0), intList(indices))
}

func makePolylist(geomID string, vcount []int, indices []int) string {
	return fmt.Sprintf(`<polylist count="%d">%s<vcount>%s</vcount><p>%s</p></polylist>`,
		len(vcount), vertexInput(geomID, 0), intList(vcount), intList(indices))
}

func libraryGeometries(geoms ...string) string {
	return "<library_geometries>" + strings.Join(geoms, "") + "</library_geometries>"
}

// makeNode builds a node instancing a geometry, with transform XML inserted
// before the instance.
func makeNode(id, transforms, geomID, bind string) string {
	inst := ""
	if geomID != "" {
		inst = fmt.Sprintf(`<instance_geometry url="#%s">%s</instance_geometry>`, geomID, bind)
	}
	return fmt.Sprintf(`<node id="%[1]s" name="%[1]s">%[2]s%[3]s</node>`, id, transforms, inst)
}

func bindMaterial(symbol, target string) string {
	return fmt.Sprintf(`<bind_material><technique_common><instance_material symbol="%s" target="#%s"/></technique_common></bind_material>`,
		symbol, target)
}

// unitTriangle is the triangle (0,0,0) (1,0,0) (0,1,0).
var unitTriangle = []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}

// unitSquare is the square spanning (0,0,0) to (1,1,0), counter-clockwise.
var unitSquare = []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}

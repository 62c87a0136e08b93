package assets

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
	"github.com/Faultbox/carview/pkg/math"
	"github.com/Faultbox/carview/pkg/scene"
)

// DracoExtension marks glTF files whose mesh geometry is Draco-compressed.
const DracoExtension = "KHR_draco_mesh_compression"

// DecoderConfig names the Draco geometry decoder used for compressed meshes.
type DecoderConfig struct {
	Path string `yaml:"decoder_path"`
	Mode string `yaml:"decoder_mode"` // "js" or "wasm"
}

// DefaultDecoderConfig returns the public gstatic decoder in JS mode.
func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		Path: "https://www.gstatic.com/draco/v1/decoders/",
		Mode: "js",
	}
}

// Validate checks the decoder mode.
func (c DecoderConfig) Validate() error {
	switch c.Mode {
	case "js", "wasm":
		return nil
	default:
		return fmt.Errorf("draco decoder mode must be js or wasm, got %q", c.Mode)
	}
}

// Model is a decoded glTF scene.
type Model struct {
	Root       *scene.Node
	MeshCount  int
	Compressed bool
	// Extensions lists the extensions the file requires.
	Extensions []string
}

// DecodeOptions configures DecodeModel.
type DecodeOptions struct {
	// Dir resolves external buffers of .gltf files. Empty disables them.
	Dir   string
	Draco DecoderConfig
}

// DecodeModelFile reads and decodes a .glb or .gltf file from disk.
func DecodeModelFile(path string, draco DecoderConfig) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open model")
	}
	defer f.Close()

	return DecodeModel(f, DecodeOptions{Dir: filepath.Dir(path), Draco: draco})
}

// DecodeModel parses glTF or GLB data into a scene graph. Every glTF node
// becomes a scene node; nodes that reference a mesh become mesh nodes.
func DecodeModel(r io.Reader, opts DecodeOptions) (*Model, error) {
	dec := gltf.NewDecoder(r)
	if opts.Dir != "" {
		dec = gltf.NewDecoderFS(r, os.DirFS(opts.Dir))
	}

	doc := new(gltf.Document)
	if err := dec.Decode(doc); err != nil {
		return nil, errors.Wrap(err, "decode gltf")
	}
	return buildModel(doc, opts)
}

// DecodeModelBytes is DecodeModel over an in-memory file.
func DecodeModelBytes(data []byte, opts DecodeOptions) (*Model, error) {
	return DecodeModel(bytes.NewReader(data), opts)
}

func buildModel(doc *gltf.Document, opts DecodeOptions) (*Model, error) {
	model := &Model{Extensions: append([]string(nil), doc.ExtensionsRequired...)}
	for _, ext := range doc.ExtensionsRequired {
		if ext == DracoExtension {
			model.Compressed = true
		}
	}
	if model.Compressed {
		// Hierarchy and transforms are plain JSON; only vertex data needs the decoder
		logger.Info("model uses compressed geometry",
			zap.String("extension", DracoExtension),
			zap.String("decoder_path", opts.Draco.Path),
			zap.String("decoder_mode", opts.Draco.Mode))
	}

	roots, name, err := sceneRoots(doc)
	if err != nil {
		return nil, err
	}

	b := &builder{
		doc:     doc,
		names:   make(map[string]int),
		visited: make([]bool, len(doc.Nodes)),
	}

	model.Root = scene.NewGroup(name)
	for _, idx := range roots {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		model.Root.Add(child)
	}
	model.MeshCount = b.meshes

	return model, nil
}

// sceneRoots returns the top-level node indices of the default scene.
// Files without scenes fall back to every node that has no parent.
func sceneRoots(doc *gltf.Document) ([]uint32, string, error) {
	if len(doc.Scenes) == 0 {
		isChild := make([]bool, len(doc.Nodes))
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				if int(c) < len(isChild) {
					isChild[c] = true
				}
			}
		}
		var roots []uint32
		for i := range doc.Nodes {
			if !isChild[i] {
				roots = append(roots, uint32(i))
			}
		}
		return roots, "Scene", nil
	}

	idx := uint32(0)
	if doc.Scene != nil {
		idx = *doc.Scene
	}
	if int(idx) >= len(doc.Scenes) {
		return nil, "", errors.Errorf("default scene %d out of range (%d scenes)", idx, len(doc.Scenes))
	}

	s := doc.Scenes[idx]
	name := s.Name
	if name == "" {
		name = "Scene"
	}
	return s.Nodes, name, nil
}

type builder struct {
	doc     *gltf.Document
	names   map[string]int
	visited []bool
	meshes  int
}

func (b *builder) node(idx uint32) (*scene.Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, errors.Errorf("node index %d out of range", idx)
	}
	if b.visited[idx] {
		return nil, errors.Errorf("node %d referenced twice", idx)
	}
	b.visited[idx] = true

	gn := b.doc.Nodes[idx]

	var n *scene.Node
	if gn.Mesh != nil {
		mi := *gn.Mesh
		if int(mi) >= len(b.doc.Meshes) {
			return nil, errors.Errorf("node %d: mesh index %d out of range", idx, mi)
		}
		mesh := b.doc.Meshes[mi]

		name := gn.Name
		if name == "" {
			name = mesh.Name
		}
		n = scene.NewMesh(b.uniqueName(SanitizeName(name)))
		n.Primitives = len(mesh.Primitives)
		n.Bounds = b.meshBounds(mesh)
		b.meshes++
	} else {
		n = scene.NewGroup(b.uniqueName(SanitizeName(gn.Name)))
	}

	applyTransform(n, gn)

	for _, c := range gn.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

// uniqueName suffixes repeated names with _1, _2 and so on.
func (b *builder) uniqueName(name string) string {
	if name == "" {
		return ""
	}
	count, seen := b.names[name]
	b.names[name] = count + 1
	if !seen {
		return name
	}
	return fmt.Sprintf("%s_%d", name, count)
}

// meshBounds unions the POSITION accessor bounds of all primitives.
func (b *builder) meshBounds(mesh *gltf.Mesh) *scene.Bounds {
	var out *scene.Bounds
	for _, p := range mesh.Primitives {
		ai, ok := p.Attributes["POSITION"]
		if !ok || int(ai) >= len(b.doc.Accessors) {
			continue
		}
		acc := b.doc.Accessors[ai]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		bb := scene.Bounds{
			Min: mgl32.Vec3{acc.Min[0], acc.Min[1], acc.Min[2]},
			Max: mgl32.Vec3{acc.Max[0], acc.Max[1], acc.Max[2]},
		}
		if out == nil {
			out = &bb
		} else {
			u := out.Union(bb)
			out = &u
		}
	}
	return out
}

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// applyTransform copies a glTF node's matrix or TRS onto n.
func applyTransform(n *scene.Node, gn *gltf.Node) {
	if gn.Matrix != identity && gn.Matrix != ([16]float32{}) {
		n.SetMatrix(mgl32.Mat4(gn.Matrix))
		return
	}

	n.Position = mgl32.Vec3(gn.Translation)

	rot := gn.Rotation
	if rot == ([4]float32{}) {
		rot = [4]float32{0, 0, 0, 1}
	}
	// glTF stores quaternions as x, y, z, w
	q := mgl32.Quat{W: rot[3], V: mgl32.Vec3{rot[0], rot[1], rot[2]}}
	n.Rotation = math.EulerFromQuat(q.Normalize())

	n.Scale = mgl32.Vec3(gn.Scale)
	if n.Scale == (mgl32.Vec3{}) {
		n.Scale = mgl32.Vec3{1, 1, 1}
	}
}

var nameReplacer = strings.NewReplacer("[", "", "]", "", ".", "", ":", "", "/", "", "\\", "")

// SanitizeName turns whitespace into underscores and drops the characters
// reserved by animation binding paths.
func SanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
	return nameReplacer.Replace(name)
}

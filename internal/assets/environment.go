package assets

import (
	"bytes"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mdouchement/hdr"
	_ "github.com/mdouchement/hdr/codec/rgbe" // registers the Radiance format
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/logger"
)

// MappingEquirectReflection is the only environment mapping supported.
const MappingEquirectReflection = "equirectangular-reflection"

// Environment is a decoded Radiance HDR environment map, summarised.
type Environment struct {
	Path    string
	Format  string
	Width   int
	Height  int
	Mapping string

	// Mean is the average linear radiance over all texels.
	Mean mgl32.Vec3
	// Peak is the brightest texel's luminance.
	Peak float32
}

// LoadEnvironment decodes an HDR environment map.
// Callers treat errors as non-fatal; the scene renders without reflections.
func (m *Manager) LoadEnvironment(path string) (*Environment, error) {
	data, err := m.Load(path)
	if err != nil {
		return nil, err
	}

	env, err := DecodeEnvironment(data)
	if err != nil {
		return nil, errors.Wrapf(err, "environment %s", path)
	}
	env.Path = path

	logger.Info("environment map loaded",
		zap.String("path", path),
		zap.Int("width", env.Width),
		zap.Int("height", env.Height),
		zap.Float32s("mean", env.Mean[:]),
		zap.String("mapping", env.Mapping))
	return env, nil
}

// DecodeEnvironment decodes RGBE data and computes its radiance statistics.
func DecodeEnvironment(data []byte) (*Environment, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode hdr")
	}
	m, ok := img.(hdr.Image)
	if !ok {
		return nil, errors.Errorf("%s image is not high dynamic range", format)
	}

	b := m.Bounds()
	if b.Empty() {
		return nil, errors.New("empty hdr image")
	}

	env := &Environment{
		Format:  format,
		Width:   b.Dx(),
		Height:  b.Dy(),
		Mapping: MappingEquirectReflection,
	}

	var sum [3]float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := m.HDRAt(x, y).HDRRGBA()
			sum[0] += r
			sum[1] += g
			sum[2] += bl
			if l := float32(0.2126*r + 0.7152*g + 0.0722*bl); l > env.Peak {
				env.Peak = l
			}
		}
	}
	n := float64(env.Width * env.Height)
	env.Mean = mgl32.Vec3{float32(sum[0] / n), float32(sum[1] / n), float32(sum[2] / n)}
	return env, nil
}

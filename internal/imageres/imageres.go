// Package imageres resolves the intrinsic size of replaced/image content
// (spec §4.1.2: "Leaf image/replaced: the intrinsic size declared by the
// external resource (or a 0,0 fallback)"). It supplements the distilled
// spec, which leaves image resolution itself abstract, grounded on
// image-handling libraries the teacher and pack both already depend on:
// github.com/h2non/filetype (shared by cogentcore-core and
// rupor-github-fb2cng) to sniff content type before the standard library's
// image.Decode decodes it, and github.com/disintegration/imaging
// (rupor-github-fb2cng) to resize when a CSS box constrains a replaced
// element.
package imageres

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"

	"github.com/cogentlayout/corelayout/pkg/geom32"
)

// Resolver resolves image bytes to an intrinsic size, caching by Src key.
type Resolver struct {
	cache map[string]geom32.Vector2
}

func NewResolver() *Resolver {
	return &Resolver{cache: make(map[string]geom32.Vector2)}
}

// IntrinsicSize returns the natural (width, height) of the image named by
// src. If declaredW/declaredH are both already known (non-zero), those are
// trusted directly whatever data holds — this is the common "the StyledDom already
// told us the size" path. Decode failures degrade to (0,0) per spec §7
// category 3 rather than propagating an error.
func (r *Resolver) IntrinsicSize(src string, declaredW, declaredH float32, data []byte) geom32.Vector2 {
	if declaredW > 0 && declaredH > 0 {
		return geom32.Vec2(declaredW, declaredH)
	}
	if sz, ok := r.cache[src]; ok {
		return sz
	}
	if len(data) == 0 {
		return geom32.Vec2(0, 0)
	}
	if !filetype.IsImage(data) {
		return geom32.Vec2(0, 0)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return geom32.Vec2(0, 0)
	}
	b := img.Bounds()
	sz := geom32.Vec2(float32(b.Dx()), float32(b.Dy()))
	r.cache[src] = sz
	return sz
}

// Resize produces a copy of img fit to the given used-size box, for the case
// where a replaced element's CSS box differs from its intrinsic size. This
// is a rendering-resource concern at the §6.4 compositor boundary, not part
// of the layout solver proper, but lives here because it shares the same
// decode step.
func Resize(img image.Image, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

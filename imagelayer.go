package pixelbox

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

// ImageLayerOptions configures a static image layer
type ImageLayerOptions struct {
	Target string `toml:"target" yaml:"target" json:"target"`
	Src    string `toml:"src" yaml:"src" json:"src"`          // Image file path
	Width  int    `toml:"width" yaml:"width" json:"width"`    // Layer width (default: image width)
	Height int    `toml:"height" yaml:"height" json:"height"` // Layer height (default: image height)
}

// ImageLayer is an image decoded in the background. Nothing about the image
// is available until Loaded is closed.
type ImageLayer struct {
	mu   sync.RWMutex
	opts ImageLayerOptions
	img  *image.RGBA
	err  error

	loaded chan struct{}
}

// LoadImageLayer starts decoding opts.Src and returns immediately
func LoadImageLayer(opts ImageLayerOptions) *ImageLayer {
	l := &ImageLayer{opts: opts, loaded: make(chan struct{})}
	go func() {
		f, err := os.Open(opts.Src)
		if err != nil {
			l.finish(nil, errors.Wrapf(err, "open image %s", opts.Src))
			return
		}
		defer f.Close()
		l.decode(f)
	}()
	return l
}

// LoadImageLayerFrom starts decoding r and returns immediately
func LoadImageLayerFrom(r io.Reader, opts ImageLayerOptions) *ImageLayer {
	l := &ImageLayer{opts: opts, loaded: make(chan struct{})}
	go l.decode(r)
	return l
}

// NewImageLayer wraps an already decoded image; Loaded is closed on return
func NewImageLayer(img image.Image, opts ImageLayerOptions) *ImageLayer {
	l := &ImageLayer{opts: opts, loaded: make(chan struct{})}
	l.finish(l.fit(img), nil)
	return l
}

func (l *ImageLayer) decode(r io.Reader) {
	src, _, err := image.Decode(r)
	if err != nil {
		l.finish(nil, errors.Wrapf(err, "decode image %s", l.opts.Src))
		return
	}
	l.finish(l.fit(src), nil)
}

// fit converts src to RGBA at the configured size
func (l *ImageLayer) fit(src image.Image) *image.RGBA {
	b := src.Bounds()
	w, h := l.opts.Width, l.opts.Height
	if w <= 0 {
		w = b.Dx()
	}
	if h <= 0 {
		h = b.Dy()
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		xdraw.Copy(dst, image.Point{}, src, b, xdraw.Src, nil)
	} else {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	}
	return dst
}

func (l *ImageLayer) finish(img *image.RGBA, err error) {
	l.mu.Lock()
	l.img = img
	l.err = err
	l.mu.Unlock()
	close(l.loaded)
}

// Loaded is closed once decoding finishes, successfully or not
func (l *ImageLayer) Loaded() <-chan struct{} {
	return l.loaded
}

// Ready reports whether the image decoded successfully
func (l *ImageLayer) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.img != nil
}

// Err returns the load error, if any
func (l *ImageLayer) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.err
}

// Image returns the decoded image, or nil before it is ready
func (l *ImageLayer) Image() *image.RGBA {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.img
}

// Size returns the layer size, or the configured size before loading
func (l *ImageLayer) Size() (w, h int) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.img != nil {
		return l.img.Bounds().Dx(), l.img.Bounds().Dy()
	}
	return l.opts.Width, l.opts.Height
}

// DNAt returns the stored DN (red channel) at x, y. ok is false before the
// image is ready or outside its bounds.
func (l *ImageLayer) DNAt(x, y int) (dn uint8, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.img == nil || !(image.Point{X: x, Y: y}).In(l.img.Bounds()) {
		return 0, false
	}
	return l.img.RGBAAt(x, y).R, true
}

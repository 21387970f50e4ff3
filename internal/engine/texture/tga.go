// Package texture inspects the image files referenced by scene materials.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TGATypeUncompressed = 2  // Uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// ErrUnsupportedTGA is returned for TGA variants other than 24 or 32 bit
// true-color, uncompressed or RLE.
var ErrUnsupportedTGA = errors.New("unsupported TGA variant")

type tgaHeader struct {
	idLength    int
	imageType   byte
	width       int
	height      int
	bpp         int
	topToBottom bool
}

func parseTGAHeader(h []byte) (tgaHeader, error) {
	if len(h) < tgaHeaderSize {
		return tgaHeader{}, fmt.Errorf("TGA data too short")
	}
	hdr := tgaHeader{
		idLength:    int(h[0]),
		imageType:   h[2],
		width:       int(h[12]) | int(h[13])<<8,
		height:      int(h[14]) | int(h[15])<<8,
		bpp:         int(h[16]),
		topToBottom: h[17]&0x20 != 0,
	}
	if h[1] != 0 {
		return hdr, fmt.Errorf("color-mapped TGA: %w", ErrUnsupportedTGA)
	}
	if hdr.imageType != TGATypeUncompressed && hdr.imageType != TGATypeRLE {
		return hdr, fmt.Errorf("TGA type %d: %w", hdr.imageType, ErrUnsupportedTGA)
	}
	if hdr.bpp != 24 && hdr.bpp != 32 {
		return hdr, fmt.Errorf("TGA bit depth %d: %w", hdr.bpp, ErrUnsupportedTGA)
	}
	return hdr, nil
}

// DecodeTGAConfig reads only the TGA header.
func DecodeTGAConfig(r io.Reader) (image.Config, error) {
	var h [tgaHeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		return image.Config{}, fmt.Errorf("reading TGA header: %w", err)
	}
	hdr, err := parseTGAHeader(h[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{ColorModel: color.RGBAModel, Width: hdr.width, Height: hdr.height}, nil
}

// DecodeTGA decodes an uncompressed or RLE compressed true-color TGA file.
func DecodeTGA(data []byte) (image.Image, error) {
	hdr, err := parseTGAHeader(data)
	if err != nil {
		return nil, err
	}

	offset := tgaHeaderSize + hdr.idLength
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}

	d := tgaDecoder{
		hdr: hdr,
		img: image.NewRGBA(image.Rect(0, 0, hdr.width, hdr.height)),
		src: data[offset:],
		bpp: hdr.bpp / 8,
	}
	if hdr.imageType == TGATypeUncompressed {
		err = d.raw()
	} else {
		err = d.rle()
	}
	if err != nil {
		return nil, err
	}
	return d.img, nil
}

type tgaDecoder struct {
	hdr tgaHeader
	img *image.RGBA
	src []byte
	bpp int // bytes per pixel
	pos int // read offset in src
	n   int // pixels written
}

// pixel reads one BGR(A) pixel.
func (d *tgaDecoder) pixel() (color.RGBA, bool) {
	if d.pos+d.bpp > len(d.src) {
		return color.RGBA{}, false
	}
	p := d.src[d.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if d.bpp == 4 {
		c.A = p[3]
	}
	d.pos += d.bpp
	return c, true
}

// put writes c at the next pixel in file order.
func (d *tgaDecoder) put(c color.RGBA) {
	x := d.n % d.hdr.width
	y := d.n / d.hdr.width
	if !d.hdr.topToBottom {
		y = d.hdr.height - 1 - y
	}
	d.img.SetRGBA(x, y, c)
	d.n++
}

func (d *tgaDecoder) total() int {
	return d.hdr.width * d.hdr.height
}

func (d *tgaDecoder) raw() error {
	if len(d.src) < d.total()*d.bpp {
		return fmt.Errorf("TGA pixel data truncated")
	}
	for d.n < d.total() {
		c, _ := d.pixel()
		d.put(c)
	}
	return nil
}

// rle decodes run-length packets. A truncated stream leaves the remaining
// pixels transparent.
func (d *tgaDecoder) rle() error {
	for d.n < d.total() && d.pos < len(d.src) {
		packet := d.src[d.pos]
		d.pos++
		count := int(packet&0x7F) + 1

		if packet&0x80 != 0 {
			c, ok := d.pixel()
			if !ok {
				return nil
			}
			for i := 0; i < count && d.n < d.total(); i++ {
				d.put(c)
			}
			continue
		}
		for i := 0; i < count && d.n < d.total(); i++ {
			c, ok := d.pixel()
			if !ok {
				return nil
			}
			d.put(c)
		}
	}
	return nil
}

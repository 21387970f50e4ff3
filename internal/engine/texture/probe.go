package texture

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	// Formats recognized by Probe.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes a texture file on disk.
type Info struct {
	Path   string
	Format string // png, jpeg, gif, bmp, tiff, webp or tga
	Width  int
	Height int
}

func (i Info) String() string {
	return fmt.Sprintf("%dx%d %s", i.Width, i.Height, i.Format)
}

// Probe reads the header of the image at path. A missing file yields an
// error wrapping fs.ErrNotExist. TGA files, which carry no signature, are
// recognized by extension.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	info := Info{Path: path}
	var cfg image.Config
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		cfg, err = DecodeTGAConfig(f)
		info.Format = "tga"
	} else {
		cfg, info.Format, err = image.DecodeConfig(f)
	}
	if err != nil {
		return Info{}, fmt.Errorf("probing %s: %w", path, err)
	}
	info.Width, info.Height = cfg.Width, cfg.Height
	return info, nil
}

// Missing reports whether err from Probe means the file does not exist.
func Missing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

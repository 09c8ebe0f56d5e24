package contentflow

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 2000
	jpegQuality   = 80
)

// resizeImage decodes src and scales it down to width, keeping the aspect
// ratio. PNG sources stay PNG; everything else is encoded as JPEG. An image
// already no wider than width is returned unchanged with ok false.
func resizeImage(src io.Reader, width int) (data []byte, contentType string, ok bool, err error) {
	img, format, err := image.Decode(src)
	if err != nil {
		return nil, "", false, fmt.Errorf("decode image: %w", err)
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if width <= 0 || width >= w {
		return nil, "", false, nil
	}

	newH := max(h*width/w, 1)
	dst := image.NewRGBA(image.Rect(0, 0, width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", false, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", true, nil
	}
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", true, nil
}

// handleMedia serves files from the media directory. ?width=N scales images
// down to N pixels wide (capped at maxImageWidth).
func (a *App) handleMedia(c echo.Context) error {
	name := path.Clean("/" + c.Param("*"))
	if name == "/" {
		return echo.ErrNotFound
	}
	file := filepath.Join(a.Config.MediaDir, filepath.FromSlash(strings.TrimPrefix(name, "/")))
	info, err := os.Stat(file)
	if err != nil || info.IsDir() {
		return echo.ErrNotFound
	}

	width, _ := strconv.Atoi(c.QueryParam("width"))
	if width <= 0 {
		return c.File(file)
	}
	width = min(width, maxImageWidth)

	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	data, contentType, ok, err := resizeImage(f, width)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, "not an image")
	}
	if !ok {
		return c.File(file)
	}
	return c.Blob(http.StatusOK, contentType, data)
}

package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/quickqr/internal/qr"
	"github.com/stretchr/testify/require"
)

func redPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.RGBA{0xff, 0, 0, 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCachingLoader_HTTPAndCache(t *testing.T) {
	logo := redPNG(t)
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(logo)
	}))
	defer srv.Close()

	l := NewLogoLoader(srv.Client())
	img, err := l.Load(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dx())

	_, err = l.Load(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())
}

func TestCachingLoader_Errors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	l := NewLogoLoader(srv.Client())
	_, err := l.Load(context.Background(), srv.URL+"/missing.png")
	require.ErrorIs(t, err, ErrLogoFetch)

	_, err = l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	require.ErrorIs(t, err, ErrLogoFetch)

	_, err = l.Load(context.Background(), "data:image/png,raw")
	require.ErrorIs(t, err, ErrLogoFetch)
}

func TestCachingLoader_DataURLAndFile(t *testing.T) {
	logo := redPNG(t)
	l := NewLogoLoader(nil)

	img, err := l.Load(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(logo))
	require.NoError(t, err)
	require.Equal(t, 16, img.Bounds().Dy())

	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, logo, 0o600))
	_, err = l.Load(context.Background(), "file://"+path)
	require.NoError(t, err)
}

func TestRender_LogoOverlayAndFallback(t *testing.T) {
	logo := redPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(logo)
	}))
	defer srv.Close()

	r := NewRaster(NewLogoLoader(srv.Client()), nil)
	o := qr.Compose("https://example.com", qr.DefaultStyle())
	o.Style.SetLogo(srv.URL + "/logo.png")

	img, err := r.Render(context.Background(), o)
	require.NoError(t, err)
	c := img.RGBAAt(150, 150)
	require.Greater(t, c.R, uint8(200))
	require.Less(t, c.G, uint8(50))

	o.Style.SetLogo(srv.URL + "/gone.png")
	img, err = r.Render(context.Background(), o)
	require.NoError(t, err, "an unreachable logo only drops the overlay")
	c = img.RGBAAt(150, 150)
	require.False(t, c.R > 200 && c.G < 50)
}

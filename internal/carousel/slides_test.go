package carousel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSlides(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slides.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSlides(t *testing.T) {
	path := writeSlides(t, `
slides:
  - src: images/goa.jpg
    alt: Goa beaches
  - src: images/kerala.jpg
    mobile_src: images/kerala-mobile.jpg
`)

	slides, err := LoadSlides(path)
	require.NoError(t, err)
	require.Len(t, slides, 2)

	assert.Equal(t, 0, slides[0].Index)
	assert.Equal(t, "Goa beaches", slides[0].Alt)
	assert.Equal(t, 1, slides[1].Index)
	assert.Equal(t, "images/kerala-mobile.jpg", slides[1].MobileSrc)
}

func TestLoadSlidesErrors(t *testing.T) {
	_, err := LoadSlides(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadSlides(writeSlides(t, "slides: []\n"))
	assert.ErrorIs(t, err, ErrNoSlides)

	_, err = LoadSlides(writeSlides(t, "slides: [\n"))
	assert.Error(t, err)
}

package audio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mindbridge/internal/catalog"
)

func countPrompts() int {
	n := 0
	for _, g := range catalog.All() {
		n += len(g.Prompts)
	}
	return n
}

func TestGenerateCatalogAudio(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Query().Get("q") == "" {
			http.Error(w, "missing text", http.StatusBadRequest)
			return
		}
		w.Write([]byte("ID3fake-mp3"))
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "audio")
	svc := newTTSService(dir, server.URL)

	n, err := svc.GenerateCatalogAudio(context.Background())
	require.NoError(t, err)
	assert.Equal(t, countPrompts(), n)
	assert.Equal(t, int32(n), calls.Load())

	// second run reuses existing files
	n, err = svc.GenerateCatalogAudio(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	circle, ok := catalog.FindPrompt("shape-circle")
	require.True(t, ok)
	url, ok := svc.PromptAudioURL(circle)
	assert.True(t, ok)
	assert.Equal(t, "/static/audio/prompt_shape-circle.mp3", url)

	data, err := os.ReadFile(filepath.Join(dir, PromptFilename(circle)))
	require.NoError(t, err)
	assert.Equal(t, "ID3fake-mp3", string(data))
}

func TestGenerateFailureLeavesNoFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	dir := t.TempDir()
	svc := newTTSService(dir, server.URL)

	circle, _ := catalog.FindPrompt("shape-circle")
	_, err := svc.GeneratePromptAudio(context.Background(), circle)
	require.Error(t, err)

	_, ok := svc.PromptAudioURL(circle)
	assert.False(t, ok)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	n, err := svc.GenerateCatalogAudio(context.Background())
	require.NoError(t, err, "individual failures are skipped")
	assert.Zero(t, n)
}

func TestCleanupOrphanedAudio(t *testing.T) {
	dir := t.TempDir()
	svc := newTTSService(dir, "http://unused")

	circle, _ := catalog.FindPrompt("shape-circle")
	for _, name := range []string{PromptFilename(circle), "prompt_retired.mp3", "theme.mp3"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	removed, err := svc.CleanupOrphanedAudio()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := svc.GetAllAudioFiles()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{PromptFilename(circle), "theme.mp3"}, files)
}

func TestPromptText(t *testing.T) {
	assert.Equal(t, "Circle", PromptText(catalog.Prompt{Name: "Circle"}))
	assert.Equal(t, "Knife. Sharp", PromptText(catalog.Prompt{Name: "Knife", Description: "Sharp"}))

	var nilSvc *TTSService
	_, ok := nilSvc.PromptAudioURL(catalog.Prompt{ID: "x"})
	assert.False(t, ok)
}

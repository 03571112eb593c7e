package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mindbridge/internal/catalog"
)

const (
	ttsRequestTimeout = 10 * time.Second
	defaultTTSURL     = "https://translate.google.com/translate_tts"

	promptPrefix = "prompt_"
	// URLPrefix is where the server exposes the audio directory
	URLPrefix = "/static/audio/"
)

// TTSService pre-generates spoken prompts so clients can play them
// without in-browser speech synthesis.
type TTSService struct {
	audioDir string
	endpoint string
	client   *http.Client
}

// NewTTSService creates a new TTS service writing into audioDir
func NewTTSService(audioDir string) *TTSService {
	return newTTSService(audioDir, defaultTTSURL)
}

func newTTSService(audioDir, endpoint string) *TTSService {
	return &TTSService{
		audioDir: audioDir,
		endpoint: endpoint,
		client:   &http.Client{Timeout: ttsRequestTimeout},
	}
}

// PromptFilename is the audio file name for a catalog prompt
func PromptFilename(p catalog.Prompt) string {
	return promptPrefix + strings.ReplaceAll(strings.ToLower(p.ID), " ", "_") + ".mp3"
}

// PromptText is what gets spoken for a prompt
func PromptText(p catalog.Prompt) string {
	if p.Description == "" {
		return p.Name
	}
	return p.Name + ". " + p.Description
}

// PromptAudioURL returns the public URL of a prompt's audio if it has been generated
func (s *TTSService) PromptAudioURL(p catalog.Prompt) (string, bool) {
	if s == nil {
		return "", false
	}
	filename := PromptFilename(p)
	if _, err := os.Stat(filepath.Join(s.audioDir, filename)); err != nil {
		return "", false
	}
	return URLPrefix + filename, true
}

// GeneratePromptAudio converts a prompt to speech and saves it as MP3.
// Returns the filename (not full path); existing files are reused.
func (s *TTSService) GeneratePromptAudio(ctx context.Context, p catalog.Prompt) (string, error) {
	filename := PromptFilename(p)
	path := filepath.Join(s.audioDir, filename)

	if _, err := os.Stat(path); err == nil {
		return filename, nil
	}

	if err := s.fetch(ctx, PromptText(p), path); err != nil {
		return "", fmt.Errorf("failed to generate audio for %s: %w", p.ID, err)
	}
	return filename, nil
}

// GenerateCatalogAudio generates audio for every catalog prompt that has
// none yet. Individual failures are logged and skipped.
func (s *TTSService) GenerateCatalogAudio(ctx context.Context) (int, error) {
	if err := os.MkdirAll(s.audioDir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create audio directory: %w", err)
	}

	generated := 0
	for _, g := range catalog.All() {
		for _, p := range g.Prompts {
			if err := ctx.Err(); err != nil {
				return generated, err
			}
			if _, ok := s.PromptAudioURL(p); ok {
				continue
			}
			if _, err := s.GeneratePromptAudio(ctx, p); err != nil {
				log.Printf("Warning: %v", err)
				continue
			}
			generated++
		}
	}
	return generated, nil
}

// fetch uses Google Translate's text-to-speech endpoint
func (s *TTSService) fetch(ctx context.Context, text, outputPath string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("q", text)
	params.Set("tl", "en")
	params.Set("client", "tw-ob")
	params.Set("textlen", strconv.Itoa(len(text)))

	ctx, cancel := context.WithTimeout(ctx, ttsRequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	// Set user agent (required by Google)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// write to a temp file first so a failed download never leaves a partial MP3
	tmp, err := os.CreateTemp(s.audioDir, "tts-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	return os.Rename(tmp.Name(), outputPath)
}

// CleanupOrphanedAudio removes prompt audio for prompts no longer in the catalog
func (s *TTSService) CleanupOrphanedAudio() (int, error) {
	files, err := s.GetAllAudioFiles()
	if err != nil {
		return 0, err
	}

	known := make(map[string]bool)
	for _, g := range catalog.All() {
		for _, p := range g.Prompts {
			known[PromptFilename(p)] = true
		}
	}

	removed := 0
	for _, name := range files {
		if !strings.HasPrefix(name, promptPrefix) || known[name] {
			continue
		}
		if err := os.Remove(filepath.Join(s.audioDir, name)); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// GetAllAudioFiles returns a list of all MP3 files in the audio directory
func (s *TTSService) GetAllAudioFiles() ([]string, error) {
	files, err := os.ReadDir(s.audioDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audio directory: %w", err)
	}

	var audioFiles []string
	for _, file := range files {
		if !file.IsDir() && filepath.Ext(file.Name()) == ".mp3" {
			audioFiles = append(audioFiles, file.Name())
		}
	}

	return audioFiles, nil
}

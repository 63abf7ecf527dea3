package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beee003/vox-cli/encoder"
)

// Whisper talks to a local whisper.cpp server speaking the OpenAI audio
// transcription API. Audio is FLAC-compressed before upload, roughly halving
// the request size versus raw WAV.
type Whisper struct {
	endpoint string
	model    string
	language string
	client   *http.Client
}

func NewWhisper(endpoint, model, language string) *Whisper {
	return &Whisper{
		endpoint: endpoint,
		model:    model,
		language: language,
		client:   &http.Client{Timeout: 2 * time.Minute},
	}
}

func (w *Whisper) Name() string { return "whisper" }

// Load probes the server's health endpoint so a missing or still-loading
// model is caught at startup instead of on the first utterance.
func (w *Whisper) Load(ctx context.Context) error {
	u, err := url.Parse(w.endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", w.endpoint, err)
	}
	u.Path = "/health"
	u.RawQuery = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper server unreachable at %s (start one with: whisper-server -m models/ggml-%s.bin): %w",
			w.endpoint, w.model, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper server not ready: health returned %d", resp.StatusCode)
	}
	return nil
}

type whisperResponse struct {
	Text string `json:"text"`
}

func (w *Whisper) Transcribe(ctx context.Context, pcm []int16) (Result, error) {
	flacData, err := encoder.EncodePCM(pcm)
	if err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: fmt.Errorf("encode: %w", err)}
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "audio.flac")
	if err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: err}
	}
	if _, err := part.Write(flacData); err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: err}
	}

	mw.WriteField("model", w.model)
	mw.WriteField("response_format", "json")
	if w.language != "" {
		mw.WriteField("language", w.language)
	}
	mw.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, &body)
	if err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := w.client.Do(req)
	if err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, &TranscriptionError{
			Backend: w.Name(),
			Err:     fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))),
		}
	}

	var wResp whisperResponse
	if err := json.Unmarshal(respBody, &wResp); err != nil {
		return Result{}, &TranscriptionError{Backend: w.Name(), Err: fmt.Errorf("response parse: %w", err)}
	}

	text := strings.TrimSpace(wResp.Text)
	return Result{
		Text:     text,
		NoSpeech: text == "",
		Duration: time.Since(start).Seconds(),
	}, nil
}

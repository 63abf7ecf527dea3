package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/beee003/vox-cli/audio"
	"github.com/beee003/vox-cli/config"
	"github.com/beee003/vox-cli/log"
	"github.com/beee003/vox-cli/recorder"
	"github.com/beee003/vox-cli/transcriber"
)

// cmdMCP serves the MCP stdio transport: newline-delimited JSON-RPC 2.0 on
// stdin/stdout. Two tools are exposed, record_voice and list_microphones.
// All logging stays on stderr so the transport is never corrupted.
func cmdMCP(cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	addCommonFlags(fs, &cfg)
	fs.Parse(args)

	log.Init(cfg.Verbose)
	if err := cfg.Validate(); err != nil {
		return err
	}

	srv := &mcpServer{cfg: cfg}
	return srv.serve(context.Background(), os.Stdin, os.Stdout)
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type mcpServer struct {
	cfg config.Config
	enc *json.Encoder
}

func (s *mcpServer) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.enc = json.NewEncoder(out)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var req rpcRequest
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			log.Warnf("mcp: bad request: %v", err)
			continue
		}
		s.handle(ctx, req)
	}
	return scanner.Err()
}

func (s *mcpServer) reply(id json.RawMessage, result any) {
	s.enc.Encode(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *mcpServer) replyError(id json.RawMessage, code int, msg string) {
	s.enc.Encode(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: msg}})
}

func (s *mcpServer) handle(ctx context.Context, req rpcRequest) {
	switch req.Method {
	case "initialize":
		s.reply(req.ID, map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": "vox", "version": version},
		})

	case "notifications/initialized":
		// notification, no response

	case "tools/list":
		s.reply(req.ID, map[string]any{"tools": toolDefinitions()})

	case "tools/call":
		var params struct {
			Name      string          `json:"name"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.replyError(req.ID, -32602, "invalid params")
			return
		}
		text, err := s.callTool(ctx, params.Name, params.Arguments)
		if err != nil {
			s.reply(req.ID, toolResult(err.Error(), true))
			return
		}
		s.reply(req.ID, toolResult(text, false))

	case "ping":
		s.reply(req.ID, map[string]any{})

	default:
		if req.ID != nil {
			s.replyError(req.ID, -32601, "method not found: "+req.Method)
		}
	}
}

func toolResult(text string, isError bool) map[string]any {
	return map[string]any{
		"content": []map[string]any{{"type": "text", "text": text}},
		"isError": isError,
	}
}

func toolDefinitions() []map[string]any {
	return []map[string]any{
		{
			"name":        "record_voice",
			"description": "Record from the microphone until silence, then transcribe. Returns the transcribed (and optionally cleaned) text.",
			"inputSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"max_duration": map[string]any{
						"type":        "number",
						"description": "Maximum recording length in seconds (default 15).",
					},
					"model": map[string]any{
						"type":        "string",
						"description": "Whisper model size: tiny, base, small, or medium (default base).",
					},
					"clean_text": map[string]any{
						"type":        "boolean",
						"description": "Apply code-aware text cleaning (default true).",
					},
					"device": map[string]any{
						"type":        "string",
						"description": "Audio input device name. Empty = system default.",
					},
				},
			},
		},
		{
			"name":        "list_microphones",
			"description": "List available audio input devices.",
			"inputSchema": map[string]any{"type": "object", "properties": map[string]any{}},
		},
	}
}

type recordVoiceArgs struct {
	MaxDuration float64 `json:"max_duration"`
	Model       string  `json:"model"`
	CleanText   *bool   `json:"clean_text"`
	Device      string  `json:"device"`
}

func (s *mcpServer) callTool(ctx context.Context, name string, rawArgs json.RawMessage) (string, error) {
	switch name {
	case "record_voice":
		var args recordVoiceArgs
		if len(rawArgs) > 0 {
			if err := json.Unmarshal(rawArgs, &args); err != nil {
				return "", fmt.Errorf("invalid arguments: %w", err)
			}
		}
		return s.recordVoice(ctx, args)

	case "list_microphones":
		return s.listMicrophones()

	default:
		return "", fmt.Errorf("unknown tool %q", name)
	}
}

func (s *mcpServer) recordVoice(ctx context.Context, args recordVoiceArgs) (string, error) {
	cfg := s.cfg
	if args.MaxDuration > 0 {
		cfg.Duration = time.Duration(args.MaxDuration * float64(time.Second))
	} else {
		cfg.Duration = 15 * time.Second
	}
	if args.Model != "" {
		if !transcriber.ValidModel(args.Model) {
			return "", fmt.Errorf("invalid model %q", args.Model)
		}
		cfg.Model = args.Model
	}
	if args.CleanText != nil {
		cfg.NoClean = !*args.CleanText
	}
	if args.Device != "" {
		cfg.Device = args.Device
	}

	trans, err := newTranscriber(ctx, cfg)
	if err != nil {
		return "", err
	}
	actx, dev, err := openCapture(cfg)
	if err != nil {
		return "", err
	}
	defer actx.Close()
	defer dev.Close()

	log.Infof("mcp: recording (max %s, model=%s)", cfg.Duration, cfg.Model)

	// the tool result carries the text, so delivery goes to a buffer
	// instead of the configured output target
	sink := &bufferSink{}
	m := recorder.New(dev, trans, sink, cleaners(cfg), recorderConfig(cfg), recorder.Hooks{})
	if err := m.RecordOnce(ctx); err != nil {
		return "", err
	}
	if sink.text == "" {
		return "No speech detected.", nil
	}
	return sink.text, nil
}

type bufferSink struct {
	text string
}

func (b *bufferSink) Deliver(text string) error {
	b.text = text
	return nil
}

func (s *mcpServer) listMicrophones() (string, error) {
	actx, err := audio.NewContext()
	if err != nil {
		return "", fmt.Errorf("audio init: %w", err)
	}
	defer actx.Close()

	devices, err := actx.Devices()
	if err != nil {
		return "", fmt.Errorf("enumerating devices: %w", err)
	}
	if len(devices) == 0 {
		return "No input devices found.", nil
	}
	var b strings.Builder
	for i, d := range devices {
		fmt.Fprintf(&b, "[%d] %s\n", i, d.Name)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	badgegen "github.com/DeutscheModelUnitedNations/badgeGenerator"
	"github.com/DeutscheModelUnitedNations/badgeGenerator/assets"
)

func sendRequest(t *testing.T, s *Server, method string, id int, params interface{}) jsonrpcResponse {
	t.Helper()

	req := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	resp := sendRequest(t, s, "tools/call", 10, map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	var result ToolResult
	raw, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decoding tool result %s: %v", raw, err)
	}
	var texts []string
	for _, c := range result.Content {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, "\n"), result.IsError
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x * 6), B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pic := testPNG(t)
	src := &assets.DirSource{
		FlagFS: fstest.MapFS{"de.png": {Data: pic}},
		StaticFS: fstest.MapFS{
			"logo/color/dmun.png":       {Data: pic},
			"logo/color/small_dmun.png": {Data: pic},
		},
	}
	gen, err := badgegen.New(
		badgegen.WithSource(src),
		badgegen.WithClock(func() time.Time { return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		t.Fatalf("creating generator: %v", err)
	}
	s := NewServerWithIO(nil, nil)
	NewService(gen).Register(s)
	return s
}

var testRows = []interface{}{
	map[string]interface{}{"name": "Alice", "countryName": "Germany", "countryAlpha2Code": "DE", "id": "A1"},
	map[string]interface{}{"name": "Bob", "countryName": "Atlantis", "countryAlpha2Code": "XX"},
}

func TestServerInitialize(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "initialize", 1, map[string]interface{}{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]interface{}{},
		"clientInfo":      map[string]interface{}{"name": "test", "version": "1.0"},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	if result["protocolVersion"] != "2024-11-05" {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "badgegen-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsList(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/list", 2, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	tools, ok := result["tools"].([]interface{})
	if !ok {
		t.Fatal("tools is not an array")
	}

	var names []string
	for _, tool := range tools {
		tm, ok := tool.(map[string]interface{})
		if !ok {
			continue
		}
		if name, ok := tm["name"].(string); ok {
			names = append(names, name)
		}
	}

	want := "generate_documents,generation_status,list_brands"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("tools = %s, want %s", got, want)
	}
}

func TestServerResourcesList(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "resources/list", 3, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("result is not a map")
	}

	resources, ok := result["resources"].([]interface{})
	if !ok {
		t.Fatal("resources is not an array")
	}

	if len(resources) != 3 {
		t.Fatalf("expected 3 resources, got %d", len(resources))
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "ping", 4, nil)

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)

	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != -32601 {
		t.Fatalf("expected error code -32601, got %d", resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "tools/call", 6, map[string]interface{}{
		"name":      "nonexistent_tool",
		"arguments": map[string]interface{}{},
	})

	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestServerGenerateTool(t *testing.T) {
	s := newTestServer(t)

	text, isErr := callTool(t, s, "generate_documents", map[string]interface{}{
		"rows":         testRows,
		"brand":        "DMUN",
		"documentType": "placard",
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "Generated 2 PLACARD pages for DMUN") {
		t.Fatalf("unexpected summary: %s", text)
	}
	if !strings.Contains(text, "1 warnings") || !strings.Contains(text, "IMAGE 1.countryAlpha2Code") {
		t.Fatalf("expected the missing flag warning: %s", text)
	}
	if !strings.Contains(text, "Base64 PDF:\nJVBER") {
		t.Fatalf("expected base64 PDF data: %s", text)
	}

	status, _ := callTool(t, s, "generation_status", nil)
	if !strings.HasPrefix(status, "finished: 2/2 pages (100%)") {
		t.Fatalf("unexpected status: %s", status)
	}

	resp := sendRequest(t, s, "resources/read", 11, map[string]interface{}{"uri": WarningsURI})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), `\"type\": \"IMAGE\"`) {
		t.Fatalf("warnings resource missing IMAGE warning: %s", raw)
	}
}

func TestServerGenerateToolWritesFile(t *testing.T) {
	s := newTestServer(t)
	out := filepath.Join(t.TempDir(), "badges.pdf")

	text, isErr := callTool(t, s, "generate_documents", map[string]interface{}{
		"rows":         testRows[:1],
		"brand":        "DMUN",
		"documentType": "HORIZONTAL_BADGE",
		"outputPath":   out,
		"verify":       true,
	})
	if isErr {
		t.Fatalf("unexpected tool error: %s", text)
	}
	if !strings.Contains(text, "Verified 1 pages.") {
		t.Fatalf("expected verification: %s", text)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", data[:8])
	}
}

func TestServerGenerateToolRejectsInvalidRows(t *testing.T) {
	s := newTestServer(t)

	text, isErr := callTool(t, s, "generate_documents", map[string]interface{}{
		"rows":         []interface{}{map[string]interface{}{"name": "No Country"}},
		"brand":        "DMUN",
		"documentType": "PLACARD",
	})
	if !isErr {
		t.Fatalf("expected tool error, got: %s", text)
	}
	if !strings.Contains(text, "invalid rows") {
		t.Fatalf("unexpected error text: %s", text)
	}

	text, isErr = callTool(t, s, "generate_documents", map[string]interface{}{
		"rows":         testRows,
		"brand":        "ACME",
		"documentType": "PLACARD",
	})
	if !isErr || !strings.Contains(text, "unknown brand") {
		t.Fatalf("expected unknown brand error, got: %s", text)
	}
}

func TestServerStatusBeforeGenerate(t *testing.T) {
	s := newTestServer(t)

	text, _ := callTool(t, s, "generation_status", nil)
	if text != "No generation has run yet." {
		t.Fatalf("unexpected status: %s", text)
	}
}

func TestServerBrandsResource(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "resources/read", 12, map[string]interface{}{"uri": BrandsURI})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), "Schleswig-Holstein 2026") {
		t.Fatalf("expected the dated conference name: %s", raw)
	}

	brands, _ := callTool(t, s, "list_brands", nil)
	for _, want := range []string{"MUN-SH", "MUNBW", "DMUN", "UN", "VERTICAL_BADGE"} {
		if !strings.Contains(brands, want) {
			t.Errorf("list_brands missing %s: %s", want, brands)
		}
	}
}

func TestServerDocumentTypesResource(t *testing.T) {
	s := newTestServer(t)

	resp := sendRequest(t, s, "resources/read", 13, map[string]interface{}{"uri": DocumentTypesURI})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	raw, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(raw), "841.89") {
		t.Fatalf("expected the placard width: %s", raw)
	}
}

func TestServerMultipleRequests(t *testing.T) {
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := newTestServer(t)
	s.input = strings.NewReader(input)
	s.output = &output

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	// Each line should be a valid JSON response
	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 responses, got %d: %s", len(lines), output.String())
	}

	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
	}
}

func TestServerRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var output bytes.Buffer
	s := NewServerWithIO(strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`+"\n"), &output)
	if err := s.Run(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if output.Len() != 0 {
		t.Fatalf("expected no output, got %s", output.String())
	}
}

func TestToolAddTool(t *testing.T) {
	s := NewServerWithIO(nil, nil)

	customTool := Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": map[string]interface{}{},
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			return ToolResult{
				Content: []ContentBlock{{Type: "text", Text: "custom result"}},
			}, nil
		},
	}

	s.AddTool(customTool)

	resp := sendRequest(t, s, "tools/call", 1, map[string]interface{}{
		"name":      "custom_tool",
		"arguments": map[string]interface{}{},
	})

	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	resultBytes, _ := json.Marshal(resp.Result)
	if !strings.Contains(string(resultBytes), "custom result") {
		t.Fatalf("unexpected result: %s", string(resultBytes))
	}
}

func TestServerToolCallsRunConcurrently(t *testing.T) {
	release := make(chan struct{})
	s := NewServerWithIO(nil, nil)
	s.AddTool(Tool{
		Name: "wait",
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			<-release
			return textResult("waited"), nil
		},
	})
	s.AddTool(Tool{
		Name: "release",
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			close(release)
			return textResult("released"), nil
		},
	})

	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"wait"}}` + "\n" +
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"release"}}` + "\n"
	var output bytes.Buffer
	s.input = strings.NewReader(input)
	s.output = &output

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	out := output.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("expected 2 responses, got: %s", out)
	}
	if !strings.Contains(out, "waited") || !strings.Contains(out, "released") {
		t.Fatalf("missing tool output: %s", out)
	}
}

type gatedSource struct {
	*assets.DirSource
	started chan struct{}
	once    sync.Once
	release chan struct{}
}

func (g *gatedSource) Flag(ctx context.Context, code string) (assets.Asset, error) {
	g.once.Do(func() { close(g.started) })
	select {
	case <-g.release:
		return g.DirSource.Flag(ctx, code)
	case <-ctx.Done():
		return assets.Asset{}, ctx.Err()
	}
}

func TestServerStatusWhileGenerating(t *testing.T) {
	pic := testPNG(t)
	src := &gatedSource{
		DirSource: &assets.DirSource{
			FlagFS:   fstest.MapFS{"de.png": {Data: pic}},
			StaticFS: fstest.MapFS{"logo/color/dmun.png": {Data: pic}},
		},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	gen, err := badgegen.New(badgegen.WithSource(src))
	if err != nil {
		t.Fatalf("creating generator: %v", err)
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	s := NewServerWithIO(inR, outW)
	NewService(gen).Register(s)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(context.Background())
		outW.Close()
	}()

	call := func(id int, name string, args map[string]interface{}) {
		line, _ := json.Marshal(map[string]interface{}{
			"jsonrpc": "2.0", "id": id, "method": "tools/call",
			"params": map[string]interface{}{"name": name, "arguments": args},
		})
		if _, err := fmt.Fprintf(inW, "%s\n", line); err != nil {
			t.Errorf("writing request: %v", err)
		}
	}
	responses := bufio.NewScanner(outR)
	next := func() string {
		if !responses.Scan() {
			t.Fatalf("no response: %v", responses.Err())
		}
		return responses.Text()
	}

	call(1, "generate_documents", map[string]interface{}{
		"rows":         testRows[:1],
		"brand":        "DMUN",
		"documentType": "PLACARD",
	})
	<-src.started

	call(2, "generation_status", nil)
	if status := next(); !strings.Contains(status, "running: 0/1 pages (0%)") {
		t.Fatalf("unexpected status while generating: %s", status)
	}

	close(src.release)
	if generated := next(); !strings.Contains(generated, "Generated 1 PLACARD pages") {
		t.Fatalf("unexpected generate response: %s", generated)
	}

	inW.Close()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

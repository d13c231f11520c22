package kit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testMCPImpl = &mcp.Implementation{Name: "kit-test", Version: "0.1.0"}

func testSession(t *testing.T, register func(*mcp.Server)) *mcp.ClientSession {
	t.Helper()
	srv := mcp.NewServer(testMCPImpl, nil)
	register(srv)

	serverT, clientT := mcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	client := mcp.NewClient(testMCPImpl, nil)
	session, err := client.Connect(ctx, clientT, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

func testTool(name string) *mcp.Tool {
	return &mcp.Tool{
		Name:        name,
		Description: "test tool",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"msg": map[string]any{"type": "string"},
			},
		},
	}
}

func callRaw(t *testing.T, session *mcp.ClientSession, name string, args any) *mcp.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	return result
}

func TestRegisterMCPTool_JSONResponse(t *testing.T) {
	type echoReq struct {
		Msg string `json:"msg"`
	}
	endpoint := func(_ context.Context, r any) (any, error) {
		p := r.(*echoReq)
		return map[string]string{"echo": p.Msg}, nil
	}
	decode := func(req *mcp.CallToolRequest) (*MCPDecodeResult, error) {
		var p echoReq
		if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &MCPDecodeResult{Request: &p}, nil
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPTool(srv, testTool("echo"), endpoint, decode)
	})

	result := callRaw(t, session, "echo", map[string]any{"msg": "bonjour"})
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}

	var resp struct {
		Echo string `json:"echo"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Echo != "bonjour" {
		t.Errorf("echo: got %q, want %q", resp.Echo, "bonjour")
	}
}

func TestRegisterMCPTool_DecodeError(t *testing.T) {
	endpoint := func(_ context.Context, _ any) (any, error) {
		t.Fatal("endpoint must not run when decode fails")
		return nil, nil
	}
	decode := func(*mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return nil, errors.New("bad payload")
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPTool(srv, testTool("strict"), endpoint, decode)
	})

	result := callRaw(t, session, "strict", map[string]any{})
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	errText := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(errText, "invalid arguments") {
		t.Errorf("error text: got %q, want it to mention invalid arguments", errText)
	}
}

func TestRegisterMCPTool_EndpointError(t *testing.T) {
	endpoint := func(_ context.Context, _ any) (any, error) {
		return nil, errors.New("backend unavailable")
	}
	decode := func(*mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return &MCPDecodeResult{}, nil
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPTool(srv, testTool("flaky"), endpoint, decode)
	})

	result := callRaw(t, session, "flaky", map[string]any{})
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	errText := result.Content[0].(*mcp.TextContent).Text
	if !strings.Contains(errText, "backend unavailable") {
		t.Errorf("error text: got %q", errText)
	}
}

func TestRegisterMCPTextTool_Verbatim(t *testing.T) {
	const msg = "Found 2 results.\n\nline two"
	endpoint := func(_ context.Context, _ any) (any, error) {
		return msg, nil
	}
	decode := func(*mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return &MCPDecodeResult{}, nil
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPTextTool(srv, testTool("report"), endpoint, decode)
	})

	result := callRaw(t, session, "report", map[string]any{})
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc := result.Content[0].(*mcp.TextContent)
	if tc.Text != msg {
		t.Errorf("text: got %q, want %q", tc.Text, msg)
	}
	if strings.HasPrefix(tc.Text, `"`) {
		t.Error("text tool response was JSON-encoded")
	}
}

func TestRegisterMCPTool_EnrichCtx(t *testing.T) {
	endpoint := func(ctx context.Context, _ any) (any, error) {
		return map[string]string{"transport": GetTransport(ctx)}, nil
	}
	decode := func(*mcp.CallToolRequest) (*MCPDecodeResult, error) {
		return &MCPDecodeResult{
			EnrichCtx: func(ctx context.Context) context.Context {
				return WithTransport(ctx, "mcp_quic")
			},
		}, nil
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPTool(srv, testTool("ctx"), endpoint, decode)
	})

	result := callRaw(t, session, "ctx", map[string]any{})
	if err := result.GetError(); err != nil {
		t.Fatalf("tool error: %v", err)
	}
	tc := result.Content[0].(*mcp.TextContent)

	var resp struct {
		Transport string `json:"transport"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Transport != "mcp_quic" {
		t.Errorf("transport: got %q, want %q", resp.Transport, "mcp_quic")
	}
}

func TestRegisterMCPResource(t *testing.T) {
	res := &mcp.Resource{
		URI:         "test://greeting",
		Name:        "Greeting",
		Description: "A fixed greeting",
		MIMEType:    "application/json",
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPResource(srv, res, func(context.Context) (string, error) {
			return `{"hello":"world"}`, nil
		})
	})

	result, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "test://greeting"})
	if err != nil {
		t.Fatalf("ReadResource: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("contents: got %d, want 1", len(result.Contents))
	}
	c := result.Contents[0]
	if c.URI != "test://greeting" {
		t.Errorf("URI: got %q", c.URI)
	}
	if c.MIMEType != "application/json" {
		t.Errorf("MIMEType: got %q", c.MIMEType)
	}
	if c.Text != `{"hello":"world"}` {
		t.Errorf("Text: got %q", c.Text)
	}
}

func TestRegisterMCPResource_ReadError(t *testing.T) {
	res := &mcp.Resource{
		URI:      "test://broken",
		Name:     "Broken",
		MIMEType: "text/plain",
	}

	session := testSession(t, func(srv *mcp.Server) {
		RegisterMCPResource(srv, res, func(context.Context) (string, error) {
			return "", errors.New("storage offline")
		})
	})

	_, err := session.ReadResource(context.Background(), &mcp.ReadResourceParams{URI: "test://broken"})
	if err == nil {
		t.Fatal("expected read error")
	}
	if !strings.Contains(err.Error(), "storage offline") {
		t.Errorf("error text: got %q", err.Error())
	}
}

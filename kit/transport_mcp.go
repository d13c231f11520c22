package kit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPDecodeResult holds the decoded request and an optional context enrichment.
type MCPDecodeResult struct {
	Request   any
	EnrichCtx func(context.Context) context.Context
}

// RegisterMCPTool registers an Endpoint as an MCP tool on the given server.
// The decode function extracts the typed request from MCP arguments.
// The endpoint response is JSON-encoded into a single text content block.
//
// Migration note (feb 2026): signature changed from mcp-go to official SDK.
// - srv: *server.MCPServer → *mcp.Server
// - tool: mcp.Tool (value) → *mcp.Tool (pointer)
// - decode param: mcp.CallToolRequest (value) → *mcp.CallToolRequest (pointer)
// - Arguments are now in req.Params.Arguments as json.RawMessage, not map[string]any.
// Callers must update their decode functions accordingly.
func RegisterMCPTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, errRes := runMCPEndpoint(ctx, req, endpoint, decode)
		if errRes != nil {
			return errRes, nil
		}

		data, err := json.Marshal(resp)
		if err != nil {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("marshal: %w", err))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		}, nil
	})
}

// RegisterMCPTextTool is RegisterMCPTool for endpoints that already produce
// human-readable text. The endpoint must return a string; it is emitted
// verbatim, without JSON encoding.
func RegisterMCPTextTool(srv *mcp.Server, tool *mcp.Tool, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) {
	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, errRes := runMCPEndpoint(ctx, req, endpoint, decode)
		if errRes != nil {
			return errRes, nil
		}

		text, ok := resp.(string)
		if !ok {
			var res mcp.CallToolResult
			res.SetError(fmt.Errorf("text tool response is %T, want string", resp))
			return &res, nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil
	})
}

func runMCPEndpoint(ctx context.Context, req *mcp.CallToolRequest, endpoint Endpoint, decode func(*mcp.CallToolRequest) (*MCPDecodeResult, error)) (any, *mcp.CallToolResult) {
	decoded, err := decode(req)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("invalid arguments: %w", err))
		return nil, &res
	}
	if decoded.EnrichCtx != nil {
		ctx = decoded.EnrichCtx(ctx)
	}

	resp, err := endpoint(ctx, decoded.Request)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(errors.New(err.Error()))
		return nil, &res
	}
	return resp, nil
}

// RegisterMCPResource registers a read-only resource. The read function
// produces the full content; it is served under the resource's URI with the
// resource's declared MIME type.
func RegisterMCPResource(srv *mcp.Server, res *mcp.Resource, read func(ctx context.Context) (string, error)) {
	srv.AddResource(res, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		text, err := read(ctx)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: res.MIMEType,
				Text:     text,
			}},
		}, nil
	})
}

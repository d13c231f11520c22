package embauche

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hazyhaar/embauche/kit"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool result shaping, sized for LLM context windows.
const (
	maxSearchResults = 20
	previewRunes     = 300
)

// RegisterMCP registers the job resources and tools on an MCP server.
func (svc *Service) RegisterMCP(srv *mcp.Server) {
	svc.registerLatestResource(srv)
	svc.registerSearchResource(srv)
	svc.registerSearchJobs(srv)
	svc.registerJobDetails(srv)
	svc.registerRefreshJobs(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// jobsOrEmpty degrades fetch failures to an empty result set so MCP
// callers get a readable answer instead of a protocol error.
func jobsOrEmpty(postings []Posting, err error) ([]Posting, error) {
	if errors.Is(err, ErrFetch) {
		return []Posting{}, nil
	}
	return postings, err
}

// --- Resources ---

func (svc *Service) registerLatestResource(srv *mcp.Server) {
	res := &mcp.Resource{
		URI:         "hn://jobs/latest",
		Name:        "Latest HackerNews Jobs",
		Description: "Most recent job postings from HackerNews Who's Hiring thread",
		MIMEType:    "application/json",
	}

	kit.RegisterMCPResource(srv, res, func(ctx context.Context) (string, error) {
		jobs, err := jobsOrEmpty(svc.Jobs(ctx))
		if err != nil {
			return "", err
		}
		buf, err := json.MarshalIndent(jobs, "", "  ")
		if err != nil {
			return "", err
		}
		return string(buf), nil
	})
}

func (svc *Service) registerSearchResource(srv *mcp.Server) {
	res := &mcp.Resource{
		URI:         "hn://jobs/search",
		Name:        "Search Jobs",
		Description: "Search through job postings",
		MIMEType:    "application/json",
	}

	kit.RegisterMCPResource(srv, res, func(ctx context.Context) (string, error) {
		usage := struct {
			Message string `json:"message"`
			Example string `json:"example"`
		}{
			Message: "Use the search_jobs tool to search through job postings",
			Example: "search_jobs with query 'python' or 'remote' or 'senior'",
		}
		buf, err := json.MarshalIndent(usage, "", "  ")
		if err != nil {
			return "", err
		}
		return string(buf), nil
	})
}

// --- Tools ---

// jobSummary is the per-posting shape returned by search_jobs. Preview
// holds the first previewRunes runes of the posting text.
type jobSummary struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
	Preview   string `json:"preview"`
}

func previewText(text string) string {
	r := []rune(text)
	if len(r) <= previewRunes {
		return text
	}
	return string(r[:previewRunes]) + "..."
}

func (svc *Service) registerSearchJobs(srv *mcp.Server) {
	type req struct {
		Query string `json:"query"`
	}

	tool := &mcp.Tool{
		Name:        "search_jobs",
		Description: "Search through HackerNews job postings",
		InputSchema: inputSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "Search query (e.g., 'python', 'remote', 'senior developer')"},
		}, []string{"query"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.Query == "" {
			return "Please provide a search query", nil
		}

		matches, err := jobsOrEmpty(svc.SearchJobs(ctx, p.Query))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return fmt.Sprintf("No jobs found matching '%s'", p.Query), nil
		}

		limit := min(len(matches), maxSearchResults)
		summaries := make([]jobSummary, 0, limit)
		for _, job := range matches[:limit] {
			summaries = append(summaries, jobSummary{
				ID:        job.ID,
				Author:    job.Author,
				Timestamp: job.Timestamp,
				Preview:   previewText(job.Text),
			})
		}
		buf, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("Found %d jobs matching '%s'. Showing first %d:\n\n%s",
			len(matches), p.Query, len(summaries), buf), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTextTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerJobDetails(srv *mcp.Server) {
	type req struct {
		JobID string `json:"job_id"`
	}

	tool := &mcp.Tool{
		Name:        "get_job_details",
		Description: "Get detailed information about a specific job posting",
		InputSchema: inputSchema(map[string]any{
			"job_id": map[string]any{"type": "string", "description": "The job posting ID"},
		}, []string{"job_id"}),
	}

	endpoint := func(ctx context.Context, r any) (any, error) {
		p := r.(*req)
		if p.JobID == "" {
			return "Please provide a job ID", nil
		}

		posting, err := svc.JobByID(ctx, p.JobID)
		if err != nil {
			// A dead upstream means the posting cannot be found either.
			if errors.Is(err, ErrPostingNotFound) || errors.Is(err, ErrFetch) {
				return fmt.Sprintf("Job with ID '%s' not found", p.JobID), nil
			}
			return nil, err
		}

		buf, err := json.MarshalIndent(posting, "", "  ")
		if err != nil {
			return nil, err
		}
		return string(buf), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var p req
		if err := json.Unmarshal(r.Params.Arguments, &p); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &p}, nil
	}

	kit.RegisterMCPTextTool(srv, tool, endpoint, decode)
}

func (svc *Service) registerRefreshJobs(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "refresh_jobs",
		Description: "Refresh job postings from HackerNews (clears cache)",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	endpoint := func(ctx context.Context, _ any) (any, error) {
		n, err := svc.Refresh(ctx)
		if err != nil {
			if !errors.Is(err, ErrFetch) {
				return nil, err
			}
			n = 0
		}
		return fmt.Sprintf("Refreshed job postings. Found %d jobs.", n), nil
	}

	decode := func(r *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: struct{}{}}, nil
	}

	kit.RegisterMCPTextTool(srv, tool, endpoint, decode)
}

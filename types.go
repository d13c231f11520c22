// CLAUDE:SUMMARY Re-exports thread and store types (Posting, CacheInfo) as the embauche public API.
// Package embauche scrapes HackerNews "Who is hiring?" threads and serves
// the postings over MCP.
//
// A scrape fetches the thread page, extracts the top-level job postings,
// and snapshots them as a JSON file with a freshness TTL. Search and
// lookup run directly on the decoded snapshot. Two MCP resources and
// three MCP tools expose the whole surface to LLM clients.
package embauche

import (
	"github.com/hazyhaar/embauche/internal/store"
	"github.com/hazyhaar/embauche/internal/thread"
)

// Re-export internal types for public API.
type (
	Posting   = thread.Posting
	CacheInfo = store.Info
)

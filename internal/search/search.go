// Package search filters scraped postings in memory.
//
// Both operations are pure functions over the slice they are handed: no
// index, no persistence, document order preserved.
package search

import (
	"strings"

	"github.com/hazyhaar/embauche/internal/thread"
)

// Search returns the postings whose text contains query, compared
// case-insensitively. An empty query matches every posting.
func Search(postings []thread.Posting, query string) []thread.Posting {
	q := strings.ToLower(query)
	matches := []thread.Posting{}
	for _, p := range postings {
		if strings.Contains(strings.ToLower(p.Text), q) {
			matches = append(matches, p)
		}
	}
	return matches
}

// FindByID returns the first posting whose ID equals id exactly
// (case-sensitive), or nil when no posting matches.
func FindByID(postings []thread.Posting, id string) *thread.Posting {
	for i := range postings {
		if postings[i].ID == id {
			return &postings[i]
		}
	}
	return nil
}

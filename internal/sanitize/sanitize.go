// Package sanitize strips markup from user-generated listing content.
// Uses bluemonday to remove any HTML (script tags, event handlers,
// javascript: URLs) from listing names and descriptions, which are plain
// text and rendered by a frontend the backend does not control.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy. Initialized once via sync.Once
// for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// Listings carry plain text only, so strip every element and
		// attribute instead of allowing a UGC subset.
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// Text strips all HTML from user-provided text and trims surrounding
// whitespace. This MUST be called on listing names and descriptions before
// storing them in the database.
func Text(input string) string {
	if input == "" {
		return ""
	}
	return strings.TrimSpace(getPolicy().Sanitize(input))
}

// Package utils: shared helpers for the backend.
package utils

import (
	"log"
	"net/http"
	"time"
)

// HTTPClient is the shared client for provider fetches. Redirects are
// followed but logged so playlist hosting quirks show up in the server log.
var HTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		log.Printf("[HTTP] Redirect to: %s", req.URL.String())
		return nil
	},
}

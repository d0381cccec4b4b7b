// Package github fetches single files from GitHub repositories.
//
// Origins take the form
//
//	github://owner/repo/path/to/file.pdf[@ref]
//
// where ref is a branch, tag or commit SHA (default branch when omitted).
// Files under 1MB come back base64 encoded from the contents API; larger
// files are streamed through the download endpoint.
//
// # Authentication
//
// A personal access token (github.token in config.toml or
// BABIX_GITHUB_TOKEN) is sent through an oauth2 static token source.
// Without a token public repositories still work at 60 requests per hour.
//
// # Rate limiting
//
// Requests are paced with a token bucket. The quota GitHub reports on each
// response, and the reset time carried by rate limit errors, hold requests
// back until the window resets once fewer than ten remain.
package github

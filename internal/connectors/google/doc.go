// Package google holds shared plumbing for Google API fetchers: client
// options built from configured credentials, API error classification and
// quota-friendly rate limiting.
//
// Credentials are tried in this order: a service-account or OAuth client
// credentials file, a static access token, an API key (public files only).
package google

package google

import (
	"context"
	"errors"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrNoCredentials indicates no Google credentials are configured.
var ErrNoCredentials = errors.New("google: no credentials configured")

// Credentials holds the configured ways to authenticate.
type Credentials struct {
	CredentialsFile string
	AccessToken     string
	APIKey          string
}

// Empty reports whether no credential is set.
func (c Credentials) Empty() bool {
	return c.CredentialsFile == "" && c.AccessToken == "" && c.APIKey == ""
}

// ClientOptions converts credentials into API client options.
func (c Credentials) ClientOptions() ([]option.ClientOption, error) {
	switch {
	case c.CredentialsFile != "":
		return []option.ClientOption{
			option.WithCredentialsFile(c.CredentialsFile),
			option.WithScopes(drive.DriveReadonlyScope),
		}, nil
	case c.AccessToken != "":
		return []option.ClientOption{option.WithTokenSource(StaticTokenSource(c.AccessToken))}, nil
	case c.APIKey != "":
		return []option.ClientOption{option.WithAPIKey(c.APIKey)}, nil
	default:
		return nil, ErrNoCredentials
	}
}

// NewDriveService creates a Google Drive API service.
func NewDriveService(ctx context.Context, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, opts...)
}

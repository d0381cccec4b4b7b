package connectors

import (
	"context"

	"github.com/Mg12345-web/IA-Babix/internal/connectors/filesystem"
	"github.com/Mg12345-web/IA-Babix/internal/connectors/github"
	"github.com/Mg12345-web/IA-Babix/internal/connectors/google"
	"github.com/Mg12345-web/IA-Babix/internal/connectors/google/drive"
	"github.com/Mg12345-web/IA-Babix/internal/connectors/web"
	"github.com/Mg12345-web/IA-Babix/internal/core/domain"
)

// NewDefaultRouter registers every built-in fetcher configured from settings.
func NewDefaultRouter(ctx context.Context, s domain.Settings) *Router {
	r := NewRouter()

	r.Register(filesystem.New(s.Ingest.MaxBytes))
	r.Register(web.New(
		web.WithUserAgent(s.Web.UserAgent),
		web.WithRate(s.Web.RequestsPerSecond),
		web.WithMaxBytes(s.Ingest.MaxBytes),
		web.WithReadability(s.Web.Readability),
	), "http")
	r.Register(github.New(ctx, s.Remote.GitHubToken, github.WithMaxBytes(s.Ingest.MaxBytes)))
	r.Register(drive.New(google.Credentials{
		CredentialsFile: s.Remote.GDriveCredentialFile,
		AccessToken:     s.Remote.GDriveAccessToken,
		APIKey:          s.Remote.GDriveAPIKey,
	}, drive.WithMaxBytes(s.Ingest.MaxBytes)))

	return r
}

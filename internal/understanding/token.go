package understanding

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"docpipe/internal/config"
)

// NewTokenSource builds a cached client-credentials token source for
// the service principal identified in the configuration. The token URL
// defaults to the tenant's v2.0 token endpoint when not set explicitly.
func NewTokenSource(cfg *config.UnderstandingConfig) oauth2.TokenSource {
	tokenURL := cfg.TokenURL
	if tokenURL == "" {
		tokenURL = fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID)
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     tokenURL,
		Scopes:       []string{cfg.Scope},
	}
	return cc.TokenSource(context.Background())
}

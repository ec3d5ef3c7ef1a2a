package msauth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// Scopes requested from Azure AD. Calendars.ReadWrite covers the
// calendar-view fetch and all three mutations; offline_access yields a
// refresh token so the cached credential survives expiry.
var scopes = []string{
	"openid",
	"offline_access",
	"User.Read",
	"Calendars.ReadWrite",
}

// OAuthConfig returns the Azure AD OAuth2 configuration. The client ID
// comes from the environment so the binary carries no tenant-specific
// registration.
func OAuthConfig() *oauth2.Config {
	const oob = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("CALSYNC_CLIENT_ID"),
		ClientSecret: os.Getenv("CALSYNC_CLIENT_SECRET"),
		Endpoint:     microsoft.AzureADEndpoint("common"),
		RedirectURL:  oob,
		Scopes:       scopes,
	}
}

// GetAuthURL returns the URL the user visits to authorize access.
func GetAuthURL() string {
	return OAuthConfig().AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// HasToken checks whether a cached token exists on disk.
func HasToken() bool {
	_, err := os.ReadFile(tokenFile())
	return err == nil
}

// SaveToken exchanges an authorization code and caches the resulting
// tokens on disk.
func SaveToken(ctx context.Context, authCode string) error {
	conf := OAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile()
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// DeleteToken removes the cached token. Missing file is not an error;
// sign-out is idempotent.
func DeleteToken() error {
	err := os.Remove(tokenFile())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// tokenSource rebuilds an oauth2.TokenSource from the cached token file.
func tokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	slurp, err := os.ReadFile(tokenFile())
	if err != nil {
		return nil, fmt.Errorf("no cached Microsoft token: %w", ErrNotAuthenticated)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token file format: %w", ErrNotAuthenticated)
	}

	conf := OAuthConfig()
	return conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
	}), nil
}

// FileProvider serves credentials from the on-disk token cache written by
// SaveToken, refreshing through the OAuth endpoint when needed.
type FileProvider struct{}

// NewFileProvider creates a file-backed token provider.
func NewFileProvider() *FileProvider {
	return &FileProvider{}
}

// Credential returns the current access token, refreshed if expired.
func (p *FileProvider) Credential(ctx context.Context) (Credential, error) {
	ts, err := tokenSource(ctx)
	if err != nil {
		return Credential{}, err
	}

	t, err := ts.Token()
	if err != nil {
		return Credential{}, fmt.Errorf("failed to refresh cached token: %w", err)
	}

	return Credential{Token: t.AccessToken, ExpiresAt: t.Expiry}, nil
}

// IsAuthenticated reports whether a cached token exists. Expiry is not
// checked here; Credential refreshes through the stored refresh token.
func (p *FileProvider) IsAuthenticated() bool {
	return HasToken()
}

func tokenFile() string {
	return filepath.Join(userCacheDir(), "calsync", "msgraph.token")
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/phambaophuc/image-shrink/pkg/utils"
)

var (
	ErrNoCredential       = errors.New("no credential configured")
	ErrNoCachedCredential = errors.New("no cached credential")
)

// Credential is what the storage client needs to open a session.
type Credential struct {
	URL        string    `json:"url"`
	Key        string    `json:"key"`
	ObtainedAt time.Time `json:"obtained_at"`
	// Source identifies the provider configuration the credential came from.
	Source string `json:"source,omitempty"`
}

// Provider supplies a credential for the remote storage service.
type Provider interface {
	Credential(ctx context.Context) (Credential, error)
}

// Identifier is implemented by providers that can name their configuration
// without fetching a credential.
type Identifier interface {
	Identity() string
}

// StaticProvider returns the service URL and key it was built with, as read
// from the environment or a .env file.
type StaticProvider struct {
	url string
	key string
	now func() time.Time
}

func NewStaticProvider(url, key string) *StaticProvider {
	return &StaticProvider{
		url: strings.TrimRight(url, "/"),
		key: key,
		now: time.Now,
	}
}

func (p *StaticProvider) Credential(ctx context.Context) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if p.url == "" {
		return Credential{}, fmt.Errorf("%w: SUPABASE_URL is empty", ErrNoCredential)
	}
	if p.key == "" {
		return Credential{}, fmt.Errorf("%w: SUPABASE_KEY is empty", ErrNoCredential)
	}

	return Credential{URL: p.url, Key: p.key, ObtainedAt: p.now()}, nil
}

// Identity is the service URL plus a hash of the key, so a cached credential
// can be matched against the current configuration without storing the key
// twice.
func (p *StaticProvider) Identity() string {
	return p.url + "#" + utils.ContentHash([]byte(p.key))
}

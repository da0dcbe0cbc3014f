package tokenvault

import (
	"context"
	"sync"

	"github.com/nptech/account-gateway/internal/ports"
)

// MemoryVault is the process-scoped token store. Sessions saved here
// disappear when the gateway restarts, which is exactly the behavior
// rememberMe=false asks for.
type MemoryVault struct {
	mu        sync.Mutex
	ts        *ports.TokenSet
	attempted string
}

var _ ports.TokenVault = (*MemoryVault)(nil)

// NewMemoryVault creates an empty process-scoped vault.
func NewMemoryVault() *MemoryVault {
	return &MemoryVault{}
}

func (v *MemoryVault) Save(_ context.Context, ts ports.TokenSet) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	cp := ts
	cp.UserJSON = append([]byte(nil), ts.UserJSON...)
	v.ts = &cp
	return nil
}

func (v *MemoryVault) Load(_ context.Context) (ports.TokenSet, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ts == nil || v.ts.AccessToken == "" {
		return ports.TokenSet{}, ports.ErrNoTokens
	}
	cp := *v.ts
	cp.UserJSON = append([]byte(nil), v.ts.UserJSON...)
	return cp, nil
}

func (v *MemoryVault) Clear(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ts = nil
	return nil
}

func (v *MemoryVault) SaveAttemptedURL(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.attempted = url
	return nil
}

func (v *MemoryVault) TakeAttemptedURL(_ context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	url := v.attempted
	v.attempted = ""
	return url, nil
}

package main

import (
	"context"
	"sync"

	"github.com/asgard/webauthnd/internal/repositories"
	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// policyHolder guards the live WebauthnPolicy document against concurrent
// reads and patches from in-flight ceremony requests.
type policyHolder struct {
	mu     sync.RWMutex
	policy *model.WebauthnPolicy
}

func (h *policyHolder) Get() *model.WebauthnPolicy {
	h.mu.RLock()
	defer h.mu.RUnlock()
	p := *h.policy
	return &p
}

// Patch applies a merge-patch, persists the result, and swaps it in.
func (h *policyHolder) Patch(ctx context.Context, store *repositories.ConfigRepository, patch model.WebauthnPolicyBuilder) (*model.WebauthnPolicy, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	updated := *h.policy
	updated.Update(patch)
	if err := store.Put(ctx, updated); err != nil {
		return nil, err
	}
	h.policy = &updated
	return &updated, nil
}

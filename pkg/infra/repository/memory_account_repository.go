package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/SafeClick/ScamShield/pkg/domain"
	"github.com/SafeClick/ScamShield/pkg/domain/account"
)

// MemoryAccountRepository keeps accounts in process memory. Usernames and
// emails are unique case-insensitively.
type MemoryAccountRepository struct {
	mu         sync.RWMutex
	byUsername map[string]*account.Account
	byEmail    map[string]*account.Account
}

func NewMemoryAccountRepository() account.Repository {
	return &MemoryAccountRepository{
		byUsername: make(map[string]*account.Account),
		byEmail:    make(map[string]*account.Account),
	}
}

func (r *MemoryAccountRepository) Save(ctx context.Context, acc *account.Account) error {
	username := strings.ToLower(acc.Username)
	email := strings.ToLower(acc.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byUsername[username]; exists {
		return domain.ErrUsernameTaken
	}
	if _, exists := r.byEmail[email]; exists {
		return domain.ErrEmailTaken
	}

	r.byUsername[username] = acc
	r.byEmail[email] = acc
	return nil
}

func (r *MemoryAccountRepository) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byUsername[strings.ToLower(username)]
	if !ok {
		return nil, domain.NewNotFoundError("account", username)
	}
	return acc, nil
}

func (r *MemoryAccountRepository) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.NewNotFoundError("account", email)
	}
	return acc, nil
}

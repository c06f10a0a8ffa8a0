package signup_test

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	signup "github.com/goliatone/go-signup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*signup.UserStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	store := signup.NewUserStore(path)
	require.NoError(t, store.Load())
	return store, path
}

func TestUserStoreRegisterAndVerify(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "amy@x.com", "longenough1"))

	assert.NoError(t, store.VerifyIdentity(ctx, "amy@x.com", "longenough1"))
	assert.Error(t, store.VerifyIdentity(ctx, "amy@x.com", "wrongpassword"))
	assert.Error(t, store.VerifyIdentity(ctx, "nobody@x.com", "longenough1"))
}

func TestUserStoreUnknownUserAndWrongPasswordLookAlike(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "amy@x.com", "longenough1"))

	wrongPassword := store.VerifyIdentity(ctx, "amy@x.com", "not-the-password")
	unknownUser := store.VerifyIdentity(ctx, "ghost@x.com", "whatever123")

	require.Error(t, wrongPassword)
	require.Error(t, unknownUser)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUserStoreRejectsDuplicateEmailCaseInsensitive(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "A@x.com", "longenough1"))

	err := store.Register(ctx, "a@X.com", "otherpassword2")
	require.Error(t, err)
	assert.ErrorIs(t, err, signup.ErrEmailTaken)
}

func TestUserStoreNormalizesEmailOnLogin(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "A@x.com", "longenough1"))
	assert.NoError(t, store.VerifyIdentity(ctx, "a@X.com", "longenough1"))
}

func TestUserStorePersistsAcrossReload(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "amy@x.com", "longenough1"))
	require.NoError(t, store.Register(ctx, "bob@x.com", "alsolongenough2"))

	reloaded := signup.NewUserStore(path)
	require.NoError(t, reloaded.Load())

	assert.Equal(t, 2, reloaded.Count())
	assert.NoError(t, reloaded.VerifyIdentity(ctx, "amy@x.com", "longenough1"))
	assert.NoError(t, reloaded.VerifyIdentity(ctx, "bob@x.com", "alsolongenough2"))
	assert.Error(t, reloaded.VerifyIdentity(ctx, "amy@x.com", "alsolongenough2"))
}

func TestUserStorePersistedLayout(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "amy@x.com", "longenough1"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk map[string]struct {
		Salt string `json:"salt"`
		Hash string `json:"hash"`
	}
	require.NoError(t, json.Unmarshal(data, &onDisk))

	record, ok := onDisk["amy@x.com"]
	require.True(t, ok, "record should be keyed by normalized email")
	assert.Len(t, record.Salt, signup.SaltLength*2)
	assert.Len(t, record.Hash, signup.KeyLength*2)
	assert.NotContains(t, string(data), "longenough1", "plaintext password must never be persisted")
}

func TestUserStoreLoadToleratesMissingFile(t *testing.T) {
	store := signup.NewUserStore(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, store.Load())
	assert.Equal(t, 0, store.Count())
}

func TestUserStoreLoadToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := signup.NewUserStore(path)
	require.NoError(t, store.Load())
	assert.Equal(t, 0, store.Count())

	// store should be usable after recovering
	assert.NoError(t, store.Register(context.Background(), "amy@x.com", "longenough1"))
}

func TestUserStoreSaveLeavesNoTempFiles(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, store.Register(context.Background(), "amy@x.com", "longenough1"))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the store file should remain after an atomic save")
}

func TestUserStoreConcurrentRegistrations(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	const workers = 8

	var wg sync.WaitGroup
	dupErrs := make(chan error, workers)

	// distinct emails plus everyone racing on the same one
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.Register(ctx, fmt.Sprintf("student%d@x.com", i), "longenough1")
			if err := store.Register(ctx, "contested@x.com", "longenough1"); err != nil {
				dupErrs <- err
			}
		}(i)
	}

	wg.Wait()
	close(dupErrs)

	assert.Equal(t, workers+1, store.Count())
	assert.Len(t, dupErrs, workers-1, "exactly one racer should win the contested email")

	reloaded := signup.NewUserStore(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, workers+1, reloaded.Count())
}

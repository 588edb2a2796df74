package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoCreateAndLogin(t *testing.T) {
	store, err := OpenFileStore(t.TempDir(), true)
	require.NoError(t, err)

	account, err := store.Authenticate("alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "en", account.Locale)
	assert.Equal(t, 1, account.TrustLevel)
	assert.NotNil(t, account.Preferences)

	// Same password works again, a wrong one does not.
	_, err = store.Authenticate("alice", "hunter2")
	assert.NoError(t, err)
	_, err = store.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestNoAutoCreateRejectsUnknown(t *testing.T) {
	store, err := OpenFileStore(t.TempDir(), false)
	require.NoError(t, err)

	_, err = store.Authenticate("nobody", "pw")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestAccountsPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenFileStore(dir, true)
	require.NoError(t, err)
	_, err = store.Authenticate("bob", "secret")
	require.NoError(t, err)

	reopened, err := OpenFileStore(dir, false)
	require.NoError(t, err)
	_, err = reopened.Authenticate("bob", "secret")
	assert.NoError(t, err)
}

func TestSavePreferences(t *testing.T) {
	dir := t.TempDir()
	store, err := OpenFileStore(dir, true)
	require.NoError(t, err)

	account, err := store.Authenticate("cara", "pw")
	require.NoError(t, err)
	account.Preferences.MuteGlobalChat = true
	require.NoError(t, store.SavePreferences("cara", account.Preferences))

	reopened, err := OpenFileStore(dir, false)
	require.NoError(t, err)
	again, err := reopened.Authenticate("cara", "pw")
	require.NoError(t, err)
	assert.True(t, again.Preferences.MuteGlobalChat)

	assert.Error(t, store.SavePreferences("nobody", account.Preferences))
}

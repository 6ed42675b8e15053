package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourorg/gadhub/internal/models"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func testSession() Session {
	return Session{
		User: models.PublicUser{
			ID:        1,
			StudentID: "TUPT-22-0711",
			Email:     "a@x.com",
			FirstName: "Ana",
			LastName:  "Reyes",
			Birthday:  "2002-05-17",
		},
		Token: "header.payload.signature",
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(testSession()))

	loaded, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, "header.payload.signature", loaded.Token)
	require.Equal(t, "a@x.com", loaded.User.Email)
}

func TestLoadMissingFile(t *testing.T) {
	store := tempStore(t)

	_, ok := store.Load()
	require.False(t, ok)
}

func TestSaveIncompleteSessionIsDropped(t *testing.T) {
	store := tempStore(t)

	sess := testSession()
	sess.Token = ""
	require.NoError(t, store.Save(sess))

	_, ok := store.Load()
	require.False(t, ok, "incomplete session must not be persisted")
}

func TestLoadCorruptFileSelfHeals(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))

	_, ok := store.Load()
	require.False(t, ok)

	// The corrupt entry must be gone, not reported again.
	_, err := os.Stat(store.path)
	require.True(t, os.IsNotExist(err))
}

func TestLoadPartialSessionSelfHeals(t *testing.T) {
	store := tempStore(t)

	// Valid JSON, but there is no token: never hand back half a session.
	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte(`{"user":{"id":1}}`), 0o600))

	_, ok := store.Load()
	require.False(t, ok)

	_, err := os.Stat(store.path)
	require.True(t, os.IsNotExist(err))
}

func TestClearIsIdempotent(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(testSession()))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	_, ok := store.Load()
	require.False(t, ok)
}

func TestUpdateUserPreservesToken(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(testSession()))

	updated := testSession().User
	updated.LastName = "Reyes-Santos"
	require.NoError(t, store.UpdateUser(updated))

	loaded, ok := store.Load()
	require.True(t, ok)
	require.Equal(t, "header.payload.signature", loaded.Token)
	require.Equal(t, "Reyes-Santos", loaded.User.LastName)
}

func TestUpdateUserWithoutSessionIsNoop(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.UpdateUser(testSession().User))

	_, ok := store.Load()
	require.False(t, ok)
}

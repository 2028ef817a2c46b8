package testing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkv-db/pKV/lib/keystore"
)

// sessionCount is a stand-in for application code written against the
// IKeystore interface.
func sessionCount(store keystore.IKeystore, user string) (int, error) {
	matches, err := store.Query("sessions", map[string]keystore.Field{
		"user": keystore.String(user),
	})
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

func TestMockKeystore(t *testing.T) {
	store := new(MockKeystore)

	entry, err := keystore.NewEntry().
		PrimaryField(keystore.String("sess-1")).
		AddField("user", keystore.String("alice")).
		Build()
	require.NoError(t, err)

	store.On("Query", "sessions", map[string]keystore.Field{
		"user": keystore.String("alice"),
	}).Return([]*keystore.Entry{entry}, nil)

	count, err := sessionCount(store, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	store.AssertExpectations(t)
}

func TestMockKeystoreErrors(t *testing.T) {
	store := new(MockKeystore)
	store.On("Query", "sessions", map[string]keystore.Field{
		"user": keystore.String("bob"),
	}).Return(nil, keystore.ErrTableDoesNotExist)

	_, err := sessionCount(store, "bob")
	assert.ErrorIs(t, err, keystore.ErrTableDoesNotExist)

	store.AssertExpectations(t)
}

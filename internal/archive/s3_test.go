package archive

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"

	"github.com/local/scanbind/internal/config"
)

// open reverses seal using only the sealed payload and the password.
func open(t *testing.T, sealed []byte, password string) ([]byte, error) {
	t.Helper()
	require.Greater(t, len(sealed), len(encMagic)+saltLen)
	require.Equal(t, encMagic, string(sealed[:len(encMagic)]))

	off := len(encMagic)
	salt := sealed[off : off+saltLen]
	off += saltLen

	key := pbkdf2.Key([]byte(password), salt, kdfRounds, keyLen, sha256.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	require.Greater(t, len(sealed), off+gcm.NonceSize())
	nonce := sealed[off : off+gcm.NonceSize()]
	off += gcm.NonceSize()
	return gcm.Open(nil, nonce, sealed[off:], nil)
}

func TestSealRoundTrip(t *testing.T) {
	plain := []byte("%PDF-1.4 archived document body")

	sealed, err := seal(plain, "hunter2")
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "archived document")

	got, err := open(t, sealed, "hunter2")
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSealWrongPassword(t *testing.T) {
	sealed, err := seal([]byte("payload"), "correct")
	require.NoError(t, err)

	_, err = open(t, sealed, "wrong")
	assert.Error(t, err)
}

func TestSealUsesFreshSaltAndNonce(t *testing.T) {
	plain := []byte("same payload twice")

	a, err := seal(plain, "pw")
	require.NoError(t, err)
	b, err := seal(plain, "pw")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	for _, sealed := range [][]byte{a, b} {
		got, err := open(t, sealed, "pw")
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestStoreMissingDocument(t *testing.T) {
	cfg := config.ArchiveConfig{Bucket: "some-bucket"}
	_, err := Store(context.Background(), cfg, filepath.Join(t.TempDir(), "gone.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read document")
}

package service

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keygate/keygate/internal/crypto/domain"
)

func randomKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestCreateCipher(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	tests := []struct {
		name string
		alg  cryptoDomain.Algorithm
	}{
		{"aes-gcm", cryptoDomain.AESGCM},
		{"xchacha20-poly1305", cryptoDomain.XChaCha20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aead, err := manager.CreateCipher(key, tt.alg)
			require.NoError(t, err)
			assert.NotNil(t, aead)
		})
	}
}

func TestCreateCipherInvalidKeySize(t *testing.T) {
	manager := NewAEADManager()

	_, err := manager.CreateCipher(make([]byte, 16), cryptoDomain.AESGCM)
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
}

func TestCreateCipherUnsupportedAlgorithm(t *testing.T) {
	manager := NewAEADManager()

	_, err := manager.CreateCipher(randomKey(t), cryptoDomain.Algorithm("des"))
	assert.ErrorIs(t, err, cryptoDomain.ErrUnsupportedAlgorithm)
}

func TestCipherRoundTrip(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	plaintexts := [][]byte{
		[]byte("signing secret material"),
		[]byte{},
		make([]byte, 4096),
	}

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.XChaCha20} {
		aead, err := manager.CreateCipher(key, alg)
		require.NoError(t, err)

		for _, plaintext := range plaintexts {
			ciphertext, iv, err := aead.Encrypt(plaintext, nil)
			require.NoError(t, err)

			decrypted, err := aead.Decrypt(ciphertext, iv, nil)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		}
	}
}

func TestAESGCMUses16ByteIV(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	_, iv, err := aead.Encrypt([]byte("payload"), nil)
	require.NoError(t, err)
	assert.Len(t, iv, 16)
}

func TestXChaCha20Uses24ByteNonce(t *testing.T) {
	aead, err := NewXChaCha20Poly1305(randomKey(t))
	require.NoError(t, err)

	_, iv, err := aead.Encrypt([]byte("payload"), nil)
	require.NoError(t, err)
	assert.Len(t, iv, 24)
}

func TestCipherRejectsTamperedCiphertext(t *testing.T) {
	manager := NewAEADManager()
	key := randomKey(t)

	for _, alg := range []cryptoDomain.Algorithm{cryptoDomain.AESGCM, cryptoDomain.XChaCha20} {
		aead, err := manager.CreateCipher(key, alg)
		require.NoError(t, err)

		ciphertext, iv, err := aead.Encrypt([]byte("payload"), nil)
		require.NoError(t, err)

		tampered := append([]byte(nil), ciphertext...)
		tampered[0] ^= 0x01
		_, err = aead.Decrypt(tampered, iv, nil)
		assert.Error(t, err, "algorithm %s", alg)

		badIV := append([]byte(nil), iv...)
		badIV[0] ^= 0x01
		_, err = aead.Decrypt(ciphertext, badIV, nil)
		assert.Error(t, err, "algorithm %s", alg)
	}
}

func TestCipherRejectsWrongAAD(t *testing.T) {
	aead, err := NewAESGCM(randomKey(t))
	require.NoError(t, err)

	ciphertext, iv, err := aead.Encrypt([]byte("payload"), []byte("workspace-a"))
	require.NoError(t, err)

	_, err = aead.Decrypt(ciphertext, iv, []byte("workspace-b"))
	assert.Error(t, err)
}

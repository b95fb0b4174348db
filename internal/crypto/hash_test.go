package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		errMsg   string
		password string
		wantErr  bool
	}{
		{
			name:     "successful hash",
			password: "correct horse battery staple",
			wantErr:  false,
		},
		{
			name:     "unicode password",
			password: "пароль密码",
			wantErr:  false,
		},
		{
			name:     "empty password",
			password: "",
			wantErr:  true,
			errMsg:   "password cannot be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			digest, err := HashPassword(tt.password)

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Empty(t, digest)
			} else {
				require.NoError(t, err)
				// SHA256 хеш всегда 64 символа (hex-encoded, 32 bytes * 2)
				assert.Len(t, digest, DigestSize)
				assert.Regexp(t, "^[a-f0-9]{64}$", digest, "должен быть hex-encoded")
			}
		})
	}
}

func TestHashPassword_Deterministic(t *testing.T) {
	hash1, err := HashPassword("same input")
	require.NoError(t, err)
	hash2, err := HashPassword("same input")
	require.NoError(t, err)

	assert.Equal(t, hash1, hash2, "SHA256 должен генерировать одинаковые хеши для одинаковых входных данных")

	other, err := HashPassword("same input!")
	require.NoError(t, err)
	assert.NotEqual(t, hash1, other)
}

func TestHashPassword_KnownVector(t *testing.T) {
	// hashlib.sha256("test".encode("utf-8")).hexdigest()
	expected := "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"

	digest, err := HashPassword("test")
	require.NoError(t, err)
	assert.Equal(t, expected, digest)
}

func TestVerifyPassword(t *testing.T) {
	validDigest, err := HashPassword("secret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		digest   string
		errMsg   string
		wantErr  bool
	}{
		{name: "match", password: "secret", digest: validDigest},
		{name: "wrong password", password: "Secret", digest: validDigest, wantErr: true, errMsg: "does not match"},
		{name: "empty password", password: "", digest: validDigest, wantErr: true, errMsg: "password cannot be empty"},
		{name: "empty digest", password: "secret", digest: "", wantErr: true, errMsg: "stored digest cannot be empty"},
		{name: "truncated digest", password: "secret", digest: validDigest[:10], wantErr: true, errMsg: "does not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyPassword(tt.password, tt.digest)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestVerifyPassword_MismatchSentinel(t *testing.T) {
	digest, err := HashPassword("a")
	require.NoError(t, err)
	assert.ErrorIs(t, VerifyPassword("b", digest), ErrPasswordMismatch)
}

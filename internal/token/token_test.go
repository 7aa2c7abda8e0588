package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresSecret(t *testing.T) {
	_, err := New("  ")
	require.Error(t, err)

	svc, err := New("test-secret")
	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestService_IssueAndValidate(t *testing.T) {
	svc, err := New("test-secret")
	require.NoError(t, err)

	t.Run("round trip returns the subject", func(t *testing.T) {
		signed, err := svc.Issue("alice", 30*time.Minute)
		require.NoError(t, err)
		require.NotEmpty(t, signed)

		subject, err := svc.Validate(signed)
		require.NoError(t, err)
		assert.Equal(t, "alice", subject)
	})

	t.Run("zero ttl is already expired", func(t *testing.T) {
		signed, err := svc.Issue("alice", 0)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("negative ttl is already expired", func(t *testing.T) {
		signed, err := svc.Issue("alice", -time.Minute)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("malformed token fails", func(t *testing.T) {
		_, err := svc.Validate("not-a-token")
		assert.Error(t, err)
	})

	t.Run("token signed with another secret fails", func(t *testing.T) {
		other, err := New("other-secret")
		require.NoError(t, err)

		signed, err := other.Issue("alice", 30*time.Minute)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("unsigned token fails", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
			"sub": "alice",
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})

	t.Run("token without subject fails", func(t *testing.T) {
		noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"exp": time.Now().Add(time.Hour).Unix(),
		})
		signed, err := noSub.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Validate(signed)
		assert.Error(t, err)
	})
}

package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuePairAndParse(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	id := uuid.New()

	pair, err := svc.IssuePair(id, "admin", "ADMIN")
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)
	assert.WithinDuration(t, time.Now().Add(time.Minute), pair.AccessExpiresAt, 5*time.Second)

	c, err := svc.Parse(pair.Access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, "admin", c.Username)
	assert.Equal(t, "ADMIN", c.Role)

	c, err = svc.Parse(pair.Refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Empty(t, c.Role)
}

func TestParse_Rejections(t *testing.T) {
	svc := NewHMACService("access-secret", "refresh-secret", time.Minute, time.Hour)
	pair, err := svc.IssuePair(uuid.New(), "u", "USER")
	require.NoError(t, err)

	other := NewHMACService("other", "other-refresh", time.Minute, time.Hour)
	forged, err := other.IssuePair(uuid.New(), "u", "ADMIN")
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		tokenType string
		want      error
	}{
		{"refresh used as access", pair.Refresh, TokenTypeAccess, ErrTokenInvalid},
		{"access used as refresh", pair.Access, TokenTypeRefresh, ErrTokenInvalid},
		{"foreign secret", forged.Access, TokenTypeAccess, ErrTokenInvalid},
		{"garbage", "not.a.token", TokenTypeAccess, ErrTokenInvalid},
		{"unknown type", pair.Access, "id", ErrWrongTokenType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Parse(tt.token, tt.tokenType)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_Expired(t *testing.T) {
	svc := NewHMACService("a", "r", time.Minute, time.Hour)
	issued := time.Now().Add(-2 * time.Minute)
	svc.now = func() time.Time { return issued }
	pair, err := svc.IssuePair(uuid.New(), "u", "USER")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Parse(pair.Access, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = svc.Parse(pair.Refresh, TokenTypeRefresh)
	assert.NoError(t, err)
}

func TestIssuePair_NotConfigured(t *testing.T) {
	svc := NewHMACService("", "r", time.Minute, time.Hour)
	_, err := svc.IssuePair(uuid.New(), "u", "USER")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-session-secret")

func TestSignSession_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	jti := NewJTI()
	token, err := SignSession(testSecret, 42, jti, now, now.Add(time.Hour))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := SessionClaimsFromToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)
}

func TestSessionClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	valid, err := SignSession(testSecret, 1, NewJTI(), now, now.Add(time.Hour))
	require.NoError(t, err)
	expired, err := SignSession(testSecret, 1, NewJTI(), now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	noJTI, err := SignSession(testSecret, 1, "", now, now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret []byte
	}{
		{name: "garbage", token: "not-a-jwt", secret: testSecret},
		{name: "wrong secret", token: valid, secret: []byte("other")},
		{name: "expired", token: expired, secret: testSecret},
		{name: "missing jti", token: noJTI, secret: testSecret},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			claims, err := SessionClaimsFromToken(tt.token, tt.secret)
			require.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestSessionClaimsFromToken_RejectsOtherAlg(t *testing.T) {
	t.Parallel()

	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ID:        NewJTI(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}})
	s, err := tok.SignedString(testSecret)
	require.NoError(t, err)

	_, err = SessionClaimsFromToken(s, testSecret)
	require.Error(t, err)
}

func TestUserID_InvalidSubject(t *testing.T) {
	t.Parallel()

	for _, sub := range []string{"", "abc", "0", "-3"} {
		c := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		_, err := c.UserID()
		assert.ErrorIs(t, err, ErrInvalidSubject, sub)
	}
}

func TestCookies(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour)
	c := CreateCookie(SessionCookie, "v", "/", exp, true)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "v", c.Value)

	d := DeleteCookie(SessionCookie, "/", false)
	assert.Equal(t, -1, d.MaxAge)
	assert.Empty(t, d.Value)

	assert.Len(t, Sha256Hex("abc"), 64)
	assert.NotEqual(t, NewJTI(), NewJTI())
}

package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	issuer = "smart-hr"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrNotConfigured  = errors.New("jwt secrets not configured")
)

type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"token_type"`

	jwtlib.RegisteredClaims
}

type TokenPair struct {
	Access          string
	Refresh         string
	AccessExpiresAt time.Time
}

type Service interface {
	IssuePair(userID uuid.UUID, username, role string) (TokenPair, error)
	// Parse verifies token and rejects it unless it was issued as tokenType.
	Parse(token, tokenType string) (Claims, error)
}

type signer struct {
	secret []byte
	ttl    time.Duration
}

type HMACService struct {
	access  signer
	refresh signer
	now     func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessExpiresIn, refreshExpiresIn time.Duration) *HMACService {
	return &HMACService{
		access:  signer{secret: []byte(accessSecret), ttl: accessExpiresIn},
		refresh: signer{secret: []byte(refreshSecret), ttl: refreshExpiresIn},
		now:     time.Now,
	}
}

// IssuePair signs an access token carrying the role, so route guards never
// need a user lookup, and a role-less refresh token.
func (s *HMACService) IssuePair(userID uuid.UUID, username, role string) (TokenPair, error) {
	now := s.now().UTC()

	access, accessExp, err := s.sign(TokenTypeAccess, Claims{UserID: userID, Username: username, Role: role}, now)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, _, err := s.sign(TokenTypeRefresh, Claims{UserID: userID}, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh, AccessExpiresAt: accessExp}, nil
}

func (s *HMACService) Parse(token, tokenType string) (Claims, error) {
	sg, err := s.signerFor(tokenType)
	if err != nil {
		return Claims{}, err
	}

	p := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	_, err = p.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return sg.secret, nil
	})
	switch {
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	case err != nil:
		return Claims{}, ErrTokenInvalid
	case c.TokenType != tokenType:
		return Claims{}, ErrWrongTokenType
	case c.UserID == uuid.Nil:
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}

func (s *HMACService) sign(tokenType string, c Claims, now time.Time) (string, time.Time, error) {
	sg, err := s.signerFor(tokenType)
	if err != nil {
		return "", time.Time{}, err
	}
	exp := now.Add(sg.ttl)

	c.TokenType = tokenType
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    issuer,
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(exp),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(sg.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *HMACService) signerFor(tokenType string) (signer, error) {
	var sg signer
	switch tokenType {
	case TokenTypeAccess:
		sg = s.access
	case TokenTypeRefresh:
		sg = s.refresh
	default:
		return signer{}, ErrWrongTokenType
	}
	if len(sg.secret) == 0 || sg.ttl <= 0 {
		return signer{}, ErrNotConfigured
	}
	return sg, nil
}

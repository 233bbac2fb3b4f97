package security

import (
	"errors"
	"strconv"
	"time"

	"github.com/linkin-purry/chat-service/internal/domain"

	"github.com/golang-jwt/jwt"
)

// SessionClaims mirrors the payload the login service puts into the session
// cookie: the user id travels in a dedicated field, as a decimal string.
type SessionClaims struct {
	UserID string `json:"userId"`
	jwt.StandardClaims
}

// JWTCodec signs and verifies HS256 session tokens with a shared secret.
// Verification is stateless; expiry comes from the exp claim (fixed TTL from
// issuance).
type JWTCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewJWTCodec(secret string, ttl time.Duration) *JWTCodec {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTCodec{secret: []byte(secret), ttl: ttl}
}

func (c *JWTCodec) TTL() time.Duration {
	return c.ttl
}

// Sign issues a token for userID with exp=now+ttl. Only the login
// collaborator issues tokens; this core verifies them.
func (c *JWTCodec) Sign(userID domain.UserID, now time.Time) (string, error) {
	claims := SessionClaims{
		UserID: strconv.FormatUint(uint64(userID), 10),
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(c.ttl).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(c.secret)
}

// Verify validates signature and expiry and returns the embedded user id.
// Errors map onto the session taxonomy: domain.ErrTokenExpired for a token
// past its exp claim, domain.ErrTokenInvalid for everything else.
func (c *JWTCodec) Verify(tokenStr string) (domain.UserID, error) {
	if tokenStr == "" {
		return 0, domain.ErrTokenMissing
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrTokenInvalid
		}
		return c.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0 {
			return 0, domain.ErrTokenExpired
		}
		return 0, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return 0, domain.ErrTokenInvalid
	}

	id, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.ErrTokenInvalid
	}

	return domain.UserID(id), nil
}

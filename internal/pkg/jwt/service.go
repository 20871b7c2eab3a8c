package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/session"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims mirrors the access token issued by the hosted auth backend.
type Claims struct {
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`

	jwtlib.RegisteredClaims
}

type Service interface {
	ValidateToken(tokenString string) (session.Session, error)
}

type HMACService struct {
	secret []byte
	issuer string
	leeway time.Duration

	now func() time.Time
}

func NewHMACService(secret, issuer string) *HMACService {
	return &HMACService{
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		leeway: 5 * time.Second,
		now:    time.Now,
	}
}

func (s *HMACService) ValidateToken(tokenString string) (session.Session, error) {
	if len(s.secret) == 0 {
		return session.Session{}, ErrTokenInvalid
	}

	opts := []jwtlib.ParserOption{
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithLeeway(s.leeway),
		jwtlib.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwtlib.WithIssuer(s.issuer))
	}
	p := jwtlib.NewParser(opts...)

	var c Claims
	tok, err := p.ParseWithClaims(tokenString, &c, func(token *jwtlib.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			// The claims are still decoded so callers can tell whose session ended.
			sess, cerr := c.toSession()
			if cerr != nil {
				return session.Session{}, ErrTokenExpired
			}
			return sess, ErrTokenExpired
		}
		return session.Session{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if tok == nil || !tok.Valid {
		return session.Session{}, ErrTokenInvalid
	}

	return c.toSession()
}

func (c Claims) toSession() (session.Session, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: subject is not a uuid", ErrTokenInvalid)
	}
	companyID, err := uuid.Parse(c.CompanyID)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: company_id is not a uuid", ErrTokenInvalid)
	}
	role, err := session.ParseRole(c.Role)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	sess := session.Session{UserID: userID, CompanyID: companyID, Role: role}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time.UTC()
	}
	return sess, nil
}

// Sign issues a token in the auth backend's format. Used by matchctl and tests.
func (s *HMACService) Sign(sess session.Session, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 || ttl <= 0 {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	c := Claims{
		CompanyID: sess.CompanyID.String(),
		Role:      sess.Role.String(),
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   sess.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(s.secret)
}

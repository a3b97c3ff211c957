package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"sneakerspot/internal/pkg/logger"
	userdomain "sneakerspot/internal/service/user/domain"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("wrong token type")
)

// Claims is the JWT payload for both token types. Type distinguishes access
// from refresh so one can never stand in for the other.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	Type  string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// Identity is the result of verifying an access token.
type Identity struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// TokenService signs and verifies JWTs and owns refresh-token rotation.
// Refresh tokens are persisted as sha256 hashes only.
type TokenService struct {
	secret []byte
	tokens userdomain.RefreshTokenStore
}

func NewTokenService(secret string, tokens userdomain.RefreshTokenStore) *TokenService {
	return &TokenService{secret: []byte(secret), tokens: tokens}
}

// IssuePair creates a fresh access/refresh pair for the user and stores the
// refresh token's hash.
func (s *TokenService) IssuePair(ctx context.Context, user *userdomain.User) (*TokenPair, error) {
	access, err := s.sign(user, tokenTypeAccess, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(ctx, user.UserID, hashToken(refresh), time.Now().Add(refreshTokenTTL)); err != nil {
		return nil, fmt.Errorf("persist refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}

// Verify checks an access token and returns the identity it carries.
func (s *TokenService) Verify(_ context.Context, token string) (*Identity, error) {
	claims, err := s.parse(token, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, ErrInvalidToken
	}
	return &Identity{UserID: userID, Email: claims.Email, Role: claims.Role}, nil
}

// Refresh rotates a refresh token: the old one is invalidated and a new pair
// issued. A token that parses but is absent from the store (already rotated,
// or revoked by logout) is rejected.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string, lookup func(ctx context.Context, userID int64) (*userdomain.User, error)) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	hash := hashToken(refreshToken)
	userID, err := s.tokens.Find(ctx, hash)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if fmt.Sprintf("%d", userID) != claims.Subject {
		return nil, ErrInvalidToken
	}
	if err := s.tokens.Delete(ctx, hash); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Msg("stale refresh token delete failed")
	}

	user, err := lookup(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return s.IssuePair(ctx, user)
}

// Revoke drops the stored hash for one refresh token.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	return s.tokens.Delete(ctx, hashToken(refreshToken))
}

// RevokeAll logs the user out of every session.
func (s *TokenService) RevokeAll(ctx context.Context, userID int64) error {
	return s.tokens.DeleteForUser(ctx, userID)
}

func (s *TokenService) sign(user *userdomain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		Type:  tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        randomID(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *TokenService) parse(token, wantType string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongType
	}
	return claims, nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// randomID gives every token a unique jti so two tokens signed in the same
// second still differ.
func randomID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

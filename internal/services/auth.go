package services

import (
	"errors"
	"time"

	"rankr-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims binds one connection-capable identity: a participant of a poll.
// Admin status is not carried in the token; it is derived from the poll's
// adminID at authorization time.
type TokenClaims struct {
	PollID string
	UserID string
	Name   string
}

type AuthService struct {
	jwtSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

// IssueToken signs a token for a participant. The token carries no expiry of
// its own: it is only useful while the poll record exists, and the record
// expires on its own TTL.
func (s *AuthService) IssueToken(pollID, userID, name string) (string, error) {
	claims := jwt.MapClaims{
		"pollID": pollID,
		"name":   name,
		"sub":    userID,
		"iat":    time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) VerifyToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, models.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, models.ErrInvalidToken
	}

	pollID, _ := claims["pollID"].(string)
	name, _ := claims["name"].(string)
	userID, _ := claims["sub"].(string)
	if pollID == "" || userID == "" {
		return TokenClaims{}, models.ErrInvalidToken
	}

	return TokenClaims{PollID: pollID, UserID: userID, Name: name}, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"vidly/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	timeNow         = time.Now
	parseWithClaims = jwt.ParseWithClaims

	// ErrInvalidCredentials 帳號不存在或密碼錯誤，兩者不區分
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// CustomClaims 定義 JWT 負載內容
type CustomClaims struct {
	UserID  uuid.UUID `json:"id"`
	IsAdmin bool      `json:"isAdmin"`
	jwt.RegisteredClaims
}

// AuthenticateUser 以 bcrypt 比對密碼，失敗一律回傳 ErrInvalidCredentials
func AuthenticateUser(user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 HS256 JWT
func IssueAccessToken(secret string, user model.User, ttl time.Duration) (string, time.Time, error) {
	if secret == "" {
		return "", time.Time{}, fmt.Errorf("jwt secret not set")
	}

	now := timeNow()
	exp := now.Add(ttl)
	claims := CustomClaims{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

// VerifyAccessToken 驗證並解析 JWT 令牌
func VerifyAccessToken(secret, tokenString string) (*CustomClaims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret not set")
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token has no user id")
	}
	return claims, nil
}

package auth

import (
	"errors"
	"time"

	"inc/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleViewer    = "VIEWER"
	RoleAdmin     = "ADMIN"
	RoleWebMaster = "WEB_MASTER"
	RoleJudge     = "JUDGE"
)

const tokenLifetime = 24 * time.Hour

type Claims struct {
	Subject string   `json:"sub"`
	Roles   []string `json:"roles"`
	Exp     int64    `json:"exp"`
}

func (claims *Claims) FromJWTClaims(jwtClaims jwt.Claims) error {
	mapClaims, ok := jwtClaims.(jwt.MapClaims)
	if !ok {
		return errors.New("unexpected claims type")
	}
	subject, _ := mapClaims["sub"].(string)
	if subject == "" {
		return errors.New("token has no subject")
	}
	roles := []string{}
	if raw, ok := mapClaims["roles"].([]interface{}); ok {
		for _, role := range raw {
			if r, ok := role.(string); ok {
				roles = append(roles, r)
			}
		}
	}
	exp, _ := mapClaims["exp"].(float64)
	claims.Subject = subject
	claims.Roles = roles
	claims.Exp = int64(exp)
	return nil
}

func (claims *Claims) Valid() error {
	if time.Now().Unix() > claims.Exp {
		return jwt.ErrTokenExpired
	}
	return nil
}

// HasAnyRole reports whether the claims hold at least one of the roles.
// An empty role list is satisfied by any authenticated subject.
func (claims *Claims) HasAnyRole(roles []string) bool {
	if len(roles) == 0 {
		return true
	}
	for _, required := range roles {
		for _, role := range claims.Roles {
			if required == role {
				return true
			}
		}
	}
	return false
}

// ErrNoSecret is returned while JWT_SECRET is unset; tokens are never signed with an empty key.
var ErrNoSecret = errors.New("JWT_SECRET is not configured")

func CreateToken(subject string, roles []string) (string, error) {
	return createToken(config.Env().JWTSecret, subject, roles)
}

func ParseToken(tokenString string) (*Claims, error) {
	return parseToken(config.Env().JWTSecret, tokenString)
}

func createToken(secret string, subject string, roles []string) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":   subject,
			"roles": roles,
			"exp":   time.Now().Add(tokenLifetime).Unix(),
		})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func parseToken(secret string, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	claims := &Claims{}
	if err := claims.FromJWTClaims(token.Claims); err != nil {
		return nil, err
	}
	if err := claims.Valid(); err != nil {
		return nil, err
	}
	return claims, nil
}

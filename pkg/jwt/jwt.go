package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BearerPrefix prefijo con el que el API entrega y espera el access token.
const BearerPrefix = "Bearer "

// ErrExpired lo devuelve Parse (envuelto) cuando el token venció; usar errors.Is.
var ErrExpired = jwt.ErrTokenExpired

// Claims formato de los access tokens del API de pedidos: el id del usuario más los claims estándar.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Generate genera un token JWT firmado para userID con la vigencia indicada.
func Generate(secret, userID string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token (con o sin prefijo Bearer) y devuelve el userID.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(StripBearer(tokenString), &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.UserID, nil
}

// ExpiresAt lee el claim exp sin verificar la firma: el cliente no conoce el secret del servidor,
// solo necesita saber si vale la pena refrescar antes de llamar.
func ExpiresAt(tokenString string) (time.Time, error) {
	claims := &Claims{}
	_, _, err := jwt.NewParser().ParseUnverified(StripBearer(tokenString), claims)
	if err != nil {
		return time.Time{}, fmt.Errorf("jwt: token ilegible: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("jwt: token sin exp")
	}
	return claims.ExpiresAt.Time, nil
}

// Expired indica si el token vence antes de now+leeway. Un token ilegible se considera vigente:
// decide el servidor.
func Expired(tokenString string, now time.Time, leeway time.Duration) bool {
	exp, err := ExpiresAt(tokenString)
	if err != nil {
		return false
	}
	return !now.Add(leeway).Before(exp)
}

// StripBearer quita el prefijo "Bearer " si existe.
func StripBearer(tokenString string) string {
	s := strings.TrimSpace(tokenString)
	if len(s) >= len(BearerPrefix) && strings.EqualFold(s[:len(BearerPrefix)], BearerPrefix) {
		return strings.TrimSpace(s[len(BearerPrefix):])
	}
	return s
}

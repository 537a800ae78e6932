package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

var (
	ErrEmptySecret  = errors.New("jwt: secret vacío")
	ErrInvalidToken = errors.New("jwt: token inválido")
)

// Claims lleva el actor en el token para que RequireRole decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "admin" | "bodeguero" | "vendedor"
}

// Actor devuelve el actor de dominio que representa el token.
func (c Claims) Actor() entity.Actor {
	return entity.Actor{UserID: c.UserID, Role: c.Role}
}

// Manager firma y verifica tokens HS256 con un secreto compartido.
// Si issuer no está vacío, Verify exige que el token lo traiga.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewManager construye el firmador; ttl <= 0 produce tokens ya expirados.
func NewManager(secret, issuer string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}, nil
}

// Sign emite un token para el actor.
func (m *Manager) Sign(actor entity.Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   actor.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: actor.UserID,
		Role:   actor.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Verify valida firma, expiración y emisor, y devuelve el actor del token.
func (m *Manager) Verify(tokenString string) (entity.Actor, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, opts...)
	if err != nil {
		return entity.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" {
		return entity.Actor{}, ErrInvalidToken
	}
	return claims.Actor(), nil
}

// Generate firma un token de un solo uso sin crear un Manager.
func Generate(secret string, actor entity.Actor, issuer string, expMinutes int) (string, error) {
	m, err := NewManager(secret, issuer, time.Duration(expMinutes)*time.Minute)
	if err != nil {
		return "", err
	}
	return m.Sign(actor)
}

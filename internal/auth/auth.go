// Package auth вход администратора: одна учётная запись из конфигурации,
// сессия в локальном хранилище и JWT с её идентификатором.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/config"
	"storefront/internal/domain"
	"storefront/internal/localstore"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
)

type Manager struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration
	store  localstore.Store
	now    func() time.Time
}

// NewManager берёт готовый bcrypt-хеш или хеширует пароль из конфигурации
func NewManager(cfg config.AuthConfig, store localstore.Store) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost); err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	return &Manager{
		email:  strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		hash:   hash,
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		store:  store,
		now:    time.Now,
	}, nil
}

// Login при успехе сохраняет сессию под user:<sid> и подписывает токен
func (m *Manager) Login(ctx context.Context, email, password string) (string, *domain.Session, error) {
	if strings.ToLower(strings.TrimSpace(email)) != m.email {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(m.hash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	sess := &domain.Session{UserID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(m.email)).String(), Email: m.email, IsAdmin: true}
	if err := localstore.SetJSON(ctx, m.store, localstore.UserKey(sid), sess); err != nil {
		return "", nil, fmt.Errorf("save session: %w", err)
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		ID:        sid,
		Subject:   sess.UserID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, sess, nil
}

// Current проверяет токен и возвращает сохранённую сессию
func (m *Manager) Current(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}
	var sess domain.Session
	if err := localstore.GetJSON(ctx, m.store, localstore.UserKey(claims.ID), &sess); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &sess, nil
}

// Logout удаляет сессию; повторный выход не ошибка
func (m *Manager) Logout(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, localstore.UserKey(claims.ID)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (m *Manager) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || claims.ID == "" {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Package inmemdb is an in-memory stand-in for the campus backend, used by the demo mode and by tests.
package inmemdb

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/smartcampusucv/web/core"
	"github.com/smartcampusucv/web/core/activity"
	"github.com/smartcampusucv/web/core/enrollment"
	"github.com/smartcampusucv/web/core/participation"
	"github.com/smartcampusucv/web/core/recognition"
	"github.com/smartcampusucv/web/core/user"
)

var (
	NowFunc = time.Now // mockable

	tokenTTL = 24 * time.Hour
)

type (
	DB struct {
		secret []byte

		sync.RWMutex
		pk    int
		users map[int]*userRow
		acts  map[int]*activity.Activity
		inscs map[int]*enrollment.Inscription
		parts map[int]*participation.Participation
		recs  map[int]*recognition.Recognition
	}

	userRow struct {
		user.User
		PasswordHash []byte
	}
)

// Open returns an empty backend signing its tokens with secret.
func Open(secret string) *DB {
	return &DB{
		secret: []byte(secret),
		users:  make(map[int]*userRow),
		acts:   make(map[int]*activity.Activity),
		inscs:  make(map[int]*enrollment.Inscription),
		parts:  make(map[int]*participation.Participation),
		recs:   make(map[int]*recognition.Recognition),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pk++
	return db.pk
}

func (db *DB) issueToken(usr user.User) (string, error) {
	now := NowFunc()
	claims := user.Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.Itoa(usr.ID),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(tokenTTL).Unix(),
		},
		Email: usr.CorreoInstitucional,
		Rol:   usr.Rol,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(db.secret)
	return token, errors.Wrap(err, "signing token")
}

// currentUser resolves the bearer token in ctx. Must be called with a lock held.
func (db *DB) currentUser(ctx context.Context) (*userRow, error) {
	raw := core.TokenFromContext(ctx)
	if raw == "" {
		return nil, apiError(http.StatusUnauthorized, "Unauthorized")
	}
	var claims user.Claims
	parser := jwt.Parser{SkipClaimsValidation: true}
	_, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return db.secret, nil
	})
	if err != nil || !claims.VerifyExpiresAt(NowFunc().Unix(), true) {
		return nil, apiError(http.StatusUnauthorized, "Unauthorized")
	}
	usr, ok := db.users[claims.UserID()]
	if !ok {
		return nil, apiError(http.StatusUnauthorized, "Unauthorized")
	}
	return usr, nil
}

func (db *DB) summary(userID int) *user.Summary {
	if row, ok := db.users[userID]; ok {
		s := row.Summary()
		return &s
	}
	return nil
}

func apiError(status int, msg string) error {
	return &core.APIError{Status: status, Message: msg}
}

func errNotFound(what string) error {
	return apiError(http.StatusNotFound, what+" no encontrado")
}

var errForbidden = apiError(http.StatusForbidden, "Forbidden resource")

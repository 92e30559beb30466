package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ------------------------------ play tokens --------------------------------

// signPlayToken creates an HS256 JWT naming the game it unlocks.
func (s *Server) signPlayToken(gameID string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(s.cfg.TokenTTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"gid": gameID,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

// parsePlayToken validates tok and returns the game ID it names.
func (s *Server) parsePlayToken(tok string) (string, error) {
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return "", errors.New("invalid token")
	}
	gid, _ := claims["gid"].(string)
	if gid == "" {
		return "", errors.New("invalid token")
	}
	return gid, nil
}

// setPlayCookie writes the play token cookie.
func (s *Server) setPlayCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the play cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	// Authorization: Bearer <token>
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// ctxGameKey is the context key type for the authorized game ID.
type ctxGameKey struct{}

// requirePlayToken lets a request through only when its token names the {id} in the URL.
func (s *Server) requirePlayToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := s.bearerOrCookie(r)
		if tok == "" {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		gid, err := s.parsePlayToken(tok)
		if err != nil {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusUnauthorized)
			return
		}
		if gid != chi.URLParam(r, "id") {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxGameKey{}, gid)))
	})
}

// gameID returns the game ID authorized by requirePlayToken.
func gameID(r *http.Request) string {
	id, _ := r.Context().Value(ctxGameKey{}).(string)
	return id
}

// ------------------------------ admin token --------------------------------

// requireAdmin checks X-Admin-Token against the configured bcrypt hash.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	hash := []byte(s.cfg.AdminTokenHash)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := r.Header.Get("X-Admin-Token")
		if tok == "" || bcrypt.CompareHashAndPassword(hash, []byte(tok)) != nil {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

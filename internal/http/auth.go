package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"finovo/internal/auth"
	"finovo/internal/core"
	"finovo/internal/log"
)

// SessionCookie carries the session token for browser clients.
const SessionCookie = "finovo_session"

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}

// authed resolves the session, loads the profile and stores both as an
// auth.Context before calling next. Requests without a valid session get 401.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess, err := s.deps.Auth.Resolve(ctx, bearerToken(r))
		if err != nil {
			if !errors.Is(err, auth.ErrSessionNotFound) {
				writeError(w, r, err)
				return
			}
			writeAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Please sign in to continue.", nil)
			return
		}

		ac := auth.Context{Session: *sess}
		profile, err := s.deps.Profiles.Load(ctx, sess.UserID, sess.Email)
		if err != nil {
			writeError(w, r, err)
			return
		}
		ac.Profile = core.Some(profile)

		logger := log.FromContext(ctx).With(log.FieldUserID, sess.UserID)
		ctx = auth.WithContext(ctx, ac)
		ctx = log.WithLogger(ctx, logger)
		next(w, r.WithContext(ctx))
	}
}

// requireCompleteProfile answers 409 with the missing fields until the
// profile has income, age and both targets.
func (s *Server) requireCompleteProfile(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ac := authContext(r)
		if !ac.ProfileComplete() {
			p, _ := ac.Profile.Get()
			writeAPIError(w, http.StatusConflict, CodeProfileRequired,
				"Complete your financial profile to see the dashboard.",
				map[string]any{"missing": core.MissingProfileFields(p)})
			return
		}
		next(w, r)
	}
}

// authContext is only called behind authed.
func authContext(r *http.Request) auth.Context {
	ac, _ := auth.FromContext(r.Context())
	return ac
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sess *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.opts.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

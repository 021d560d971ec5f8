package http

import (
	"net/http"

	"finovo/internal/auth"
	"finovo/internal/core"
	"finovo/internal/http/schema"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type sessionResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	ExpiresAt string `json:"expires_at"`
}

func newSessionResponse(sess *auth.Session) sessionResponse {
	return sessionResponse{
		Token:     sess.Token,
		UserID:    sess.UserID,
		Email:     sess.Email,
		ExpiresAt: sess.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decode(r, schema.SignUp, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.deps.Auth.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := s.decode(r, schema.SignIn, &req); err != nil {
		writeError(w, r, err)
		return
	}
	sess, err := s.deps.Auth.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.setSessionCookie(w, sess)
	writeJSON(w, http.StatusOK, newSessionResponse(sess))
}

// handleSignOut is idempotent: unknown tokens still clear the cookie.
func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := s.deps.Auth.SignOut(r.Context(), token); err != nil {
			writeError(w, r, err)
			return
		}
	}
	s.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type profileResponse struct {
	Profile  core.Profile `json:"profile"`
	Complete bool         `json:"complete"`
	Missing  []string     `json:"missing"`
}

func (s *Server) newProfileResponse(p core.Profile) profileResponse {
	missing := s.deps.Profiles.Completeness(p)
	if missing == nil {
		missing = []string{}
	}
	return profileResponse{Profile: p, Complete: len(missing) == 0, Missing: missing}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, _ := authContext(r).Profile.Get()
	writeJSON(w, http.StatusOK, s.newProfileResponse(p))
}

// profileRequest separates an omitted goal list, which keeps the stored
// goals, from an empty one, which clears them.
type profileRequest struct {
	core.Profile
	Goals core.Optional[[]core.Goal] `json:"financial_goals"`
}

// handlePutProfile replaces the editable fields. Identity and timestamps
// always come from the stored profile.
func (s *Server) handlePutProfile(w http.ResponseWriter, r *http.Request) {
	ac := authContext(r)
	current, _ := ac.Profile.Get()

	var req profileRequest
	if err := s.decode(r, schema.Profile, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := req.Profile
	in.ID = current.ID
	in.Email = current.Email
	in.CreatedAt = current.CreatedAt
	if in.Name == "" {
		in.Name = current.Name
	}

	updated, err := s.deps.Profiles.Update(r.Context(), in, req.Goals)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.newProfileResponse(updated))
}

package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const (
	adminCookie = "admin_token"
	stateCookie = "oauth_state"
)

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User string `json:"user"`
		Pass string `json:"pass"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &req); err != nil {
			s.fail(w, r, err)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "form", "")
			return
		}
		req.User, req.Pass = r.FormValue("user"), r.FormValue("pass")
	}
	user := strings.TrimSpace(req.User)
	pass := strings.TrimSpace(req.Pass)
	if s.adminUser == "" || !secureCompare(user, s.adminUser) || !secureCompare(pass, s.adminPass) {
		log.Warn().Str("user", user).Str("remote", r.RemoteAddr).Msg("admin login rejected")
		writeError(w, http.StatusUnauthorized, "invalid credentials", "")
		return
	}

	email := localAdminEmail(user)
	tok, exp, err := s.issueAdminToken(email, s.adminTTL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setAdminCookie(w, tok, int(s.adminTTL.Seconds()))
	writeJSON(w, http.StatusOK, map[string]any{"token": tok, "exp": exp.Unix(), "email": email})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	s.setAdminCookie(w, "", -1)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) setAdminCookie(w http.ResponseWriter, tok string, maxAge int) {
	http.SetCookie(w, &http.Cookie{Name: adminCookie, Value: tok, Path: "/", MaxAge: maxAge, HttpOnly: true, Secure: s.secureCookie, SameSite: http.SameSiteStrictMode})
}

func (s *Server) adminFromRequest(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if email, err := s.verifyAdminToken(strings.TrimSpace(auth[7:])); err == nil {
			return email, true
		}
	}
	if c, err := r.Cookie(adminCookie); err == nil && c.Value != "" {
		if email, err := s.verifyAdminToken(c.Value); err == nil {
			return email, true
		}
	}
	return "", false
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeError(w, http.StatusNotImplemented, "google sign-in is not configured", "")
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: state, Path: "/", MaxAge: 300, HttpOnly: true, Secure: s.secureCookie, SameSite: http.SameSiteLaxMode})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusFound)
}

// handleGoogleCallback signs in an allow-listed Google account as admin.
func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		writeError(w, http.StatusNotImplemented, "google sign-in is not configured", "")
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	c, _ := r.Cookie(stateCookie)
	if c == nil || c.Value == "" || c.Value != state {
		writeError(w, http.StatusBadRequest, "state mismatch", "")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		writeError(w, http.StatusBadRequest, "oauth exchange failed", "")
		return
	}
	resp, err := s.oauthCfg.Client(r.Context(), tok).Get(s.userInfoURL)
	if err != nil {
		log.Error().Err(err).Msg("userinfo")
		writeError(w, http.StatusBadGateway, "userinfo", "")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Msg("userinfo")
		writeError(w, http.StatusBadGateway, "userinfo", "")
		return
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	_ = json.Unmarshal(body, &info)
	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email == "" || !info.EmailVerified {
		writeError(w, http.StatusForbidden, "unverified account", "")
		return
	}
	if _, ok := s.adminAllowed[email]; !ok {
		log.Warn().Str("email", email).Msg("google sign-in for non-admin account")
		writeError(w, http.StatusForbidden, "forbidden", "")
		return
	}
	adminTok, _, err := s.issueAdminToken(email, s.adminTTL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.setAdminCookie(w, adminTok, int(s.adminTTL.Seconds()))
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (s *Server) issueAdminToken(email string, dur time.Duration) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	now := time.Now()
	exp := now.Add(dur)
	claims := map[string]any{"sub": email, "email": email, "role": "admin", "exp": exp.Unix(), "iat": now.Unix(), "iss": "petalkids"}
	b, err := json.Marshal(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	unsigned := head + "." + base64.RawURLEncoding.EncodeToString(b)
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("format")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("signature")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("json")
	}
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if role != "admin" || email == "" {
		return "", fmt.Errorf("claims")
	}
	if time.Now().Unix() > int64(expF) {
		return "", fmt.Errorf("exp")
	}
	if _, ok := s.adminAllowed[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("not allowed")
	}
	return email, nil
}

// localAdminEmail is the identity a password login is issued under.
func localAdminEmail(user string) string {
	return strings.ToLower(strings.TrimSpace(user)) + "@local"
}

func secureCompare(a, b string) bool {
	return hmac.Equal([]byte(a), []byte(b))
}

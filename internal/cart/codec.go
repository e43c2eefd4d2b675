package cart

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const CookieName = "cart"

// Codec keeps the ledger in an HMAC-signed cookie so carts survive between
// requests without server-side sessions.
type Codec struct {
	key    []byte
	maxAge int
	secure bool
}

// NewCodec signs cart cookies with key. secure marks the cookie HTTPS-only.
func NewCodec(key string, secure bool) *Codec {
	return &Codec{key: []byte(key), maxAge: 60 * 60 * 24 * 7, secure: secure}
}

type cookiePayload struct {
	Lines []Line `json:"lines"`
}

// Read returns an empty ledger when the cookie is missing or tampered with.
func (c *Codec) Read(r *http.Request) *Ledger {
	ck, err := r.Cookie(CookieName)
	if err != nil {
		return New()
	}
	payload, ok := c.verify(ck.Value)
	if !ok {
		return New()
	}
	var cp cookiePayload
	if err := json.Unmarshal(payload, &cp); err != nil {
		return New()
	}
	return FromLines(cp.Lines)
}

// Write stores the ledger in the signed cart cookie.
func (c *Codec) Write(w http.ResponseWriter, l *Ledger) {
	b, _ := json.Marshal(cookiePayload{Lines: l.Lines()})
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    c.sign(b),
		Path:     "/",
		MaxAge:   c.maxAge,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the cart cookie.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: c.secure})
}

func (c *Codec) sign(payload []byte) string {
	h := hmac.New(sha256.New, c.key)
	h.Write(payload)
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)) + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func (c *Codec) verify(value string) ([]byte, bool) {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, false
	}
	h := hmac.New(sha256.New, c.key)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil, false
	}
	return payload, true
}

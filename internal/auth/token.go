package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const signingAlgorithm = "HS256"

// Strict decoding rejects non-canonical segments (nonzero padding bits), so
// no two distinct token strings verify against one signature.
var b64 = base64.RawURLEncoding.Strict()

// Codec issues and verifies compact three-segment bearer tokens:
// base64url(header) "." base64url(claims) "." base64url(HMAC-SHA256).
// The signature covers exactly the first two encoded segments and nothing
// else. HS256 is the only accepted algorithm; "none" or anything other than
// HS256 is a hard failure, never a fallback.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec wraps the process-wide signing secret. The secret is treated as
// immutable for the process lifetime; rotating it invalidates every
// outstanding token.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	return &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}, nil
}

// Issue signs the given claims and returns the encoded token. A non-zero ttl
// sets the exp claim relative to now (a negative ttl therefore produces an
// already-expired token, which tests rely on). The input map is not mutated;
// iat and a uuid jti are always added. Claims must carry a non-empty sub.
func (c *Codec) Issue(claims map[string]any, ttl time.Duration) (string, error) {
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return "", fmt.Errorf("%w: sub claim is required", ErrInvalidInput)
	}
	now := c.now().UTC()
	payload := make(map[string]any, len(claims)+3)
	for k, v := range claims {
		payload[k] = v
	}
	payload["iat"] = now.Unix()
	payload["jti"] = uuid.NewString()
	if ttl != 0 {
		payload["exp"] = now.Add(ttl).Unix()
	}

	header := map[string]any{"alg": signingAlgorithm, "typ": "JWT"}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return "", err
	}
	// encoding/json sorts map keys, so the serialized claims are
	// deterministic for a given claim set.
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	signingInput := base64.RawURLEncoding.EncodeToString(headerJSON) +
		"." + base64.RawURLEncoding.EncodeToString(payloadJSON)
	signature := c.sign(signingInput)
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// Verify checks structure, algorithm, signature and expiration, in that
// order, and returns the decoded claims. Expiration is checked here rather
// than in the middleware so every caller gets the same validity decision for
// the same token.
func (c *Codec) Verify(token string) (map[string]any, error) {
	segments := strings.Split(strings.TrimSpace(token), ".")
	if len(segments) != 3 {
		return nil, ErrMalformedToken
	}
	headerJSON, err := b64.DecodeString(segments[0])
	if err != nil {
		return nil, ErrMalformedToken
	}
	signature, err := b64.DecodeString(segments[2])
	if err != nil {
		return nil, ErrMalformedToken
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, ErrMalformedToken
	}
	if header.Alg != signingAlgorithm {
		return nil, ErrUnsupportedAlgorithm
	}

	expected := c.sign(segments[0] + "." + segments[1])
	if !constantTimeEqual(signature, expected) {
		return nil, ErrSignatureMismatch
	}

	payloadJSON, err := b64.DecodeString(segments[1])
	if err != nil {
		return nil, ErrMalformedToken
	}
	var claims map[string]any
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil, ErrMalformedToken
	}
	sub, _ := claims["sub"].(string)
	if strings.TrimSpace(sub) == "" {
		return nil, ErrMalformedToken
	}
	if exp, ok := claimInt64(claims["exp"]); ok && c.now().Unix() >= exp {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

func (c *Codec) sign(signingInput string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return mac.Sum(nil)
}

// claimInt64 tolerates the numeric types encoding/json may hand back.
func claimInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case json.Number:
		i, err := t.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case int64:
		return t, true
	case int:
		return int64(t), true
	default:
		return 0, false
	}
}

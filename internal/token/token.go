// Package token implements the compact signed-token format used for API
// sessions: base64url(header).base64url(claims).base64url(signature), signed
// with HMAC-SHA256. The wire shape is fixed so tokens stay interoperable with
// ones issued by earlier deployments of the service, which is why this is not
// built on a JWT library.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"time"

	json "github.com/bytedance/sonic"
)

// Issuer is embedded in the header of every issued token.
const Issuer = "my-auth-service"

type header struct {
	Alg string `json:"alg"`
	Typ string `json:"typ"`
	Iss string `json:"iss"`
}

// Issue builds a signed token carrying the given claims plus an `exp` claim
// set to now+ttl. The header is fixed to HS256/JWT with the service issuer.
func Issue(signKey string, ttl time.Duration, claims map[string]any) (string, error) {
	headerJSON, err := json.Marshal(header{Alg: "HS256", Typ: "JWT", Iss: Issuer})
	if err != nil {
		return "", err
	}

	payload := make(map[string]any, len(claims)+1)
	for k, v := range claims {
		payload[k] = v
	}
	payload["exp"] = time.Now().Add(ttl).Unix()

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	encodedHeader := base64.RawURLEncoding.EncodeToString(headerJSON)
	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadJSON)
	signature := sign(encodedHeader, encodedPayload, signKey)

	return encodedHeader + "." + encodedPayload + "." + base64.RawURLEncoding.EncodeToString(signature), nil
}

// Verify reports whether the token is structurally valid, unexpired, and
// carries a signature produced with signKey. Malformed input is an ordinary
// false result.
func Verify(signKey, tokenString string) bool {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return false
	}

	encodedHeader, encodedPayload, encodedSignature := parts[0], parts[1], parts[2]

	headerJSON, err := base64.RawURLEncoding.DecodeString(encodedHeader)
	if err != nil {
		return false
	}
	var hdr map[string]any
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return false
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return false
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return false
	}

	if exp, ok := numericClaim(payload, "exp"); ok && time.Now().Unix() >= exp {
		return false
	}

	signature, err := base64.RawURLEncoding.DecodeString(encodedSignature)
	if err != nil {
		return false
	}

	return hmac.Equal(signature, sign(encodedHeader, encodedPayload, signKey))
}

// ExtractClaims decodes the claims segment without verifying the signature.
// Callers must only trust the result after Verify has succeeded. Returns nil
// on malformed input.
func ExtractClaims(tokenString string) map[string]any {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(payloadJSON, &payload); err != nil {
		return nil
	}

	return payload
}

func sign(encodedHeader, encodedPayload, signKey string) []byte {
	mac := hmac.New(sha256.New, []byte(signKey))
	mac.Write([]byte(encodedHeader + "." + encodedPayload))
	return mac.Sum(nil)
}

func numericClaim(claims map[string]any, key string) (int64, bool) {
	switch v := claims[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	default:
		return 0, false
	}
}

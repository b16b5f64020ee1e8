package source

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go-datasync/internal/config"
)

// Signer turns a request URL into valid authorization headers. The sync
// engine treats it as a black box; TokenSigner is the shipped
// implementation.
type Signer interface {
	Sign(method, rawURL string) (http.Header, error)
}

// TokenSigner signs requests with OAuth 1.0a HMAC-SHA256 using a consumer
// key/secret and token key/secret pair. Every call produces a fresh nonce
// and timestamp.
type TokenSigner struct {
	realm          string
	consumerKey    string
	consumerSecret string
	tokenID        string
	tokenSecret    string
}

func NewTokenSigner(cfg *config.Config) *TokenSigner {
	return &TokenSigner{
		realm:          cfg.SourceRealm,
		consumerKey:    cfg.SourceConsumerKey,
		consumerSecret: cfg.SourceConsumerSecret,
		tokenID:        cfg.SourceTokenID,
		tokenSecret:    cfg.SourceTokenSecret,
	}
}

func (s *TokenSigner) Sign(method, rawURL string) (http.Header, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cannot sign malformed URL: %w", err)
	}

	nonce, err := newNonce()
	if err != nil {
		return nil, err
	}
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	oauthParams := map[string]string{
		"oauth_consumer_key":     s.consumerKey,
		"oauth_token":            s.tokenID,
		"oauth_nonce":            nonce,
		"oauth_timestamp":        timestamp,
		"oauth_signature_method": "HMAC-SHA256",
		"oauth_version":          "1.0",
	}

	signature := s.signature(method, parsed, oauthParams)

	var sb strings.Builder
	sb.WriteString(`OAuth realm="` + percentEncode(s.realm) + `"`)
	for _, key := range sortedKeys(oauthParams) {
		sb.WriteString(`, ` + key + `="` + percentEncode(oauthParams[key]) + `"`)
	}
	sb.WriteString(`, oauth_signature="` + percentEncode(signature) + `"`)

	headers := http.Header{}
	headers.Set("Authorization", sb.String())
	headers.Set("Content-Type", "application/json")
	return headers, nil
}

// signature builds the OAuth 1.0a base string over the normalized URL and
// the combined query + oauth parameters, then MACs it.
func (s *TokenSigner) signature(method string, u *url.URL, oauthParams map[string]string) string {
	params := map[string]string{}
	for key, vals := range u.Query() {
		if len(vals) > 0 {
			params[key] = vals[0]
		}
	}
	for key, val := range oauthParams {
		params[key] = val
	}

	pairs := make([]string, 0, len(params))
	for _, key := range sortedKeys(params) {
		pairs = append(pairs, percentEncode(key)+"="+percentEncode(params[key]))
	}

	baseURL := u.Scheme + "://" + u.Host + u.Path
	base := strings.ToUpper(method) + "&" + percentEncode(baseURL) + "&" + percentEncode(strings.Join(pairs, "&"))
	key := percentEncode(s.consumerSecret) + "&" + percentEncode(s.tokenSecret)

	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func newNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// percentEncode applies RFC 3986 encoding, which OAuth requires instead of
// Go's form encoding (spaces become %20, not +).
func percentEncode(s string) string {
	encoded := url.QueryEscape(s)
	return strings.ReplaceAll(encoded, "+", "%20")
}

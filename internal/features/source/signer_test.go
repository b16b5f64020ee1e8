package source

import (
	"strings"
	"testing"
)

func testSigner() *TokenSigner {
	return &TokenSigner{
		realm:          "12345",
		consumerKey:    "ck",
		consumerSecret: "cs",
		tokenID:        "tk",
		tokenSecret:    "ts",
	}
}

func TestSignProducesOAuthHeader(t *testing.T) {
	headers, err := testSigner().Sign("GET", "https://example.com/app/site?script=1&page=0")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	auth := headers.Get("Authorization")
	if !strings.HasPrefix(auth, `OAuth realm="12345"`) {
		t.Errorf("missing realm prefix: %s", auth)
	}
	for _, part := range []string{
		"oauth_consumer_key=", "oauth_token=", "oauth_nonce=",
		"oauth_timestamp=", `oauth_signature_method="HMAC-SHA256"`, "oauth_signature=",
	} {
		if !strings.Contains(auth, part) {
			t.Errorf("header missing %s: %s", part, auth)
		}
	}
}

func TestSignFreshNoncePerCall(t *testing.T) {
	signer := testSigner()

	first, err := signer.Sign("GET", "https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}
	second, err := signer.Sign("GET", "https://example.com/a")
	if err != nil {
		t.Fatal(err)
	}

	if extractParam(first.Get("Authorization"), "oauth_nonce") == extractParam(second.Get("Authorization"), "oauth_nonce") {
		t.Error("nonce repeated across calls")
	}
}

func TestSignRejectsMalformedURL(t *testing.T) {
	if _, err := testSigner().Sign("GET", "://not-a-url"); err == nil {
		t.Error("expected error for malformed URL")
	}
}

func extractParam(header, name string) string {
	idx := strings.Index(header, name+`="`)
	if idx < 0 {
		return ""
	}
	rest := header[idx+len(name)+2:]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// Package oauth implements OAuth 1.0a request signing: percent-encoding,
// signature base string construction, HMAC-SHA1 signing with a composite
// key, and Authorization header rendering.
package oauth

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// SignatureMethod is the only signature method this signer produces.
	SignatureMethod = "HMAC-SHA1"

	// Version is the OAuth protocol version placed in every parameter set.
	Version = "1.0"
)

// Credentials holds the four long-lived secrets issued by the platform.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessToken    string
	AccessSecret   string
}

// NewCredentials builds a credential set, rejecting any empty field.
func NewCredentials(consumerKey, consumerSecret, accessToken, accessSecret string) (Credentials, error) {
	c := Credentials{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		AccessToken:    accessToken,
		AccessSecret:   accessSecret,
	}
	if err := c.Validate(); err != nil {
		return Credentials{}, err
	}
	return c, nil
}

// Validate reports an error naming the first empty credential field.
func (c Credentials) Validate() error {
	switch {
	case c.ConsumerKey == "":
		return fmt.Errorf("credentials: consumer key is empty")
	case c.ConsumerSecret == "":
		return fmt.Errorf("credentials: consumer secret is empty")
	case c.AccessToken == "":
		return fmt.Errorf("credentials: access token is empty")
	case c.AccessSecret == "":
		return fmt.Errorf("credentials: access secret is empty")
	}
	return nil
}

// Params is the computed OAuth protocol parameter set for one request,
// keyed by the oauth_* wire names.
type Params map[string]string

// Signature returns the computed oauth_signature value.
func (p Params) Signature() string {
	return p["oauth_signature"]
}

// Signer computes OAuth 1.0a parameter sets and signatures. It is
// stateless apart from the credentials; Sign is deterministic for a fixed
// clock, so tests pin Now and compare against fixtures.
type Signer struct {
	creds Credentials

	// Now supplies the signing time. Defaults to time.Now.
	Now func() time.Time

	// Nonce supplies the oauth_nonce value. The default reuses the
	// Unix-seconds timestamp, which keeps signatures reproducible but is
	// weaker than a random nonce; callers wanting replay resistance
	// should install a random source here.
	Nonce func(timestamp string) string
}

// NewSigner returns a Signer for the given credentials.
func NewSigner(creds Credentials) *Signer {
	return &Signer{
		creds: creds,
		Now:   time.Now,
		Nonce: func(timestamp string) string { return timestamp },
	}
}

// Sign computes the full OAuth protocol parameter set, including the
// signature, for a request with the given HTTP method, URL, and scalar
// request parameters (GET query fields or POST form fields). The extra
// parameters participate in the signature but are not part of the
// returned set.
func (s *Signer) Sign(method, rawURL string, extra map[string]string) Params {
	timestamp := strconv.FormatInt(s.Now().Unix(), 10)

	params := Params{
		"oauth_consumer_key":     s.creds.ConsumerKey,
		"oauth_nonce":            s.Nonce(timestamp),
		"oauth_signature_method": SignatureMethod,
		"oauth_timestamp":        timestamp,
		"oauth_token":            s.creds.AccessToken,
		"oauth_version":          Version,
	}

	merged := make(map[string]string, len(params)+len(extra))
	for k, v := range params {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}

	base := BaseString(method, rawURL, merged)
	params["oauth_signature"] = s.signature(base)
	return params
}

// BaseString builds the canonical OAuth 1.0a signature base string:
// uppercased method, encoded URL, and the key-sorted, encoded parameter
// string, joined with "&". Keys sort by their raw form before encoding;
// sorting the rendered pairs instead misorders keys that are proper
// prefixes of one another.
func BaseString(method, rawURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = PercentEncode(k) + "=" + PercentEncode(params[k])
	}

	return strings.ToUpper(method) + "&" +
		PercentEncode(rawURL) + "&" +
		PercentEncode(strings.Join(pairs, "&"))
}

// signature is base64(HMAC-SHA1(base)) keyed by the composite
// consumer-secret "&" token-secret key.
func (s *Signer) signature(base string) string {
	key := PercentEncode(s.creds.ConsumerSecret) + "&" + PercentEncode(s.creds.AccessSecret)
	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// AuthorizationHeader renders the parameter set as an
// `OAuth k="v", ...` header value with keys sorted and every key and
// value percent-encoded.
func AuthorizationHeader(params Params) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = PercentEncode(k) + "=\"" + PercentEncode(params[k]) + "\""
	}
	return "OAuth " + strings.Join(parts, ", ")
}

// PercentEncode escapes s per the RFC 3986 unreserved-character rules
// OAuth requires: letters, digits, and -._~ pass through, everything else
// becomes %XX with uppercase hex. Spaces encode as %20, never "+".
func PercentEncode(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

func unreserved(c byte) bool {
	return ('A' <= c && c <= 'Z') ||
		('a' <= c && c <= 'z') ||
		('0' <= c && c <= '9') ||
		c == '-' || c == '.' || c == '_' || c == '~'
}

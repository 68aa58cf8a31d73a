package oauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredentials() Credentials {
	return Credentials{
		ConsumerKey:    "ck",
		ConsumerSecret: "CS",
		AccessToken:    "tk",
		AccessSecret:   "ATS",
	}
}

func fixedSigner(t *testing.T, unix int64) *Signer {
	t.Helper()
	s := NewSigner(testCredentials())
	s.Now = func() time.Time { return time.Unix(unix, 0) }
	return s
}

func TestNewCredentials(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		creds, err := NewCredentials("ck", "cs", "at", "as")
		require.NoError(t, err)
		assert.Equal(t, "ck", creds.ConsumerKey)
		assert.Equal(t, "as", creds.AccessSecret)
	})

	tests := []struct {
		name                   string
		ck, cs, at, as, detail string
	}{
		{"empty consumer key", "", "cs", "at", "as", "consumer key"},
		{"empty consumer secret", "ck", "", "at", "as", "consumer secret"},
		{"empty access token", "ck", "cs", "", "as", "access token"},
		{"empty access secret", "ck", "cs", "at", "", "access secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCredentials(tt.ck, tt.cs, tt.at, tt.as)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.detail)
		})
	}
}

func TestPercentEncode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abcXYZ019", "abcXYZ019"},
		{"-._~", "-._~"},
		{"hello world", "hello%20world"},
		{"a+b", "a%2Bb"},
		{"100%", "100%25"},
		{"https://api.twitter.com/1.1/statuses/update.json",
			"https%3A%2F%2Fapi.twitter.com%2F1.1%2Fstatuses%2Fupdate.json"},
		{"@alice", "%40alice"},
		{"\x00x", "%00x"},
		{"héllo", "h%C3%A9llo"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentEncode(tt.in))
		})
	}
}

func TestBaseString(t *testing.T) {
	t.Run("canonical fixture", func(t *testing.T) {
		params := map[string]string{
			"status":                 "hello world",
			"oauth_consumer_key":     "ck",
			"oauth_token":            "tk",
			"oauth_signature_method": "HMAC-SHA1",
			"oauth_version":          "1.0",
			"oauth_nonce":            "1000000000",
			"oauth_timestamp":        "1000000000",
		}

		got := BaseString("post", "https://api.twitter.com/1.1/statuses/update.json", params)

		want := "POST&https%3A%2F%2Fapi.twitter.com%2F1.1%2Fstatuses%2Fupdate.json&" +
			"oauth_consumer_key%3Dck" +
			"%26oauth_nonce%3D1000000000" +
			"%26oauth_signature_method%3DHMAC-SHA1" +
			"%26oauth_timestamp%3D1000000000" +
			"%26oauth_token%3Dtk" +
			"%26oauth_version%3D1.0" +
			"%26status%3Dhello%2520world"
		assert.Equal(t, want, got)
	})

	t.Run("sorts by raw key when one key prefixes another", func(t *testing.T) {
		// "a" must precede "a-b" even though the rendered pair
		// "a=1" sorts after "a-b=2" ('-' < '=').
		got := BaseString("get", "https://example.com/x", map[string]string{
			"a-b": "2",
			"a":   "1",
		})
		assert.Equal(t, "GET&https%3A%2F%2Fexample.com%2Fx&a%3D1%26a-b%3D2", got)
	})
}

func TestSigner_Sign(t *testing.T) {
	t.Run("deterministic fixture", func(t *testing.T) {
		s := fixedSigner(t, 1000000000)

		params := s.Sign("post", "https://api.twitter.com/1.1/statuses/update.json",
			map[string]string{"status": "hello world"})

		// base64(HMAC-SHA1(base string, "CS&ATS")) for the base string
		// covered by TestBaseString.
		assert.Equal(t, "1ZFiUunoB/aYK7Xwi32UKn98Hfg=", params.Signature())
		assert.Equal(t, "ck", params["oauth_consumer_key"])
		assert.Equal(t, "tk", params["oauth_token"])
		assert.Equal(t, "HMAC-SHA1", params["oauth_signature_method"])
		assert.Equal(t, "1.0", params["oauth_version"])
		assert.Equal(t, "1000000000", params["oauth_timestamp"])
	})

	t.Run("nonce defaults to timestamp", func(t *testing.T) {
		s := fixedSigner(t, 1234567890)
		params := s.Sign("get", "https://example.com/a", nil)
		assert.Equal(t, "1234567890", params["oauth_nonce"])
		assert.Equal(t, params["oauth_timestamp"], params["oauth_nonce"])
	})

	t.Run("custom nonce source participates in signature", func(t *testing.T) {
		a := fixedSigner(t, 1000000000)
		b := fixedSigner(t, 1000000000)
		b.Nonce = func(string) string { return "different" }

		pa := a.Sign("post", "https://example.com/a", nil)
		pb := b.Sign("post", "https://example.com/a", nil)
		assert.NotEqual(t, pa.Signature(), pb.Signature())
	})

	t.Run("signature changes with request params", func(t *testing.T) {
		s := fixedSigner(t, 1000000000)
		p1 := s.Sign("post", "https://example.com/a", map[string]string{"status": "one"})
		p2 := s.Sign("post", "https://example.com/a", map[string]string{"status": "two"})
		assert.NotEqual(t, p1.Signature(), p2.Signature())
	})

	t.Run("request params are signed but not emitted", func(t *testing.T) {
		s := fixedSigner(t, 1000000000)
		params := s.Sign("post", "https://example.com/a", map[string]string{"status": "hi"})
		_, ok := params["status"]
		assert.False(t, ok)
	})
}

func TestAuthorizationHeader(t *testing.T) {
	params := Params{
		"oauth_version":          "1.0",
		"oauth_consumer_key":     "ck",
		"oauth_signature":        "a b/c=",
		"oauth_nonce":            "1",
		"oauth_timestamp":        "1",
		"oauth_token":            "tk",
		"oauth_signature_method": "HMAC-SHA1",
	}

	got := AuthorizationHeader(params)

	want := `OAuth oauth_consumer_key="ck", oauth_nonce="1", ` +
		`oauth_signature="a%20b%2Fc%3D", oauth_signature_method="HMAC-SHA1", ` +
		`oauth_timestamp="1", oauth_token="tk", oauth_version="1.0"`
	assert.Equal(t, want, got)
}

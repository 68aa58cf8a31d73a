package twitter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/abdulachik/twitpost/internal/oauth"
)

// mediaField is the reserved POST key whose raw bytes become the request
// body instead of a form field.
const mediaField = "media"

type paramKind int

const (
	paramsNone paramKind = iota
	paramsGet
	paramsPost
)

type queryPair struct {
	key   string
	value string
}

// Request carries the state of one logical API call: the mutually
// exclusive GET/POST parameter sets, the signed OAuth parameters, and the
// last HTTP status. A Request is built fresh per call and is not safe for
// concurrent use.
type Request struct {
	signer    *oauth.Signer
	transport Doer

	method string
	url    string

	kind  paramKind
	gets  []queryPair
	posts map[string]string
	media []byte

	oauthParams oauth.Params
	statusCode  int
}

func newRequest(signer *oauth.Signer, transport Doer) *Request {
	return &Request{signer: signer, transport: transport}
}

// SetPostFields installs POST form fields, clearing nothing implicitly:
// if GET fields are already present the call fails with
// ErrMutualExclusion. String values pass through, booleans become the
// literals "true"/"false", and the reserved "media" key takes raw bytes
// for the upload body. A "status" value starting with "@" is prefixed
// with a NUL byte, the platform's escape against the update being read as
// a reply mention. If the request was already signed, the signature is
// recomputed so stale signatures never accompany new fields.
func (r *Request) SetPostFields(fields map[string]any) error {
	if r.kind == paramsGet {
		return fmt.Errorf("set POST fields: %w", ErrMutualExclusion)
	}

	posts := make(map[string]string, len(fields))
	var media []byte
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			if k == "status" && strings.HasPrefix(val, "@") {
				val = "\x00" + val
			}
			posts[k] = val
		case bool:
			posts[k] = strconv.FormatBool(val)
		case []byte:
			if k != mediaField {
				return fmt.Errorf("set POST fields: binary value for non-media field %q", k)
			}
			media = val
		default:
			return fmt.Errorf("set POST fields: unsupported value type %T for field %q", v, k)
		}
	}

	r.kind = paramsPost
	r.posts = posts
	r.media = media
	return r.resign()
}

// SetGetFields parses an "&"-delimited "key=value" query string, with an
// optional leading "?", into the GET parameter set. Fails with
// ErrMutualExclusion if POST fields exist and with ErrMalformedQuery for
// a segment lacking "=". Re-signs if a signature was already computed.
func (r *Request) SetGetFields(query string) error {
	if r.kind == paramsPost {
		return fmt.Errorf("set GET fields: %w", ErrMutualExclusion)
	}

	query = strings.TrimPrefix(query, "?")
	var pairs []queryPair
	if query != "" {
		for _, segment := range strings.Split(query, "&") {
			k, v, ok := strings.Cut(segment, "=")
			if !ok {
				return fmt.Errorf("segment %q: %w", segment, ErrMalformedQuery)
			}
			key, err := url.QueryUnescape(k)
			if err != nil {
				return fmt.Errorf("segment %q: %w", segment, ErrMalformedQuery)
			}
			value, err := url.QueryUnescape(v)
			if err != nil {
				return fmt.Errorf("segment %q: %w", segment, ErrMalformedQuery)
			}
			pairs = append(pairs, queryPair{key: key, value: value})
		}
	}

	r.kind = paramsGet
	r.gets = pairs
	return r.resign()
}

// Sign computes the OAuth parameter set for the given endpoint URL and
// method (case-insensitive get or post) over the current scalar fields,
// and stores it for Send. Returns the request for chaining.
func (r *Request) Sign(rawURL, method string) (*Request, error) {
	method = strings.ToLower(method)
	if method != "get" && method != "post" {
		return nil, fmt.Errorf("sign %q: %w", method, ErrInvalidMethod)
	}

	r.method = method
	r.url = rawURL
	r.oauthParams = r.signer.Sign(method, rawURL, r.scalarFields())
	return r, nil
}

// resign recomputes the stored signature after a field mutation. A
// request that was never signed is left alone.
func (r *Request) resign() error {
	if r.oauthParams == nil {
		return nil
	}
	_, err := r.Sign(r.url, r.method)
	return err
}

// scalarFields returns the string parameters that participate in the
// signature. The binary media payload is excluded.
func (r *Request) scalarFields() map[string]string {
	switch r.kind {
	case paramsGet:
		fields := make(map[string]string, len(r.gets))
		for _, p := range r.gets {
			fields[p.key] = p.value
		}
		return fields
	case paramsPost:
		return r.posts
	}
	return nil
}

// Send assembles the HTTP request, invokes the transport, records the
// response status, and returns the raw body. POST fields without media
// are form-encoded; a media payload is sent as the raw body with a
// multipart content type and no query string; GET fields are appended to
// the URL. The transport never emits Expect: 100-continue. A transport
// failure is returned as a *TransportError.
func (r *Request) Send(ctx context.Context) (string, error) {
	if r.oauthParams == nil {
		return "", ErrNotSigned
	}

	var (
		body        io.Reader
		contentType string
		target      = r.url
	)
	switch {
	case r.kind == paramsPost && r.media == nil:
		form := url.Values{}
		for k, v := range r.posts {
			form.Set(k, v)
		}
		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.media != nil:
		body = bytes.NewReader(r.media)
		contentType = "multipart/form-data;"
	default:
		if q := r.encodeQuery(); q != "" {
			target = target + "?" + q
		}
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(r.method), target, body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", oauth.AuthorizationHeader(r.oauthParams))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	// net/http only sends Expect: 100-continue when asked; make sure
	// nothing upstream asked.
	req.Header.Del("Expect")

	slog.Debug("sending request",
		"method", req.Method,
		"url", r.url,
		"media_bytes", len(r.media),
	)

	resp, err := r.transport.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	r.statusCode = resp.StatusCode

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("read response: %w", err)}
	}

	slog.Debug("received response", "status", resp.StatusCode, "bytes", len(raw))
	return string(raw), nil
}

// encodeQuery serializes the GET pairs with standard query encoding,
// preserving their insertion order.
func (r *Request) encodeQuery() string {
	parts := make([]string, len(r.gets))
	for i, p := range r.gets {
		parts[i] = url.QueryEscape(p.key) + "=" + url.QueryEscape(p.value)
	}
	return strings.Join(parts, "&")
}

// StatusCode returns the HTTP status recorded by the last Send, or zero
// if nothing was sent.
func (r *Request) StatusCode() int {
	return r.statusCode
}

// OAuthParams exposes the computed OAuth parameter set, nil before Sign.
func (r *Request) OAuthParams() oauth.Params {
	return r.oauthParams
}

package listview

import (
	"net/url"

	"github.com/gorilla/schema"
	"github.com/gorilla/securecookie"
)

const tokenName = "clubhub-listview"

// Codec signs view states into opaque tokens so clients can hand back the
// state they were shown without being able to forge one.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec builds a Codec from an HMAC hash key (32 or 64 bytes recommended).
func NewCodec(hashKey []byte) *Codec {
	sc := securecookie.New(hashKey, nil)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(0)
	return &Codec{sc: sc}
}

// Encode returns the signed token for s.
func (c *Codec) Encode(s State) (string, error) {
	return c.sc.Encode(tokenName, s)
}

// Decode verifies token and returns its state. An empty token yields the
// default state. A tampered or malformed token is an error.
func (c *Codec) Decode(token string) (State, error) {
	if token == "" {
		return Default(), nil
	}
	var s State
	if err := c.sc.Decode(tokenName, token, &s); err != nil {
		return Default(), err
	}
	return s, nil
}

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// ParseParams decodes list parameters from a query string.
func ParseParams(q url.Values) (Params, error) {
	var p Params
	if err := decoder.Decode(&p, q); err != nil {
		return Params{}, err
	}
	return p, nil
}

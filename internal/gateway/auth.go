package gateway

import (
	"context"
	"net/url"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Registration holds the fields for creating a new account.
type Registration struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new account. No credential is attached; the endpoint is
// open. Duplicate usernames or emails come back as a ValidationError with the
// server's detail text.
func (g *Gateway) Register(ctx context.Context, reg Registration) error {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("username")
	e.Str(reg.Username)
	e.FieldStart("email")
	e.Str(reg.Email)
	e.FieldStart("password")
	e.Str(reg.Password)
	e.FieldStart("firstName")
	e.Str(reg.FirstName)
	e.FieldStart("lastName")
	e.Str(reg.LastName)
	e.ObjEnd()

	return g.postJSON(ctx, "/api/auth/register", e.Bytes(), nil)
}

// Login exchanges credentials for an access token using the password grant
// form the server expects. The username field accepts a username or an email.
func (g *Gateway) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("grant_type", "password")

	var token string
	err := g.postForm(ctx, "/api/auth/login", form, func(d *jx.Decoder) error {
		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "access_token" {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			token = s
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("login response missing access_token")
	}
	return token, nil
}

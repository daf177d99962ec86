package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/linkveo/internal/domain"
)

// AuthService is the client side of the user service.
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

// Login exchanges email/password for a token, then fetches the profile with
// it. If the profile step fails the token is dropped and the whole login
// fails.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Credentials, error) {
	var rec tokenRecord
	err := s.c.do(ctx, request{
		op:     "login",
		method: http.MethodPost,
		path:   "/auth/token",
		form:   url.Values{"username": {email}, "password": {password}},
		login:  true,
	}, &rec)
	if err != nil {
		return domain.Credentials{}, err
	}

	token, err := rec.token()
	if token, err = finish("login", token, err); err != nil {
		return domain.Credentials{}, err
	}

	user, err := s.Me(ctx, token)
	if err != nil {
		return domain.Credentials{}, err
	}
	return domain.Credentials{Token: token, User: user}, nil
}

// Me returns the profile the token belongs to.
func (s *AuthService) Me(ctx context.Context, token string) (domain.User, error) {
	var rec userRecord
	if err := s.c.do(ctx, request{
		op:     "fetch profile",
		method: http.MethodGet,
		path:   "/users/me",
		token:  token,
	}, &rec); err != nil {
		return domain.User{}, err
	}
	u, err := rec.user()
	return finish("fetch profile", u, err)
}

// Register creates an account. It does not log in.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (domain.User, error) {
	var rec userRecord
	if err := s.c.do(ctx, request{
		op:     "register",
		method: http.MethodPost,
		path:   "/auth/register",
		json:   registerRequest{Email: email, Username: username, Password: password},
	}, &rec); err != nil {
		return domain.User{}, err
	}
	u, err := rec.user()
	return finish("register", u, err)
}

package service

import (
	"errors"
	"fmt"
	"testing"
)

func TestTranslateAuthError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid credentials", ErrInvalidCredentials, "E-mail ou senha incorretos"},
		{"duplicate email", ErrEmailTaken, "Este e-mail já está cadastrado"},
		{"expired session", ErrInvalidToken, "Sessão expirada, entre novamente"},
		{"wrapped sentinel", fmt.Errorf("login: %w", ErrInvalidCredentials), "E-mail ou senha incorretos"},
		{"google verification", errors.New("google token invalid: audience mismatch"), "Não foi possível validar o login Google"},
		{"unknown passes through", errors.New("connection refused"), "connection refused"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := TranslateAuthError(c.err); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

package service

import (
	"context"
	"testing"

	"github.com/best200-lab/juristmindchat/internal/dto"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(jwtSecret string) (IAuthService, *fakeUow) {
	uow := newFakeUow()
	svc := NewAuthService(&fakeUowFactory{uow: uow}, nil, jwtSecret)
	return svc, uow
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	svc, uow := newAuthFixture("test-secret")

	resp, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "advocate@example.com",
		Password: "s3cret-pass",
		FullName: "Test Advocate",
	})
	require.NoError(t, err)
	require.Len(t, uow.users.users, 1)

	// The token verifies against the configured secret and names the user.
	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, uow.users.users[0].Id.String(), claims["user_id"])
}

func TestRegisterFailsClosedWithoutSecret(t *testing.T) {
	svc, _ := newAuthFixture("")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "advocate@example.com",
		Password: "s3cret-pass",
		FullName: "Test Advocate",
	})
	assert.Error(t, err)
}

func TestLoginVerifiesPassword(t *testing.T) {
	svc, _ := newAuthFixture("test-secret")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "advocate@example.com",
		Password: "s3cret-pass",
		FullName: "Test Advocate",
	})
	require.NoError(t, err)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "advocate@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "advocate@example.com",
		Password: "wrong-pass",
	})
	assert.Error(t, err)
}

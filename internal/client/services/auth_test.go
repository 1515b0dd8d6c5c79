package services

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudsafe/cloudsafe/internal/client/session"
	"github.com/cloudsafe/cloudsafe/internal/common"
	"github.com/stretchr/testify/require"
)

func TestLogin_SavesSessionOnSuccess(t *testing.T) {
	fg := &fakeGateway{LoginRet: "jwt-value"}
	fs := &fakeStore{}
	svc := NewAuthService(fg, fs)

	err := svc.Login(context.Background(), "u1@example.com", []byte("secret"))
	require.NoError(t, err)

	require.Equal(t, "u1@example.com", fg.LastLoginEmail)
	require.Equal(t, "secret", fg.LastLoginPass)
	require.Equal(t, session.Session{Token: "jwt-value", SubjectID: "u1@example.com"}, fs.lastSave)
}

func TestLogin_InvalidEmailNeverHitsNetwork(t *testing.T) {
	fg := &fakeGateway{}
	svc := NewAuthService(fg, &fakeStore{})

	for _, email := range []string{"", "no-at-sign", "@x", "x@"} {
		err := svc.Login(context.Background(), email, []byte("secret"))
		require.ErrorIs(t, err, common.ErrValidationFailed)
	}
	require.Zero(t, fg.LoginCalls)
}

func TestLogin_EmptyPasswordNeverHitsNetwork(t *testing.T) {
	fg := &fakeGateway{}
	svc := NewAuthService(fg, &fakeStore{})

	err := svc.Login(context.Background(), "u1@example.com", nil)
	require.ErrorIs(t, err, common.ErrValidationFailed)
	require.Zero(t, fg.LoginCalls)
}

func TestLogin_GatewayErrorLeavesStoreUntouched(t *testing.T) {
	fg := &fakeGateway{LoginErr: common.ErrRequestFailed}
	fs := &fakeStore{}
	svc := NewAuthService(fg, fs)

	err := svc.Login(context.Background(), "u1@example.com", []byte("secret"))
	require.ErrorIs(t, err, common.ErrRequestFailed)
	require.Zero(t, fs.saves)
}

func TestLogin_SaveErrorWrapped(t *testing.T) {
	boom := errors.New("disk full")
	fg := &fakeGateway{LoginRet: "jwt"}
	fs := &fakeStore{saveErr: boom}
	svc := NewAuthService(fg, fs)

	err := svc.Login(context.Background(), "u1@example.com", []byte("secret"))
	require.ErrorIs(t, err, boom)
}

func TestRegister_ValidatesBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
		fullName string
	}{
		{"bad email", "nope", "longenough", "Ada"},
		{"short password", "u@example.com", "short", "Ada"},
		{"blank name", "u@example.com", "longenough", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fg := &fakeGateway{}
			svc := NewAuthService(fg, &fakeStore{})

			err := svc.Register(context.Background(), tt.email, []byte(tt.password), tt.fullName)
			require.ErrorIs(t, err, common.ErrValidationFailed)
			require.Zero(t, fg.RegisterCalls)
		})
	}
}

func TestRegister_DelegatesToGateway(t *testing.T) {
	fg := &fakeGateway{}
	svc := NewAuthService(fg, &fakeStore{})

	err := svc.Register(context.Background(), "u@example.com", []byte("longenough"), "Ada Lovelace")
	require.NoError(t, err)
	require.Equal(t, 1, fg.RegisterCalls)
	require.Equal(t, "Ada Lovelace", fg.LastRegisterName)
}

func TestLogout_ClearsStore(t *testing.T) {
	fs := &fakeStore{sess: session.Session{Token: "abc", SubjectID: "u1"}}
	svc := NewAuthService(&fakeGateway{}, fs)

	require.NoError(t, svc.Logout(context.Background()))
	require.Equal(t, 1, fs.clears)
	require.Equal(t, session.Session{}, fs.sess)
}

package auth_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgetly/internal/apperr"
	"github.com/MrJamesThe3rd/budgetly/internal/auth"
	"github.com/MrJamesThe3rd/budgetly/internal/user"
)

func TestParseLogin(t *testing.T) {
	tests := []struct {
		name    string
		in      auth.LoginInput
		want    string
		wantErr bool
	}{
		{name: "Valid", in: auth.LoginInput{Email: "ana@example.com", Password: "secret"}, want: "ana@example.com"},
		{name: "NormalisesEmail", in: auth.LoginInput{Email: "  Ana@Example.COM ", Password: "secret"}, want: "ana@example.com"},
		{name: "MissingEmail", in: auth.LoginInput{Password: "secret"}, wantErr: true},
		{name: "MalformedEmail", in: auth.LoginInput{Email: "ana", Password: "secret"}, wantErr: true},
		{name: "MissingPassword", in: auth.LoginInput{Email: "ana@example.com"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creds, err := auth.ParseLogin(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				assert.Equal(t, auth.Credentials{}, creds)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, creds.Email())
			assert.Equal(t, tt.in.Password, creds.Password())
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	hash, err := user.HashPassword("correct horse")
	require.NoError(t, err)

	stored := &user.User{ID: uuid.New(), Email: "ana@example.com", PasswordHash: hash}

	type testCase struct {
		name      string
		in        auth.LoginInput
		setupMock func(m *auth.MockUserFinder)
		wantOK    bool
	}

	tests := []testCase{
		{
			name: "Success",
			in:   auth.LoginInput{Email: "ana@example.com", Password: "correct horse"},
			setupMock: func(m *auth.MockUserFinder) {
				m.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
			},
			wantOK: true,
		},
		{
			name: "WrongPassword",
			in:   auth.LoginInput{Email: "ana@example.com", Password: "battery staple"},
			setupMock: func(m *auth.MockUserFinder) {
				m.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(stored, nil)
			},
		},
		{
			name: "UnknownEmail",
			in:   auth.LoginInput{Email: "bob@example.com", Password: "correct horse"},
			setupMock: func(m *auth.MockUserFinder) {
				m.EXPECT().GetByEmail(gomock.Any(), "bob@example.com").Return(nil, apperr.NotFound("user not found"))
			},
		},
		{
			name: "LookupError",
			in:   auth.LoginInput{Email: "ana@example.com", Password: "correct horse"},
			setupMock: func(m *auth.MockUserFinder) {
				m.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection reset"))
			},
		},
		{
			name: "MalformedInputNeverHitsStore",
			in:   auth.LoginInput{Email: "not-an-email", Password: "correct horse"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			finder := auth.NewMockUserFinder(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(finder)
			}

			got, ok := auth.NewVerifier(finder).Verify(context.Background(), tt.in)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, stored, got)
				return
			}

			assert.Nil(t, got)
		})
	}
}

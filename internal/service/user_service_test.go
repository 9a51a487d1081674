package service

import (
	"context"
	"testing"
	"time"

	"turbo-notes-be/internal/dto"
	"turbo-notes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func seedUser(t *testing.T, uow *fakeUow, password string) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        "sam@example.com",
		PasswordHash: string(hash),
		FirstName:    "Sam",
		LastName:     "Smith",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, uow.userRepo.Create(context.Background(), user))
	return user
}

func TestGetProfile(t *testing.T) {
	uow := newFakeUow()
	svc := NewUserService(&fakeUowFactory{uow: uow})
	user := seedUser(t, uow, "hunter22")

	profile, err := svc.GetProfile(context.Background(), user.Id)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "sam@example.com", profile.Email)
	assert.Equal(t, "Sam", profile.FirstName)

	missing, err := svc.GetProfile(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUpdateProfileNames(t *testing.T) {
	uow := newFakeUow()
	svc := NewUserService(&fakeUowFactory{uow: uow})
	user := seedUser(t, uow, "hunter22")

	res, err := svc.UpdateProfile(context.Background(), user.Id, &dto.UpdateProfileRequest{
		FirstName: "Samuel",
	})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", res.FirstName)
	assert.Equal(t, "Smith", res.LastName, "unset fields stay untouched")
}

func TestUpdateProfilePasswordRules(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.UpdateProfileRequest
		wantErr string
	}{
		{
			name:    "missing current password",
			req:     dto.UpdateProfileRequest{NewPassword: "newpass123", RepeatNewPassword: "newpass123"},
			wantErr: "current password is required to set a new password",
		},
		{
			name:    "wrong current password",
			req:     dto.UpdateProfileRequest{CurrentPassword: "nope", NewPassword: "newpass123", RepeatNewPassword: "newpass123"},
			wantErr: "current password is incorrect",
		},
		{
			name:    "repeat mismatch",
			req:     dto.UpdateProfileRequest{CurrentPassword: "hunter22", NewPassword: "newpass123", RepeatNewPassword: "different"},
			wantErr: "new passwords do not match",
		},
		{
			name:    "repeat alone still triggers the checks",
			req:     dto.UpdateProfileRequest{RepeatNewPassword: "newpass123"},
			wantErr: "current password is required to set a new password",
		},
		{
			name:    "repeat without new password",
			req:     dto.UpdateProfileRequest{CurrentPassword: "hunter22", RepeatNewPassword: "newpass123"},
			wantErr: "new passwords do not match",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uow := newFakeUow()
			svc := NewUserService(&fakeUowFactory{uow: uow})
			user := seedUser(t, uow, "hunter22")

			_, err := svc.UpdateProfile(context.Background(), user.Id, &tt.req)
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	uow := newFakeUow()
	svc := NewUserService(&fakeUowFactory{uow: uow})
	user := seedUser(t, uow, "hunter22")

	_, err := svc.UpdateProfile(context.Background(), user.Id, &dto.UpdateProfileRequest{
		CurrentPassword:   "hunter22",
		NewPassword:       "brand-new-pass",
		RepeatNewPassword: "brand-new-pass",
	})
	require.NoError(t, err)

	stored, err := uow.userRepo.FindOne(context.Background())
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("brand-new-pass")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("hunter22")))
}

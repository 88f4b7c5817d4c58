package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/smithline/atelier/internal/config"
	"github.com/smithline/atelier/internal/identity/domain"
	"github.com/smithline/atelier/internal/identity/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	genID *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &catalogdomain.CreatorProfile{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:   db,
		Log:  zap.NewNop(),
		Cfg:  config.Config{AuthJWTSecret: testSecret},
		Repo: repository.Provide(),
	})

	return &fixture{svc: svc, db: db, genID: node}
}

func (f *fixture) addUser(t *testing.T, role, status string) domain.User {
	t.Helper()
	user := domain.User{
		ID:          f.genID.Generate(),
		Email:       f.genID.Generate().String() + "@smithline.studio",
		DisplayName: "Test User",
		Role:        role,
		Status:      status,
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func signToken(t *testing.T, subject string, secret string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestResolve_AdminUser(t *testing.T) {
	f := newFixture(t)

	admin := f.addUser(t, domain.RoleAdmin, domain.UserStatusActive)
	token := signToken(t, admin.ID.String(), testSecret, time.Now().Add(time.Hour))

	caller, err := f.svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, caller.UserID)
	assert.True(t, caller.IsAdmin)
	assert.False(t, caller.IsCreator())
}

func TestResolve_CreatorProfileAttached(t *testing.T) {
	f := newFixture(t)

	member := f.addUser(t, domain.RoleMember, domain.UserStatusActive)
	profile := catalogdomain.CreatorProfile{
		ID:          f.genID.Generate(),
		UserID:      member.ID,
		DisplayName: "Aria Voss",
		Status:      catalogdomain.ProfileStatusActive,
	}
	require.NoError(t, f.db.Create(&profile).Error)

	token := signToken(t, member.ID.String(), testSecret, time.Now().Add(time.Hour))
	caller, err := f.svc.Resolve(context.Background(), token)
	require.NoError(t, err)

	assert.False(t, caller.IsAdmin)
	require.True(t, caller.IsCreator())
	assert.Equal(t, profile.ID, *caller.CreatorProfileID)
	assert.Equal(t, "Aria Voss", caller.CreatorDisplayName)
}

func TestResolve_SuspendedProfileIgnored(t *testing.T) {
	f := newFixture(t)

	member := f.addUser(t, domain.RoleMember, domain.UserStatusActive)
	profile := catalogdomain.CreatorProfile{
		ID:          f.genID.Generate(),
		UserID:      member.ID,
		DisplayName: "Aria Voss",
		Status:      catalogdomain.ProfileStatusSuspended,
	}
	require.NoError(t, f.db.Create(&profile).Error)

	token := signToken(t, member.ID.String(), testSecret, time.Now().Add(time.Hour))
	caller, err := f.svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, caller.IsCreator())
}

func TestResolve_Rejections(t *testing.T) {
	f := newFixture(t)

	active := f.addUser(t, domain.RoleMember, domain.UserStatusActive)
	disabled := f.addUser(t, domain.RoleMember, domain.UserStatusDisabled)

	tests := []struct {
		name        string
		token       string
		expectedErr error
	}{
		{
			name:        "empty token",
			token:       "",
			expectedErr: domain.ErrMissingToken,
		},
		{
			name:        "garbage token",
			token:       "not-a-jwt",
			expectedErr: domain.ErrInvalidToken,
		},
		{
			name:        "wrong secret",
			token:       signToken(t, active.ID.String(), "other-secret", time.Now().Add(time.Hour)),
			expectedErr: domain.ErrInvalidToken,
		},
		{
			name:        "expired token",
			token:       signToken(t, active.ID.String(), testSecret, time.Now().Add(-time.Hour)),
			expectedErr: domain.ErrInvalidToken,
		},
		{
			name:        "unknown subject",
			token:       signToken(t, "99999999", testSecret, time.Now().Add(time.Hour)),
			expectedErr: domain.ErrInvalidToken,
		},
		{
			name:        "disabled user",
			token:       signToken(t, disabled.ID.String(), testSecret, time.Now().Add(time.Hour)),
			expectedErr: domain.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Resolve(context.Background(), tt.token)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

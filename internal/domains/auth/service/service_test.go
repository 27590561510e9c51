package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	jwtLib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"resort/config"
	"resort/infras/jwt"
	jwtMocks "resort/infras/jwt/mocks"
	"resort/infras/otel/mocks"
	activityMocks "resort/internal/domains/activity/mocks"
	activityModel "resort/internal/domains/activity/model"
	activityService "resort/internal/domains/activity/service"
	adminMocks "resort/internal/domains/admin/mocks"
	adminModel "resort/internal/domains/admin/model"
	"resort/internal/domains/auth/model/dto"
	"resort/internal/domains/auth/service"
	visitorMocks "resort/internal/domains/visitor/mocks"
	visitorModel "resort/internal/domains/visitor/model"
	cacheMocks "resort/shared/cache/mocks"
	"resort/shared/constant"
	"resort/shared/failure"
	"resort/shared/password"
	"resort/shared/timezone"
)

type authFixture struct {
	admins       *adminMocks.MockAdmin
	visitors     *visitorMocks.MockVisitor
	activityRepo *activityMocks.MockActivity
	cache        *cacheMocks.MockRedisCache
	jwt          *jwtMocks.MockJWT
	svc          service.Auth
}

func newAuthFixture(ctrl *gomock.Controller) *authFixture {
	f := &authFixture{
		admins:       adminMocks.NewMockAdmin(ctrl),
		visitors:     visitorMocks.NewMockVisitor(ctrl),
		activityRepo: activityMocks.NewMockActivity(ctrl),
		cache:        cacheMocks.NewMockRedisCache(ctrl),
		jwt:          jwtMocks.NewMockJWT(ctrl),
	}

	cfg := &config.Config{}
	cfg.Session.ExpireMin = 120

	activity := activityService.New(f.activityRepo, cfg, mocks.NewOtel())

	f.svc = service.New(f.admins, f.visitors, activity, cfg, f.cache, mocks.NewOtel(), f.jwt)

	return f
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()

	hashed, err := password.Hash(plain)
	assert.NoError(t, err)

	return hashed
}

func session() *jwt.Session {
	return &jwt.Session{
		Token:     "signed-token",
		TokenType: "Bearer",
		ExpiresIn: 7200,
		TokenID:   "jti-1",
	}
}

func TestAuthService_AdminLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("successful login records success", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		admin := adminModel.Admin{
			ID:       "admin-1",
			Name:     "Sam Admin",
			Email:    "sam@example.com",
			Password: hashOf(t, "Secure1!x"),
			Role:     constant.RoleSuperAdmin,
		}

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
		f.jwt.EXPECT().Generate("admin-1", "sam@example.com", constant.RoleSuperAdmin, jwt.KindAdmin).Return(session(), nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a activityModel.LoginActivity) error {
				assert.Equal(t, activityModel.OutcomeSuccess, a.Outcome)
				assert.Equal(t, activityModel.SourceAdmin, a.Source)
				assert.Equal(t, "198.51.100.4", a.IP)

				return nil
			})
		f.admins.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.AdminLogin(context.Background(), dto.LoginRequest{
			Email:    "sam@example.com",
			Password: "Secure1!x",
		}, "198.51.100.4", "cli-test")

		assert.NoError(t, err)
		assert.Equal(t, "signed-token", res.Token)
		assert.Equal(t, "admin-1", res.Profile.ID)
	})

	t.Run("wrong password records failure", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		admin := adminModel.Admin{
			ID:       "admin-1",
			Email:    "sam@example.com",
			Password: hashOf(t, "Secure1!x"),
		}

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a activityModel.LoginActivity) error {
				assert.Equal(t, activityModel.OutcomeFailure, a.Outcome)

				return nil
			})

		_, err := f.svc.AdminLogin(context.Background(), dto.LoginRequest{
			Email:    "sam@example.com",
			Password: "Wrong1!xx",
		}, "198.51.100.4", "cli-test")

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("unknown email records failure", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(adminModel.Admin{}, nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.AdminLogin(context.Background(), dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "Secure1!x",
		}, "198.51.100.4", "cli-test")

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("audit failure does not block login", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		admin := adminModel.Admin{
			ID:       "admin-1",
			Email:    "sam@example.com",
			Password: hashOf(t, "Secure1!x"),
			Role:     constant.RoleModerator,
		}

		f.admins.EXPECT().Get(gomock.Any(), gomock.Any()).Return(admin, nil)
		f.jwt.EXPECT().Generate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(session(), nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("audit table down"))
		f.admins.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		_, err := f.svc.AdminLogin(context.Background(), dto.LoginRequest{
			Email:    "sam@example.com",
			Password: "Secure1!x",
		}, "198.51.100.4", "cli-test")

		assert.NoError(t, err)
	})
}

func TestAuthService_VisitorLogin(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	visitor := func() visitorModel.VisitorAccount {
		return visitorModel.VisitorAccount{
			ID:        "visitor-1",
			FirstName: "Jamie",
			Email:     "jamie@example.com",
			Password:  hashOf(t, "Secure1!x"),
			IsActive:  true,
		}
	}

	t.Run("successful login", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		f.visitors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(visitor(), nil)
		f.jwt.EXPECT().Generate("visitor-1", "jamie@example.com", constant.RoleVisitor, jwt.KindVisitor).Return(session(), nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)
		f.visitors.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		res, err := f.svc.VisitorLogin(context.Background(), dto.LoginRequest{
			Email:    "jamie@example.com",
			Password: "Secure1!x",
		}, "198.51.100.4", "cli-test")

		assert.NoError(t, err)
		assert.Equal(t, "visitor-1", res.Profile.ID)
	})

	t.Run("deactivated account is rejected with valid password", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		inactive := visitor()
		inactive.IsActive = false

		f.visitors.EXPECT().Get(gomock.Any(), gomock.Any()).Return(inactive, nil)
		f.activityRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, a activityModel.LoginActivity) error {
				assert.Equal(t, activityModel.OutcomeFailure, a.Outcome)

				return nil
			})

		_, err := f.svc.VisitorLogin(context.Background(), dto.LoginRequest{
			Email:    "jamie@example.com",
			Password: "Secure1!x",
		}, "198.51.100.4", "cli-test")

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
		assert.Contains(t, err.Error(), "deactivated")
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("denylists a live token", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		claims := &jwt.Claims{
			PrincipalID: "visitor-1",
			TokenID:     "jti-1",
			RegisteredClaims: jwtLib.RegisteredClaims{
				ExpiresAt: jwtLib.NewNumericDate(timezone.Now().Add(time.Hour)),
			},
		}

		f.jwt.EXPECT().ValidateToken("signed-token").Return(claims, nil)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), "visitor-1", gomock.Any()).Return(nil)

		assert.NoError(t, f.svc.Logout(context.Background(), "signed-token"))
	})

	t.Run("invalid token still succeeds", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		f.jwt.EXPECT().ValidateToken("garbage").Return(nil, jwt.ErrInvalidToken)

		assert.NoError(t, f.svc.Logout(context.Background(), "garbage"))
	})

	t.Run("denylist outage still succeeds", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		claims := &jwt.Claims{
			PrincipalID: "visitor-1",
			TokenID:     "jti-1",
			RegisteredClaims: jwtLib.RegisteredClaims{
				ExpiresAt: jwtLib.NewNumericDate(timezone.Now().Add(time.Hour)),
			},
		}

		f.jwt.EXPECT().ValidateToken("signed-token").Return(claims, nil)
		f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		assert.NoError(t, f.svc.Logout(context.Background(), "signed-token"))
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("visitor changes password", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		f.visitors.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(visitorModel.VisitorAccount{ID: "visitor-1", Password: hashOf(t, "Old1!pass")}, nil)
		f.visitors.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "visitor-1")
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindVisitor)

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{
			OldPassword: "Old1!pass",
			NewPassword: "Secure1!x",
		})

		assert.NoError(t, err)
	})

	t.Run("wrong old password", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		f.visitors.EXPECT().Get(gomock.Any(), gomock.Any()).
			Return(visitorModel.VisitorAccount{ID: "visitor-1", Password: hashOf(t, "Old1!pass")}, nil)

		ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "visitor-1")
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindVisitor)

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{
			OldPassword: "Wrong1!xx",
			NewPassword: "Secure1!x",
		})

		assert.Error(t, err)
		assert.Equal(t, 401, failure.GetCode(err))
	})

	t.Run("weak new password", func(t *testing.T) {
		f := newAuthFixture(ctrl)

		ctx := context.WithValue(context.Background(), constant.ContextKeyPrincipalID, "visitor-1")
		ctx = context.WithValue(ctx, constant.ContextKeyPrincipalKind, constant.PrincipalKindVisitor)

		err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{
			OldPassword: "Old1!pass",
			NewPassword: "short",
		})

		assert.Error(t, err)
		assert.Equal(t, 400, failure.GetCode(err))
	})
}

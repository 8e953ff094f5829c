package usecases_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gotruck.backend/internal/domain/entities"
	domainerrors "gotruck.backend/internal/domain/errors"
	"gotruck.backend/internal/usecases"
	"gotruck.backend/pkg/crypto"
	"gotruck.backend/pkg/jwt"
)

type authFixture struct {
	uc           *usecases.AuthUsecase
	actorRepo    *MockActorRepository
	referralRepo *MockReferralRepository
	walletRepo   *MockWalletAccountRepository
	uow          *MockUnitOfWork
}

func newAuthFixture(admin usecases.AdminCredentials) *authFixture {
	f := &authFixture{
		actorRepo:    new(MockActorRepository),
		referralRepo: new(MockReferralRepository),
		walletRepo:   new(MockWalletAccountRepository),
		uow:          new(MockUnitOfWork),
	}
	jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
	f.uc = usecases.NewAuthUsecase(f.actorRepo, f.referralRepo, f.walletRepo, f.uow, jwtService, nil, admin)
	return f
}

func registerInput() *entities.RegisterActorInput {
	return &entities.RegisterActorInput{
		FullName:     "Muthu Kumar",
		Email:        "muthu@example.com",
		MobileNumber: "9876543210",
		Password:     "secret123",
		Role:         "driver",
		District:     "Salem",
		VehicleType:  "lorry",
		WheelType:    "4",
	}
}

func TestAuthUsecase_Register_OpensBothWallets(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})

	f.actorRepo.On("GetByEmailOrMobile", mock.Anything, "muthu@example.com", "9876543210").Return(nil, domainerrors.ErrNotFound)
	f.actorRepo.On("GetByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(nil, domainerrors.ErrNotFound)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.actorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Actor")).Return(nil).Once()
	f.walletRepo.On("GetOrCreate", mock.Anything, mock.AnythingOfType("uuid.UUID"), entities.WalletReward).Return(&entities.WalletAccount{Kind: entities.WalletReward}, nil).Once()
	f.walletRepo.On("GetOrCreate", mock.Anything, mock.AnythingOfType("uuid.UUID"), entities.WalletDiesel).Return(&entities.WalletAccount{Kind: entities.WalletDiesel}, nil).Once()

	actor, err := f.uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Equal(t, entities.TierElite, actor.Tier)
	assert.Equal(t, entities.ApprovalStatusPending, actor.ApprovalStatus)
	assert.Len(t, actor.ReferralCode, 8)
	assert.NotEqual(t, "secret123", actor.PasswordHash)
	f.walletRepo.AssertExpectations(t)
	f.referralRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_SnapshotsReferralReward(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})
	referrerID := uuid.New()

	f.actorRepo.On("GetByEmailOrMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	f.actorRepo.On("GetByReferralCode", mock.Anything, "TRK12345").Return(&entities.Actor{
		ID: referrerID, Role: entities.ActorRoleDriver, Tier: entities.TierElite,
	}, nil)
	f.actorRepo.On("GetByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(nil, domainerrors.ErrNotFound)
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.actorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Actor")).Return(nil)

	var edge *entities.ReferralEdge
	f.referralRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.ReferralEdge")).Run(func(args mock.Arguments) {
		edge = args.Get(1).(*entities.ReferralEdge)
	}).Return(nil).Once()
	f.walletRepo.On("GetOrCreate", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("entities.WalletKind")).Return(&entities.WalletAccount{}, nil)

	input := registerInput()
	input.ReferredBy = "TRK12345"

	_, err := f.uc.Register(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, referrerID, edge.ReferrerID)
	assert.Equal(t, int64(500), edge.RewardAmount)
	assert.False(t, edge.Paid)
}

// A generated referral code colliding with an existing actor's code is
// regenerated rather than surfacing as an insert conflict.
func TestAuthUsecase_Register_RegeneratesCollidingReferralCode(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})

	f.actorRepo.On("GetByEmailOrMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	// First draw is taken, second is free.
	f.actorRepo.On("GetByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(&entities.Actor{ID: uuid.New()}, nil).Once()
	f.actorRepo.On("GetByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(nil, domainerrors.ErrNotFound).Once()
	f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
	f.actorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Actor")).Return(nil).Once()
	f.walletRepo.On("GetOrCreate", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("entities.WalletKind")).Return(&entities.WalletAccount{}, nil)

	actor, err := f.uc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	assert.Len(t, actor.ReferralCode, 8)
	f.actorRepo.AssertExpectations(t)
}

func TestAuthUsecase_Register_DuplicateConflict(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})

	f.actorRepo.On("GetByEmailOrMobile", mock.Anything, mock.Anything, mock.Anything).Return(&entities.Actor{ID: uuid.New()}, nil)

	_, err := f.uc.Register(context.Background(), registerInput())
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAlreadyExists)
	f.actorRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_UnknownReferralCode(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})

	f.actorRepo.On("GetByEmailOrMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
	f.actorRepo.On("GetByReferralCode", mock.Anything, "BOGUS123").Return(nil, domainerrors.ErrNotFound)

	input := registerInput()
	input.ReferredBy = "BOGUS123"

	_, err := f.uc.Register(context.Background(), input)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
}

func TestAuthUsecase_Register_TierMapping(t *testing.T) {
	cases := []struct {
		name      string
		role      string
		wheelType string
		tier      entities.ActorTier
	}{
		{"4-wheel driver is elite", "driver", "4", entities.TierElite},
		{"6-wheel driver is premium", "driver", "6", entities.TierPremium},
		{"agent has the agent tier", "agent", "", entities.TierAgent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAuthFixture(usecases.AdminCredentials{})
			f.actorRepo.On("GetByEmailOrMobile", mock.Anything, mock.Anything, mock.Anything).Return(nil, domainerrors.ErrNotFound)
			f.actorRepo.On("GetByReferralCode", mock.Anything, mock.AnythingOfType("string")).Return(nil, domainerrors.ErrNotFound)
			f.uow.On("Do", mock.Anything, mock.Anything).Return(nil)
			f.actorRepo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Actor")).Return(nil)
			f.walletRepo.On("GetOrCreate", mock.Anything, mock.AnythingOfType("uuid.UUID"), mock.AnythingOfType("entities.WalletKind")).Return(&entities.WalletAccount{}, nil)

			input := registerInput()
			input.Role = tc.role
			input.WheelType = tc.wheelType

			actor, err := f.uc.Register(context.Background(), input)
			require.NoError(t, err)
			assert.Equal(t, tc.tier, actor.Tier)
		})
	}
}

func TestAuthUsecase_Login(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})
	actorID := uuid.New()

	hash, err := crypto.HashPassword("secret123")
	require.NoError(t, err)

	f.actorRepo.On("GetByEmail", mock.Anything, "muthu@example.com").Return(&entities.Actor{
		ID:           actorID,
		Email:        "muthu@example.com",
		PasswordHash: hash,
		Role:         entities.ActorRoleDriver,
	}, nil)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := f.uc.Login(context.Background(), "muthu@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, actorID, resp.Actor.ID)
		assert.NotEmpty(t, resp.TokenPair.AccessToken)
		assert.NotEmpty(t, resp.SessionID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.uc.Login(context.Background(), "muthu@example.com", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})

	t.Run("unknown email", func(t *testing.T) {
		f.actorRepo.On("GetByEmail", mock.Anything, "nobody@example.com").Return(nil, domainerrors.ErrNotFound)
		_, err := f.uc.Login(context.Background(), "nobody@example.com", "secret123")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})
}

func TestAuthUsecase_AdminLogin(t *testing.T) {
	hash, err := crypto.HashPassword("admin-pass")
	require.NoError(t, err)

	f := newAuthFixture(usecases.AdminCredentials{
		Email:        "ops@gotruck.in",
		PasswordHash: hash,
	})

	t.Run("valid credentials carry the admin role", func(t *testing.T) {
		pair, err := f.uc.AdminLogin(context.Background(), "ops@gotruck.in", "admin-pass")
		require.NoError(t, err)

		jwtService := jwt.NewJWTService("test-secret", 15*time.Minute, 24*time.Hour)
		claims, err := jwtService.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Role)
		assert.Equal(t, uuid.Nil, claims.ActorID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.uc.AdminLogin(context.Background(), "ops@gotruck.in", "nope")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})

	t.Run("unconfigured admin rejects everything", func(t *testing.T) {
		bare := newAuthFixture(usecases.AdminCredentials{})
		_, err := bare.uc.AdminLogin(context.Background(), "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
	})
}

func TestAuthUsecase_Profile(t *testing.T) {
	f := newAuthFixture(usecases.AdminCredentials{})
	actorID := uuid.New()

	f.actorRepo.On("GetByID", mock.Anything, actorID).Return(&entities.Actor{ID: actorID}, nil)

	actor, err := f.uc.Profile(context.Background(), actorID)
	require.NoError(t, err)
	assert.Equal(t, actorID, actor.ID)
}

package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gotruck.backend/internal/domain/entities"
	"gotruck.backend/internal/domain/errors"
	domainRepos "gotruck.backend/internal/domain/repositories"
	"gotruck.backend/pkg/crypto"
	"gotruck.backend/pkg/jwt"
	"gotruck.backend/pkg/logger"
	"gotruck.backend/pkg/redis"
	"gotruck.backend/pkg/utils"
)

// AdminCredentials is the single back-office account, configured by env.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

// AuthUsecase handles registration and login for drivers and agents, plus the
// config-backed admin login.
type AuthUsecase struct {
	actorRepo    domainRepos.ActorRepository
	referralRepo domainRepos.ReferralRepository
	walletRepo   domainRepos.WalletAccountRepository
	uow          domainRepos.UnitOfWork
	jwtService   *jwt.JWTService
	sessionStore *redis.SessionStore
	admin        AdminCredentials
}

func NewAuthUsecase(
	actorRepo domainRepos.ActorRepository,
	referralRepo domainRepos.ReferralRepository,
	walletRepo domainRepos.WalletAccountRepository,
	uow domainRepos.UnitOfWork,
	jwtService *jwt.JWTService,
	sessionStore *redis.SessionStore,
	admin AdminCredentials,
) *AuthUsecase {
	return &AuthUsecase{
		actorRepo:    actorRepo,
		referralRepo: referralRepo,
		walletRepo:   walletRepo,
		uow:          uow,
		jwtService:   jwtService,
		sessionStore: sessionStore,
		admin:        admin,
	}
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Actor     *entities.Actor `json:"actor"`
	TokenPair *jwt.TokenPair  `json:"tokens"`
	SessionID string          `json:"sessionId"`
}

// Register creates the actor in pending approval state, records the referral
// edge when a valid code was supplied, and opens both wallet accounts at
// zero. The referral reward amount is snapshotted on the edge so it is paid
// at the rate in force at registration time.
func (uc *AuthUsecase) Register(ctx context.Context, input *entities.RegisterActorInput) (*entities.Actor, error) {
	role := entities.ActorRole(input.Role)
	if role != entities.ActorRoleDriver && role != entities.ActorRoleAgent {
		return nil, errors.BadRequest("role must be driver or agent")
	}

	existing, err := uc.actorRepo.GetByEmailOrMobile(ctx, input.Email, input.MobileNumber)
	if err == nil && existing != nil {
		return nil, errors.Conflict("email or mobile number already registered", errors.ErrAlreadyExists)
	}

	var referrer *entities.Actor
	if input.ReferredBy != "" {
		referrer, err = uc.actorRepo.GetByReferralCode(ctx, input.ReferredBy)
		if err != nil {
			return nil, errors.BadRequest("unknown referral code")
		}
	}

	passwordHash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, errors.InternalError(err)
	}

	code, err := uc.freeReferralCode(ctx)
	if err != nil {
		return nil, errors.InternalError(err)
	}

	actor := &entities.Actor{
		ID:             utils.GenerateUUIDv7(),
		FullName:       input.FullName,
		Email:          input.Email,
		MobileNumber:   input.MobileNumber,
		PasswordHash:   passwordHash,
		Role:           role,
		Tier:           TierForRegistration(role, input.WheelType),
		District:       input.District,
		VehicleType:    input.VehicleType,
		WheelType:      input.WheelType,
		ReferralCode:   code,
		ReferredBy:     input.ReferredBy,
		ApprovalStatus: entities.ApprovalStatusPending,
	}

	err = uc.uow.Do(ctx, func(txCtx context.Context) error {
		if err := uc.actorRepo.Create(txCtx, actor); err != nil {
			return errors.Conflict("could not register actor", err)
		}

		if referrer != nil {
			edge := &entities.ReferralEdge{
				ID:           utils.GenerateUUIDv7(),
				ReferrerID:   referrer.ID,
				ReferredID:   actor.ID,
				ReferralCode: input.ReferredBy,
				RewardAmount: ReferralRewardFor(referrer),
			}
			if err := uc.referralRepo.Create(txCtx, edge); err != nil {
				return errors.InternalError(err)
			}
		}

		for _, kind := range []entities.WalletKind{entities.WalletReward, entities.WalletDiesel} {
			if _, err := uc.walletRepo.GetOrCreate(txCtx, actor.ID, kind); err != nil {
				return errors.InternalError(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "actor registered",
		zap.String("actor_id", actor.ID.String()),
		zap.String("role", string(actor.Role)),
		zap.String("tier", string(actor.Tier)),
		zap.Bool("referred", referrer != nil),
	)
	return actor, nil
}

// freeReferralCode generates a code and regenerates on the rare collision
// with an existing actor. The unique index on actors.referral_code still
// backstops a race between the check and the insert.
func (uc *AuthUsecase) freeReferralCode(ctx context.Context) (string, error) {
	var code string
	for attempt := 0; attempt < 5; attempt++ {
		var err error
		code, err = crypto.GenerateReferralCode()
		if err != nil {
			return "", err
		}
		if _, err := uc.actorRepo.GetByReferralCode(ctx, code); err != nil {
			return code, nil
		}
	}
	return code, nil
}

// Login authenticates by email and issues a token pair. Unapproved actors can
// log in and see their wallets; mutation endpoints enforce approval.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	actor, err := uc.actorRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Unauthorized("invalid credentials")
	}

	if !crypto.CheckPassword(password, actor.PasswordHash) {
		return nil, errors.Unauthorized("invalid credentials")
	}

	tokenPair, err := uc.jwtService.GenerateTokenPair(actor.ID, actor.Email, string(actor.Role))
	if err != nil {
		return nil, errors.InternalError(err)
	}

	sessionID := utils.GenerateUUIDv7().String()
	if uc.sessionStore != nil {
		sessionData := &redis.SessionData{
			AccessToken:  tokenPair.AccessToken,
			RefreshToken: tokenPair.RefreshToken,
		}
		if err := uc.sessionStore.CreateSession(ctx, sessionID, sessionData, 24*time.Hour); err != nil {
			logger.Warn(ctx, "failed to persist session", zap.Error(err))
		}
	}

	logger.Info(ctx, "actor logged in", zap.String("actor_id", actor.ID.String()))

	return &LoginResponse{
		Actor:     actor,
		TokenPair: tokenPair,
		SessionID: sessionID,
	}, nil
}

// AdminLogin authenticates the configured back-office account and issues a
// token pair carrying the admin role.
func (uc *AuthUsecase) AdminLogin(ctx context.Context, email, password string) (*jwt.TokenPair, error) {
	if uc.admin.Email == "" || email != uc.admin.Email ||
		!crypto.CheckPassword(password, uc.admin.PasswordHash) {
		return nil, errors.Unauthorized("invalid credentials")
	}

	tokenPair, err := uc.jwtService.GenerateTokenPair(uuid.Nil, email, "admin")
	if err != nil {
		return nil, errors.InternalError(err)
	}

	logger.Info(ctx, "admin logged in")
	return tokenPair, nil
}

// Logout drops the server-side session; the JWT simply expires.
func (uc *AuthUsecase) Logout(ctx context.Context, sessionID string) error {
	if uc.sessionStore == nil || sessionID == "" {
		return nil
	}
	return uc.sessionStore.DeleteSession(ctx, sessionID)
}

// Profile returns the authenticated actor.
func (uc *AuthUsecase) Profile(ctx context.Context, actorID uuid.UUID) (*entities.Actor, error) {
	actor, err := uc.actorRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, errors.NotFound("actor not found")
	}
	return actor, nil
}

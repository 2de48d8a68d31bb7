package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/trend-blog/internal/auth"
	"github.com/spec-kit/trend-blog/internal/config"
	"github.com/spec-kit/trend-blog/internal/domain"
	"github.com/spec-kit/trend-blog/internal/events"
	"github.com/spec-kit/trend-blog/internal/repository"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// User-facing messages. The login and admin-gate strings are part of the
// external contract and must not drift.
const (
	MsgInvalidCredentials   = "이메일 또는 비밀번호가 올바르지 않습니다."
	MsgAdminRequired        = "관리자 권한이 필요합니다."
	MsgNotApproved          = "승인 대기 중인 계정입니다. 관리자 승인 후 이용해 주세요."
	MsgDuplicateEmail       = "이미 등록된 이메일입니다."
	MsgUserNotFound         = "사용자를 찾을 수 없습니다."
	MsgWrongCurrentPassword = "현재 비밀번호가 올바르지 않습니다."
	MsgSelfDeleteForbidden  = "자기 자신은 삭제할 수 없습니다."
)

// UserService coordinates registration, login and account management. Both
// the dedicated endpoints and the multiplexed management endpoint call into
// this one service, so the flows exist exactly once.
type UserService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	denylist   auth.TokenDenylist
	dispatcher events.Dispatcher
	bcryptCost int
}

// UserDependencies encapsulates collaborator requirements for the service.
type UserDependencies struct {
	UserRepo   repository.UserRepository
	TokenMgr   *auth.TokenManager
	Denylist   auth.TokenDenylist
	Dispatcher events.Dispatcher
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, deps UserDependencies) *UserService {
	return &UserService{
		users:      deps.UserRepo,
		tokenMgr:   deps.TokenMgr,
		denylist:   deps.Denylist,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account awaiting admin approval. The caller gets
// the new id only; registration never logs the user in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		ApprovedYN:   domain.ApprovedNo,
		Role:         domain.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(MsgDuplicateEmail)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type: events.EventUserRegistered,
		Payload: events.UserRegisteredPayload{
			UserID: user.ID,
			Name:   user.Name,
			Email:  user.Email,
		},
	})
	return user, nil
}

// Login authenticates a user and issues a bearer token. Unknown email and
// wrong password are indistinguishable to the caller; an unapproved account
// is rejected even with correct credentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}
	if !user.IsApproved() {
		return nil, "", time.Time{}, apperrors.NewForbidden(MsgNotApproved)
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Logout revokes the presented token for its remaining lifetime. Always
// succeeds; a missing or garbage token just has nothing to revoke.
func (s *UserService) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" || s.denylist == nil {
		return
	}
	claims, err := s.tokenMgr.ParseToken(rawToken)
	if err != nil {
		return
	}
	remaining := time.Until(claims.ExpiresAt.Time)
	_ = s.denylist.Revoke(ctx, claims.ID, remaining)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError(MsgWrongCurrentPassword)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateProfile renames the caller's own account.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) (*domain.User, error) {
	user, err := s.users.UpdateProfile(ctx, userID, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns every account, most recent first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ApproveUser flips the approval flag. Idempotent; re-approving an approved
// account just refreshes updated_at.
func (s *UserService) ApproveUser(ctx context.Context, actorID, targetID string, approved bool) (*domain.User, error) {
	flag := domain.ApprovedNo
	if approved {
		flag = domain.ApprovedYes
	}

	user, err := s.users.UpdateApproval(ctx, targetID, flag)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventUserApproved,
		ActorID: actorID,
		Payload: events.UserApprovedPayload{
			UserID:     user.ID,
			ApprovedYN: user.ApprovedYN,
		},
	})
	return user, nil
}

// DeleteUser removes an account. Deleting yourself is forbidden even for an
// admin, so the last admin cannot vanish by accident.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return apperrors.NewValidationError(MsgSelfDeleteForbidden)
	}
	if err := s.users.Delete(ctx, targetID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(MsgUserNotFound)
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AdminUpdateUser updates any account's name, email and approval flag.
// Empty fields keep their current value; the email unique constraint
// already excludes the target itself.
func (s *UserService) AdminUpdateUser(ctx context.Context, targetID, name, email, approvedYN string) (*domain.User, error) {
	current, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, apperrors.MapError(err)
	}

	if name == "" {
		name = current.Name
	}
	if email == "" {
		email = current.Email
	}
	if approvedYN == "" {
		approvedYN = current.ApprovedYN
	}

	user, err := s.users.AdminUpdate(ctx, targetID, name, email, approvedYN)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewConflict(MsgDuplicateEmail)
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound(MsgUserNotFound)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

func (s *UserService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

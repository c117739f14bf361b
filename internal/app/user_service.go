package app

import (
	"context"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/domain/user"
	"admitdesk/internal/security"
)

type ProvisionInput struct {
	UID         string `json:"uid"`
	PhoneNumber string `json:"phone_number"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
	Email       string `json:"email"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      user.User `json:"user"`
}

// UserService provisions accounts from verifier callbacks and issues session
// tokens. The admin allow-list only applies on first provisioning; after that
// the stored role is authoritative and changes only through SetRole.
type UserService struct {
	users      user.Repository
	audit      audit.Repository
	tokens     *security.JWTProvider
	sessionTTL time.Duration
	adminUIDs  map[string]struct{}
	logger     Logger
}

func NewUserService(users user.Repository, auditRepo audit.Repository, tokens *security.JWTProvider, sessionTTL time.Duration, adminUIDs []string, logger Logger) *UserService {
	allow := make(map[string]struct{}, len(adminUIDs))
	for _, uid := range adminUIDs {
		allow[uid] = struct{}{}
	}
	return &UserService{
		users:      users,
		audit:      auditRepo,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		adminUIDs:  allow,
		logger:     logger,
	}
}

// Provision upserts the account behind a verified uid and returns a signed
// session for it. Must only be called after the verifier gateway confirmed
// the identity.
func (s *UserService) Provision(ctx context.Context, input ProvisionInput) (*Session, error) {
	if input.UID == "" {
		return nil, common.NewValidationError("invalid identity payload", map[string]string{"uid": "required"})
	}

	role := user.RoleUser
	if _, ok := s.adminUIDs[input.UID]; ok {
		role = user.RoleAdmin
	}

	account, err := s.users.Upsert(ctx, user.User{
		UID:         input.UID,
		PhoneNumber: input.PhoneNumber,
		Role:        role,
		DisplayName: input.DisplayName,
		PhotoURL:    input.PhotoURL,
		Email:       input.Email,
	})
	if err != nil {
		return nil, err
	}

	// Seeded admins keep admin even if the row predates the allow-list entry.
	if role == user.RoleAdmin && account.Role != user.RoleAdmin {
		if err := s.users.SetRole(ctx, account.UID, user.RoleAdmin); err != nil {
			return nil, err
		}
		account.Role = user.RoleAdmin
	}

	token, expiresAt, err := s.tokens.Generate(account.UID, s.sessionTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to sign session token", err)
	}

	_ = s.audit.Create(ctx, audit.Event{
		Name:    "user.session_issued",
		UserID:  &account.UID,
		Payload: map[string]string{"role": string(account.Role)},
	})
	return &Session{Token: token, ExpiresAt: expiresAt, User: *account}, nil
}

func (s *UserService) GetByUID(ctx context.Context, uid string) (*user.User, error) {
	return s.users.GetByUID(ctx, uid)
}

// SetRole is an admin-only role change for an existing account.
func (s *UserService) SetRole(ctx context.Context, adminUID, uid string, role user.Role) error {
	if role != user.RoleAdmin && role != user.RoleUser {
		return common.NewValidationError("invalid role payload", map[string]string{"role": "must be admin or user"})
	}
	if err := s.users.SetRole(ctx, uid, role); err != nil {
		return err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "user.role_changed",
		UserID:  &adminUID,
		Payload: map[string]string{"uid": uid, "role": string(role)},
	})
	return nil
}

package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"adminapi/internal/logging"
	"adminapi/internal/model"
	"adminapi/internal/repository"
	"adminapi/internal/schema"
	"adminapi/internal/security"
	"adminapi/internal/storage"
)

// Permission flags toggled by UserService.TogglePermission.
const (
	PermSuperuser  = "superuser"
	PermStaff      = "staff"
	PermStatus     = "status"
	PermMultiLogin = "multi_login"
)

// MaxAvatarSize caps avatar uploads in bytes.
const MaxAvatarSize = 5 << 20

const avatarURLTTL = time.Hour

// UserService manages accounts.
type UserService interface {
	Create(ctx context.Context, in schema.AddUserParam) (*model.UserDetail, error)
	Get(ctx context.Context, id int64) (*model.UserDetail, error)
	List(ctx context.Context, p schema.UserListParams) (*repository.PageResult[model.User], error)
	Update(ctx context.Context, id int64, in schema.UpdateUserParam) error
	SetRoles(ctx context.Context, id int64, roleIDs []int64) error
	// ChangePassword updates the caller's password and signs them out everywhere.
	ChangePassword(ctx context.Context, current *model.UserDetail, in schema.ResetPasswordParam) error
	// ResetPassword sets another user's password and revokes their tokens.
	ResetPassword(ctx context.Context, id int64, password string) error
	// TogglePermission flips one of the Perm* flags of user id. keepToken
	// survives the revocation that follows turning multi-login off.
	TogglePermission(ctx context.Context, current *model.UserDetail, id int64, kind, keepToken string) error
	// UploadAvatar stores a new avatar for current and returns its URL.
	UploadAvatar(ctx context.Context, current *model.UserDetail, r io.Reader, contentType string, size int64) (string, error)
	// ResolveAvatar swaps the stored object key in info for a download URL.
	ResolveAvatar(ctx context.Context, info *schema.GetUserInfo)
	Delete(ctx context.Context, current *model.UserDetail, id int64) error
}

type userService struct {
	users  repository.UserRepository
	depts  repository.DeptRepository
	roles  repository.RoleRepository
	tokens TokenManager
	store  storage.Storage
}

// NewUserService constructs a UserService. store may be nil when object
// storage is not configured; avatar uploads then fail with ErrUnavailable.
func NewUserService(users repository.UserRepository, depts repository.DeptRepository, roles repository.RoleRepository, tokens TokenManager, store storage.Storage) UserService {
	return &userService{users: users, depts: depts, roles: roles, tokens: tokens, store: store}
}

func (s *userService) Create(ctx context.Context, in schema.AddUserParam) (*model.UserDetail, error) {
	if err := s.checkUnique(ctx, 0, in.Username, in.Email); err != nil {
		return nil, err
	}
	if err := s.checkDept(ctx, in.DeptID); err != nil {
		return nil, err
	}
	if err := checkRoles(ctx, s.roles, in.Roles); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	nickname := in.Nickname
	if nickname == "" {
		nickname = in.Username
	}
	u := &model.User{
		UUID:     uuid.NewString(),
		Username: in.Username,
		Nickname: nickname,
		Password: hash,
		Email:    in.Email,
		Phone:    in.Phone,
		Status:   model.StatusEnabled,
		DeptID:   in.DeptID,
	}
	created, err := s.users.Create(ctx, u, in.Roles)
	if err != nil {
		return nil, conflictOnDuplicate(err, "username or email already registered")
	}
	return s.users.FindDetail(ctx, created.ID)
}

func (s *userService) Get(ctx context.Context, id int64) (*model.UserDetail, error) {
	u, err := s.users.FindDetail(ctx, id)
	return u, notFoundIf(err, "user")
}

func (s *userService) List(ctx context.Context, p schema.UserListParams) (*repository.PageResult[model.User], error) {
	pp := p.PageParams.Normalize()
	return s.users.List(ctx, p.Filter(), repository.PageQuery{Limit: pp.Size, Offset: pp.Offset()})
}

func (s *userService) Update(ctx context.Context, id int64, in schema.UpdateUserParam) error {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.checkUnique(ctx, id, in.Username, in.Email); err != nil {
		return err
	}
	if err := s.checkDept(ctx, in.DeptID); err != nil {
		return err
	}
	in.Apply(u)
	return conflictOnDuplicate(s.users.UpdateProfile(ctx, u), "username or email already registered")
}

func (s *userService) SetRoles(ctx context.Context, id int64, roleIDs []int64) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	if err := checkRoles(ctx, s.roles, roleIDs); err != nil {
		return err
	}
	return s.users.SetRoles(ctx, id, roleIDs)
}

func (s *userService) ChangePassword(ctx context.Context, current *model.UserDetail, in schema.ResetPasswordParam) error {
	if !security.VerifyPassword(in.OldPassword, current.Password) {
		return newError(ErrBadRequest, "incorrect old password")
	}
	return s.setPassword(ctx, current.ID, in.NewPassword)
}

func (s *userService) ResetPassword(ctx context.Context, id int64, password string) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	return s.setPassword(ctx, id, password)
}

func (s *userService) setPassword(ctx context.Context, id int64, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, id)
}

func (s *userService) TogglePermission(ctx context.Context, current *model.UserDetail, id int64, kind, keepToken string) error {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	self := id == current.ID

	switch kind {
	case PermSuperuser, PermStaff:
		if !current.IsSuperuser {
			return newError(ErrForbidden, "only superusers may change the %s flag", kind)
		}
		if self {
			return newError(ErrForbidden, "cannot change your own %s flag", kind)
		}
		if kind == PermSuperuser {
			u.IsSuperuser = !u.IsSuperuser
		} else {
			u.IsStaff = !u.IsStaff
		}
	case PermStatus:
		if self {
			return newError(ErrForbidden, "cannot change your own status")
		}
		if u.Status == model.StatusEnabled {
			u.Status = model.StatusDisabled
		} else {
			u.Status = model.StatusEnabled
		}
	case PermMultiLogin:
		u.IsMultiLogin = !u.IsMultiLogin
	default:
		return newError(ErrBadRequest, "unknown permission type %q", kind)
	}

	if err := s.users.UpdateFlags(ctx, u); err != nil {
		return err
	}

	switch {
	case kind == PermStatus && u.Status == model.StatusDisabled:
		return s.tokens.RevokeAll(ctx, id)
	case kind == PermMultiLogin && !u.IsMultiLogin:
		if self {
			return s.tokens.RevokeAll(ctx, id, keepToken)
		}
		return s.tokens.RevokeAll(ctx, id)
	}
	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, current *model.UserDetail, r io.Reader, contentType string, size int64) (string, error) {
	if s.store == nil {
		return "", newError(ErrUnavailable, "object storage is not configured")
	}
	if r == nil {
		return "", newError(ErrBadRequest, "avatar file is required")
	}
	key, ok := storage.AvatarKey(current.ID, contentType)
	if !ok {
		return "", newError(ErrBadRequest, "unsupported image type %q", contentType)
	}
	if size > MaxAvatarSize {
		return "", newError(ErrBadRequest, "avatar exceeds %d MB", MaxAvatarSize>>20)
	}

	obj, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata:    map[string]string{"user-uuid": current.UUID},
	})
	if err != nil {
		return "", fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.users.UpdateAvatar(ctx, current.ID, &obj.Key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			return "", fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return "", fmt.Errorf("db save failed: %w", err)
	}

	if old := current.Avatar; old != nil && storage.OwnsAvatar(current.ID, *old) {
		s.deleteObject(ctx, *old)
	}
	return s.store.PresignGet(ctx, obj.Key, avatarURLTTL)
}

func (s *userService) ResolveAvatar(ctx context.Context, info *schema.GetUserInfo) {
	if s.store == nil || info.Avatar == nil || *info.Avatar == "" {
		return
	}
	u, err := s.store.PresignGet(ctx, *info.Avatar, avatarURLTTL)
	if err != nil {
		logging.L.Warn("presign avatar failed", "component", "storage", "key", *info.Avatar, "err", err)
		return
	}
	info.Avatar = &u
}

func (s *userService) Delete(ctx context.Context, current *model.UserDetail, id int64) error {
	if id == current.ID {
		return newError(ErrForbidden, "cannot delete yourself")
	}
	u, err := s.findUser(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	if u.Avatar != nil && *u.Avatar != "" && s.store != nil {
		s.deleteObject(ctx, *u.Avatar)
	}
	return s.tokens.RevokeAll(ctx, id)
}

func (s *userService) findUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundIf(err, "user")
	}
	return u, nil
}

// deleteObject is best effort; a stale object only wastes space.
func (s *userService) deleteObject(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logging.L.Warn("delete object failed", "component", "storage", "key", key, "err", err)
	}
}

// checkUnique rejects a username or email held by a user other than id.
func (s *userService) checkUnique(ctx context.Context, id int64, username string, email *string) error {
	u, err := s.users.FindByUsername(ctx, username)
	taken, err := found(err)
	if err != nil {
		return err
	}
	if taken && u.ID != id {
		return newError(ErrConflict, "username already registered")
	}
	if email == nil || *email == "" {
		return nil
	}
	u, err = s.users.FindByEmail(ctx, *email)
	taken, err = found(err)
	if err != nil {
		return err
	}
	if taken && u.ID != id {
		return newError(ErrConflict, "email already registered")
	}
	return nil
}

func (s *userService) checkDept(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.depts.FindByID(ctx, *id)
	return notFoundIf(err, "department")
}

// checkRoles requires every id to name an existing role.
func checkRoles(ctx context.Context, roles repository.RoleRepository, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := roles.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	have := make(map[int64]struct{}, len(found))
	for _, r := range found {
		have[r.ID] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			return newError(ErrNotFound, "role %d not found", id)
		}
	}
	return nil
}

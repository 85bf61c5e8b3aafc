package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/db/dbtest"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/pagination"
	"github.com/angelmondragon/wholesale-backend/pkg/security"
)

type stubRevoker struct {
	revoked []string
}

func (s *stubRevoker) RevokeAll(_ context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

var testPasswordCfg = config.PasswordConfig{
	ArgonMemoryKB:    8 * 1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) (Service, *Repository, *stubRevoker) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	revoker := &stubRevoker{}
	svc, err := NewService(ServiceParams{Repo: repo, Sessions: revoker, Password: testPasswordCfg})
	require.NoError(t, err)
	return svc, repo, revoker
}

func seedUser(t *testing.T, repo *Repository, email string) *UserDTO {
	t.Helper()
	hash, err := security.HashPassword("secret123", testPasswordCfg)
	require.NoError(t, err)
	user, err := repo.Create(context.Background(), CreateUserDTO{Name: "Op", Email: email, PasswordHash: hash})
	require.NoError(t, err)
	return FromModel(user)
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProfileRehashesPassword(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, repo, "op@example.com")

	updated, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{Name: ptr("Operator"), Password: ptr("n3w-secret")})
	require.NoError(t, err)
	assert.Equal(t, "Operator", updated.Name)

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	ok, err := security.VerifyPassword("n3w-secret", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{Password: ptr("abc")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateProfileEmailConflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, repo, "taken@example.com")
	user := seedUser(t, repo, "mine@example.com")

	_, err := svc.UpdateProfile(ctx, user.ID, ProfileInput{Email: ptr("TAKEN@example.com")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = svc.UpdateProfile(ctx, user.ID, ProfileInput{Email: ptr("not-an-email")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAdminDeactivateRevokesSessions(t *testing.T) {
	svc, repo, revoker := newTestService(t)
	ctx := context.Background()
	user := seedUser(t, repo, "worker@example.com")

	updated, err := svc.Update(ctx, user.ID, AdminUpdateInput{Role: ptr(enums.UserRoleManager), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, enums.UserRoleManager, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []string{user.ID.String()}, revoker.revoked)

	_, err = svc.Update(ctx, user.ID, AdminUpdateInput{Role: ptr(enums.UserRole("owner"))})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestSetPermissionsCleansInput(t *testing.T) {
	svc, repo, _ := newTestService(t)
	user := seedUser(t, repo, "perm@example.com")

	updated, err := svc.SetPermissions(context.Background(), user.ID, []string{" reports:view", "orders:write", "reports:view", ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"orders:write", "reports:view"}, updated.Permissions)

	_, err = svc.SetPermissions(context.Background(), uuid.New(), []string{"x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteAndList(t *testing.T) {
	svc, repo, revoker := newTestService(t)
	ctx := context.Background()
	a := seedUser(t, repo, "a@example.com")
	seedUser(t, repo, "b@example.com")

	require.NoError(t, svc.Delete(ctx, a.ID))
	assert.Contains(t, revoker.revoked, a.ID.String())

	page, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "b@example.com", page.Items[0].Email)

	err = svc.Delete(ctx, a.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/sheet"
)

type fakeDirectory struct {
	users map[string]sheet.UserRecord
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[string]sheet.UserRecord{}}
}

func (f *fakeDirectory) ListUsers(context.Context) ([]sheet.UserRecord, error) {
	out := make([]sheet.UserRecord, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeDirectory) CreateUser(_ context.Context, user sheet.UserRecord) error {
	if _, ok := f.users[user.Username]; ok {
		return fmt.Errorf("%w: duplicate username", httpx.ErrRemote)
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeDirectory) UpdateUser(_ context.Context, user sheet.UserRecord) error {
	f.users[user.Username] = user
	return nil
}

func (f *fakeDirectory) DeleteUser(_ context.Context, username string) error {
	delete(f.users, username)
	return nil
}

func (f *fakeDirectory) VerifyCredentials(_ context.Context, username string) (sheet.UserRecord, error) {
	user, ok := f.users[username]
	if !ok {
		return sheet.UserRecord{}, fmt.Errorf("%w: no such user", httpx.ErrRemote)
	}
	return user, nil
}

func TestCreateHashesPassword(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewService(dir)

	user, err := svc.Create(context.Background(), CreateForm{
		Username: "somchai",
		Password: "correct horse",
		FullName: "สมชาย ใจดี",
	})
	require.NoError(t, err)
	require.Equal(t, "user", user.Role)

	stored := dir.users["somchai"]
	require.NotEqual(t, "correct horse", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")))
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeDirectory())
	_, err := svc.Create(context.Background(), CreateForm{Username: "x", Password: "short", FullName: "y"})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewService(dir)
	_, err := svc.Create(context.Background(), CreateForm{
		Username: "somchai",
		Password: "correct horse",
		FullName: "สมชาย",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), "somchai", "correct horse")
	require.NoError(t, err)
	require.Equal(t, "somchai", user.Username)

	_, err = svc.Authenticate(context.Background(), "somchai", "wrong")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)

	_, err = svc.Authenticate(context.Background(), "nobody", "whatever")
	require.ErrorIs(t, err, httpx.ErrUnauthorized)
}

func TestUpdateKeepsHashWithoutNewPassword(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewService(dir)
	_, err := svc.Create(context.Background(), CreateForm{
		Username: "somchai",
		Password: "correct horse",
		FullName: "สมชาย",
	})
	require.NoError(t, err)
	oldHash := dir.users["somchai"].PasswordHash

	_, err = svc.Update(context.Background(), "somchai", UpdateForm{FullName: "สมชาย ใจดี"})
	require.NoError(t, err)
	require.Equal(t, oldHash, dir.users["somchai"].PasswordHash)
	require.Equal(t, "สมชาย ใจดี", dir.users["somchai"].FullName)

	_, err = svc.Update(context.Background(), "somchai", UpdateForm{Password: "new password"})
	require.NoError(t, err)
	require.NotEqual(t, oldHash, dir.users["somchai"].PasswordHash)
}

func TestListOmitsCredentialMaterial(t *testing.T) {
	dir := newFakeDirectory()
	svc := NewService(dir)
	_, err := svc.Create(context.Background(), CreateForm{
		Username: "somchai",
		Password: "correct horse",
		FullName: "สมชาย",
	})
	require.NoError(t, err)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "somchai", list[0].Username)
}

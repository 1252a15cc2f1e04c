package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AuthUser struct {
	UID       string
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time

	User *User
}

type RegisterUser struct {
	Name     string
	Email    string
	Password string
}

// RegisterUser creates the identity-provider account, the application
// user, and the link row between them. New users start as content
// creators; role and company are assigned by an admin afterwards.
func (u Usecase) RegisterUser(ctx context.Context, ru RegisterUser) (User, error) {
	uid, err := u.identityProvider.CreateUser(ctx, ru)
	if err != nil {
		return User{}, err
	}

	user, err := u.repo.CreateUser(ctx, User{
		Name:  ru.Name,
		Email: ru.Email,
		Role:  RoleContentCreator,
	})
	if err != nil {
		return User{}, err
	}

	if _, err := u.repo.CreateAuthUser(ctx, AuthUser{
		UID:    uid,
		UserID: user.ID,
	}); err != nil {
		return User{}, err
	}

	return user, nil
}

// VerifyIDToken resolves a bearer token to an identity-provider UID.
// Used by the auth middleware.
func (u Usecase) VerifyIDToken(ctx context.Context, token string) (string, error) {
	return u.identityProvider.VerifyIDToken(ctx, token)
}

func (u Usecase) GetAuthUserByUID(ctx context.Context, uid string) (AuthUser, error) {
	return u.repo.GetAuthUserByUID(ctx, uid)
}

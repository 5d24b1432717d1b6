package usecase

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/boglefolio/internal/domain"
)

// UserUseCase handles user management and credential checks.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
		idGen:    idGen,
	}
}

// CreateUserInput represents input for registering a user.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// CreateUser registers a new user with a bcrypt-hashed password.
func (uc *UserUseCase) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}

	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	existing, err := uc.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateUsername
	}

	existing, err = uc.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	user := &domain.User{
		ID:             uc.idGen.Generate(),
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: string(hashed),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Authenticate verifies username/password credentials.
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if user == nil || user.HashedPassword == "" {
		return nil, domain.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""

	return user, nil
}

// FindOrCreateSSOUser resolves the user for an OIDC identity, provisioning
// one on first login. SSO-provisioned users carry no local password.
func (uc *UserUseCase) FindOrCreateSSOUser(ctx context.Context, username, email string) (*domain.User, error) {
	if email != "" {
		user, err := uc.userRepo.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			user.HashedPassword = ""
			return user, nil
		}
	}

	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		user.HashedPassword = ""
		return user, nil
	}

	now := time.Now().UTC()

	user = &domain.User{
		ID:        uc.idGen.Generate(),
		Username:  username,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// UpdateUserInput represents input for a partial user update.
type UpdateUserInput struct {
	ID       string
	Email    *string
	Password *string
}

// UpdateUser applies a partial update to a user.
func (uc *UserUseCase) UpdateUser(ctx context.Context, input UpdateUserInput) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		if err := domain.ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		user.Email = *input.Email
	}

	if input.Password != nil {
		if err := domain.ValidatePassword(*input.Password); err != nil {
			return nil, err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.HashedPassword = string(hashed)
	}

	user.UpdatedAt = time.Now().UTC()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// DeleteUser deletes a user by ID.
func (uc *UserUseCase) DeleteUser(ctx context.Context, id string) error {
	if _, err := uc.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	return uc.userRepo.Delete(ctx, id)
}

// ListUsers lists users with pagination.
func (uc *UserUseCase) ListUsers(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	limit, offset = domain.ValidatePagination(limit, offset)

	users, err := uc.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		user.HashedPassword = ""
	}

	return users, nil
}

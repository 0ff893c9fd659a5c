package auth

import (
	"context"
	"time"

	"UniProjectHub/internal/apperr"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	repo *UserRepository
}

func NewUserService(repo *UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) RegisterUser(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if !ValidRole(req.Role) {
		return nil, apperr.Validation("role must be student, supervisor or admin")
	}
	if req.Role == RoleStudent && req.StudentID == "" {
		return nil, apperr.Validation("student ID is required for student registration")
	}

	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Validation("email already registered")
	}

	hashPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &User{
		ID:             primitive.NewObjectID(),
		Name:           req.Name,
		Email:          req.Email,
		PasswordHash:   hashPassword,
		Role:           req.Role,
		Department:     req.Department,
		Specialization: req.Specialization,
		Phone:          req.Phone,
		StudentID:      req.StudentID,
		SupervisorID:   req.SupervisorID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) AuthenticateUser(ctx context.Context, cred Credential) (string, error) {
	user, err := s.repo.FindByEmail(ctx, cred.Email)
	if err != nil {
		return "", err
	}
	if user == nil || !CheckPasswordHash(cred.Password, user.PasswordHash) {
		return "", apperr.Validation("invalid credentials")
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Name, user.Email, user.Role, time.Hour*24)
	if err != nil {
		return "", apperr.Validation("token not generated")
	}
	return token, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}
	return user, nil
}

// ListUsers returns all users, or only those with the given role when role
// is non-empty.
func (s *UserService) ListUsers(ctx context.Context, role string) ([]*User, error) {
	if role == "" {
		return s.repo.FindAll(ctx)
	}
	if !ValidRole(role) {
		return nil, apperr.Validation("unknown role %q", role)
	}
	return s.repo.FindByRole(ctx, role)
}

// UpdateUser applies an admin edit. The role field never changes.
func (s *UserService) UpdateUser(ctx context.Context, id primitive.ObjectID, req UpdateUserRequest) (*User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Specialization != nil {
		user.Specialization = *req.Specialization
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.SupervisorID != nil {
		user.SupervisorID = *req.SupervisorID
	}
	user.UpdatedAt = time.Now()

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.DeleteUser(ctx, id)
}

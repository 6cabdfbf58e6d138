package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"user-grid/backend/app/cache"
	"user-grid/backend/app/models"
	"user-grid/backend/app/repo"
	"user-grid/backend/global"
	"user-grid/network"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrValidation = errors.New("invalid user")
)

// SeedUsers is what an empty table is filled with on first start.
var SeedUsers = []models.User{
	{Name: "John Doe", Email: "john@example.com", Age: 28, Role: "admin", CreatedAt: "2024-01-15T10:00:00Z"},
	{Name: "Jane Smith", Email: "jane@example.com", Age: 32, Role: "user", CreatedAt: "2024-02-20T14:30:00Z"},
	{Name: "Bob Johnson", Email: "bob@example.com", Age: 25, Role: "moderator", CreatedAt: "2024-03-10T09:15:00Z"},
	{Name: "Alice Brown", Email: "alice@example.com", Age: 29, Role: "user", CreatedAt: "2024-04-05T16:45:00Z"},
	{Name: "Charlie Wilson", Email: "charlie@example.com", Age: 35, Role: "admin", CreatedAt: "2024-05-12T11:20:00Z"},
	{Name: "Diana Lee", Email: "diana@example.com", Age: 27, Role: "user", CreatedAt: "2024-06-01T08:30:00Z"},
}

type createInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   *int   `validate:"required,min=1,max=120"`
	Role  string `validate:"required,role"`
}

type UserService struct {
	users    *repo.UserRepository
	cache    *cache.UserListCache
	validate *validator.Validate
	now      func() time.Time
}

// NewUserService builds the service; listCache may be nil.
func NewUserService(users *repo.UserRepository, listCache *cache.UserListCache) *UserService {
	return &UserService{users: users, cache: listCache, validate: newValidator(), now: time.Now}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return network.Role(fl.Field().String()).Valid()
	})
	return v
}

// List returns every user in id order, served from the list cache when it
// holds a copy.
func (s *UserService) List(ctx context.Context) ([]network.User, error) {
	var (
		gen       int64
		cacheable bool
	)
	if s.cache.Enabled() {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			global.Logger.Warn().Err(err).Msg("user list cache read failed")
		} else if ok {
			return cached, nil
		}
		// taken before the query; a create after this point voids the write
		gen, err = s.cache.Generation(ctx)
		cacheable = err == nil
	}

	rows, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]network.User, 0, len(rows))
	for _, u := range rows {
		out = append(out, u.Wire())
	}

	if cacheable {
		stored, err := s.cache.Set(ctx, gen, out)
		switch {
		case err != nil:
			global.Logger.Warn().Err(err).Msg("user list cache write failed")
		case !stored:
			global.Logger.Debug().Int64("generation", gen).Msg("user list changed during read, not cached")
		}
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*network.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	wire := u.Wire()
	return &wire, nil
}

// Create validates and stores a new user. A missing created_at is stamped
// with the current time.
func (s *UserService) Create(ctx context.Context, req network.CreateUserRequest) (*network.User, error) {
	in := createInput{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Age:   req.Age,
		Role:  string(req.Role),
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, describe(err))
	}

	created := req.CreatedAt
	if created == "" {
		created = s.now().UTC().Format(time.RFC3339)
	}
	u := &models.User{Name: in.Name, Email: in.Email, Age: *in.Age, Role: in.Role, CreatedAt: created}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx); err != nil {
			global.Logger.Warn().Err(err).Msg("user list cache invalidate failed")
		}
	}
	wire := u.Wire()
	return &wire, nil
}

// Seed inserts SeedUsers when the table is empty.
func (s *UserService) Seed(ctx context.Context) (bool, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return false, nil
	}
	rows := make([]models.User, len(SeedUsers))
	copy(rows, SeedUsers)
	if err := s.users.CreateBatch(ctx, rows); err != nil {
		return false, fmt.Errorf("seed users: %w", err)
	}
	if s.cache.Enabled() {
		if err := s.cache.Invalidate(ctx); err != nil {
			global.Logger.Warn().Err(err).Msg("user list cache invalidate failed")
		}
	}
	return true, nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, "email must be a valid address")
		case "min", "max":
			parts = append(parts, field+" must be between 1 and 120")
		case "role":
			parts = append(parts, field+" must be one of admin, user, moderator, guest")
		default:
			parts = append(parts, field+" is invalid")
		}
	}
	return strings.Join(parts, "; ")
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/guitarhaus/guitarhaus-api/internal/authz"
	"github.com/guitarhaus/guitarhaus-api/internal/dto"
	"github.com/guitarhaus/guitarhaus-api/internal/model"
	"github.com/guitarhaus/guitarhaus-api/internal/repository"
)

var (
	ErrCustomerExists     = errors.New("customer already exists")
	ErrCustomerNotFound   = errors.New("customer not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	customerRepo repository.CustomerRepository
	jwtSecret    []byte
	jwtExpiry    time.Duration
}

func NewAuthService(customerRepo repository.CustomerRepository, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{customerRepo: customerRepo, jwtSecret: []byte(jwtSecret), jwtExpiry: jwtExpiry}
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if existing != nil {
		return nil, ErrCustomerExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	customer := &model.Customer{
		Email: req.Email, Password: string(hashed),
		FirstName: req.FirstName, LastName: req.LastName,
		Phone: req.Phone, Role: authz.RoleCustomer,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	token, err := s.generateToken(customer)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, Customer: toCustomerResponse(customer)}, nil
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	customer, err := s.customerRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(customer)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &dto.AuthResponse{Token: token, Customer: toCustomerResponse(customer)}, nil
}

func (s *AuthService) Profile(ctx context.Context, customerID uuid.UUID) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// ListCustomers is the admin account directory.
func (s *AuthService) ListCustomers(ctx context.Context) ([]dto.CustomerResponse, error) {
	customers, err := s.customerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, toCustomerResponse(&customers[i]))
	}
	return items, nil
}

// GetCustomer returns an account to its owner or an admin.
func (s *AuthService) GetCustomer(ctx context.Context, subject authz.Subject, customerID uuid.UUID) (*dto.CustomerResponse, error) {
	if err := authz.CanAccess(subject, customerID); err != nil {
		return nil, err
	}
	return s.Profile(ctx, customerID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, customerID uuid.UUID, req dto.UpdateProfileRequest) (*dto.CustomerResponse, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	if req.FirstName != nil {
		customer.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		customer.LastName = *req.LastName
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Image != nil {
		customer.Image = *req.Image
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

func (s *AuthService) generateToken(customer *model.Customer) (string, error) {
	claims := jwt.MapClaims{
		"sub":  customer.ID.String(),
		"role": customer.Role,
		"exp":  time.Now().Add(s.jwtExpiry).Unix(),
		"iat":  time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func toCustomerResponse(customer *model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID: customer.ID, Email: customer.Email,
		FirstName: customer.FirstName, LastName: customer.LastName,
		Phone: customer.Phone, Image: customer.Image, Role: customer.Role,
	}
}

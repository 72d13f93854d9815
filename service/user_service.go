package application

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"

	"estately_service/domain"
	"estately_service/errors"
)

type UserService struct {
	store  domain.UserStore
	names  domain.NameCache
	logger *logrus.Logger
	tracer trace.Tracer
}

func NewUserService(store domain.UserStore, names domain.NameCache, logger *logrus.Logger, tracer trace.Tracer) *UserService {
	return &UserService{
		store:  store,
		names:  names,
		logger: logger,
		tracer: tracer,
	}
}

func (service *UserService) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Register")
	defer span.End()

	if err := user.Validate(); err != nil {
		return nil, err
	}

	existing, err := service.store.GetByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		return nil, fmt.Errorf(errors.EmailAlreadyExist)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.Password = string(hash)
	if user.Role == "" {
		user.Role = domain.Customer
	}
	user.CreatedAt = time.Now()

	created, err := service.store.Register(ctx, user)
	if err != nil {
		service.logger.Printf("Error registering user: %v", err)
		return nil, fmt.Errorf("failed to register user: %v", err)
	}
	created.Password = ""
	return created, nil
}

func (service *UserService) Login(ctx context.Context, credentials *domain.Credentials) (string, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Login")
	defer span.End()

	user, err := service.store.GetByEmail(ctx, credentials.Email)
	if err != nil || user == nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}
	if user.IsSuspended {
		return "", fmt.Errorf(errors.UserSuspendedError)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		return "", fmt.Errorf(errors.InvalidCredentials)
	}

	return GenerateJWT(user)
}

func (service *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Get")
	defer span.End()

	user, err := service.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

func (service *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetAll")
	defer span.End()

	users, err := service.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, user := range users {
		user.Password = ""
	}
	return users, nil
}

func GenerateJWT(user *domain.User) (string, error) {
	key := []byte(os.Getenv("SECRET_KEY"))
	signer, err := jwt.NewSignerHS(jwt.HS256, key)
	if err != nil {
		log.Println(err)
		return "", fmt.Errorf(errors.ErrorToken)
	}

	builder := jwt.NewBuilder(signer)

	claims := &domain.Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
	}

	token, err := builder.Build(claims)
	if err != nil {
		log.Println(err)
		return "", fmt.Errorf(errors.ErrorToken)
	}

	return token.String(), nil
}

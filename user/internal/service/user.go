package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/storefront/internal/auth"
	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/user/internal/otel"
	"github.com/Alturino/storefront/user/pkg/request"
)

type UserService struct {
	users  repository.UserRepo
	config config.Application
}

func NewUserService(users repository.UserRepo, config config.Application) *UserService {
	return &UserService{users: users, config: config}
}

func (u *UserService) Login(c context.Context, param request.Login) (string, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Login").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()
	email := param.NormalizedEmail()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding user").Logger()
	logger.Info().Msg("finding user by email")
	user, err := u.users.FindUserByEmail(c, email)
	if repository.IsNotFound(err) {
		err = fmt.Errorf("failed finding user by email with error=%w", inErrors.ErrPasswordMismatch)
	} else if err != nil {
		err = fmt.Errorf("failed finding user by email with error=%w", err)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger = logger.With().Str(constants.KEY_USER_ID, user.ID.String()).Logger()
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(constants.KEY_PROCESS, "verifying password").Logger()
	logger.Info().Msg("verifying hashed password with password")
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(param.Password))
	if err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", errors.Join(err, inErrors.ErrPasswordMismatch))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("verified hashed password with password")

	logger = logger.With().Str(constants.KEY_PROCESS, "signing token").Logger()
	logger.Info().Msg("signing token")
	token, err := auth.NewToken(u.config, user.ID, time.Now())
	if err != nil {
		err = fmt.Errorf("failed signing token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return "", err
	}
	logger.Info().Msg("signed token")

	return token, nil
}

func (u *UserService) Register(c context.Context, param request.Register) (repository.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "UserService Register").
		Str(constants.KEY_EMAIL, param.Email).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", errors.Join(err, inErrors.ErrFailedHashPassword))
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting user").Logger()
	logger.Info().Msg("inserting user")
	user, err := u.users.InsertUser(c, repository.InsertUserParams{
		ID:       uuid.New(),
		Username: param.Username,
		Email:    param.NormalizedEmail(),
		Password: string(hashed),
	})
	if repository.IsUniqueViolation(err) {
		err = fmt.Errorf("failed inserting user with error=%w", inErrors.ErrEmailAlreadyExist)
	} else if err != nil {
		err = fmt.Errorf("failed inserting user with error=%w", err)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return repository.User{}, err
	}
	logger.Info().Str(constants.KEY_USER_ID, user.ID.String()).Msg("inserted user")

	return user, nil
}

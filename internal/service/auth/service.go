package auth

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/errors"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

// Client is the slice of *apiclient.Client the service needs.
type Client interface {
	Do(ctx context.Context, r apiclient.Request, out interface{}) error
}

// AuthServicer is what the session layer depends on.
type AuthServicer interface {
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Me(ctx context.Context, token string) (*model.User, error)
	MeRole(ctx context.Context, token string) (*Identity, error)
	Logout(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, token string, req ProfileUpdate) (*model.User, error)
	UpdateInfo(ctx context.Context, token string, email string) (*model.User, error)
	UpdatePassword(ctx context.Context, token string, req PasswordChange) error
	UpdatePhoto(ctx context.Context, token string, photo model.Upload) (string, error)
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Identity is the canonical actor description returned by /users/me/role.
type Identity struct {
	User     model.User `json:"user"`
	Role     string     `json:"role"`
	LinkedID *int64     `json:"linked_id"`
}

type RegisterRequest struct {
	Name                 string `json:"name" label:"nom" validate:"required"`
	Email                string `json:"email" label:"email" validate:"required,email"`
	Password             string `json:"password" label:"mot de passe" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" label:"confirmation" validate:"required,eqfield=Password"`
	Role                 string `json:"role" label:"rôle" validate:"required"`
}

type ProfileUpdate struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type PasswordChange struct {
	Ancien  string `json:"ancien" label:"mot de passe actuel" validate:"required"`
	Nouveau string `json:"nouveau" label:"nouveau mot de passe" validate:"required"`
}

type Service struct {
	client    Client
	validator validator.Validator
}

func NewService(client Client, v validator.Validator) *Service {
	if v == nil {
		v = validator.New()
	}
	return &Service{client: client, validator: v}
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	if email == "" || password == "" {
		return nil, errors.Validation("Veuillez saisir votre email et votre mot de passe")
	}

	var resp LoginResponse
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     apiclient.JSON(map[string]string{"email": email, "password": password}),
		Endpoint: "auth.login",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, errors.Application(0, "Réponse de connexion invalide")
	}
	return &resp, nil
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	var resp LoginResponse
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     apiclient.JSON(req),
		Endpoint: "auth.register",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Service) Me(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	err := s.client.Do(ctx, apiclient.Request{
		Path:     "/users/me",
		Token:    token,
		Endpoint: "users.me",
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) MeRole(ctx context.Context, token string) (*Identity, error) {
	var id Identity
	err := s.client.Do(ctx, apiclient.Request{
		Path:     "/users/me/role",
		Token:    token,
		Endpoint: "users.me_role",
	}, &id)
	if err != nil {
		return nil, err
	}
	if id.User.ID == 0 && id.User.Email == "" {
		return nil, errors.Application(0, "Profil utilisateur introuvable")
	}
	return &id, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPost,
		Path:     "/users/logout",
		Token:    token,
		Endpoint: "users.logout",
	}, nil)
}

func (s *Service) UpdateProfile(ctx context.Context, token string, req ProfileUpdate) (*model.User, error) {
	return s.putUser(ctx, token, "/users/me/update", "users.update", req)
}

func (s *Service) UpdateInfo(ctx context.Context, token string, email string) (*model.User, error) {
	if err := s.validator.ValidateField("email", email, "required", "email"); err != nil {
		return nil, errors.Validation(err.Error())
	}
	return s.putUser(ctx, token, "/users/me/update-info", "users.update_info", map[string]string{"email": email})
}

func (s *Service) UpdatePassword(ctx context.Context, token string, req PasswordChange) error {
	if err := s.validate(req); err != nil {
		return err
	}
	return s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPut,
		Path:     "/users/me/update-secret",
		Token:    token,
		Body:     apiclient.JSON(req),
		Endpoint: "users.update_secret",
	}, nil)
}

// UpdatePhoto uploads a new profile photo and returns its storage reference.
func (s *Service) UpdatePhoto(ctx context.Context, token string, photo model.Upload) (string, error) {
	if len(photo.Content) == 0 {
		return "", errors.Validation("Veuillez choisir une photo")
	}
	var resp struct {
		PhotoURL string `json:"photo_url"`
	}
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPut,
		Path:     "/users/me/update-photo",
		Token:    token,
		Body:     apiclient.NewForm().File("photo", apiclient.File{Name: photo.Name, Content: photo.Content}),
		Endpoint: "users.update_photo",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.PhotoURL, nil
}

func (s *Service) putUser(ctx context.Context, token, path, endpoint string, body interface{}) (*model.User, error) {
	var user model.User
	err := s.client.Do(ctx, apiclient.Request{
		Method:   http.MethodPut,
		Path:     path,
		Token:    token,
		Body:     apiclient.JSON(body),
		Endpoint: endpoint,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) validate(v interface{}) error {
	err := s.validator.Validate(v)
	if err == nil {
		return nil
	}
	var fe *validator.FieldError
	if stderrors.As(err, &fe) {
		return errors.Validation(fe.Error())
	}
	return errors.Validation(err.Error())
}

package user

import (
	"net/http"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

var Endpoint = resource.Endpoint{
	Name:           "users",
	Path:           "/users/users-management/users-management",
	ListKey:        "users",
	MethodOverride: http.MethodPut,
}

type Service = resource.Service[model.User, model.CreateUserRequest, model.UpdateUserRequest]

func NewService(client resource.Client, v validator.Validator) *Service {
	return resource.NewService[model.User, model.CreateUserRequest, model.UpdateUserRequest](
		client, Endpoint, v, encodeCreate, encodeUpdate)
}

func encodeCreate(req model.CreateUserRequest) (apiclient.Body, error) {
	form := apiclient.NewForm().
		Set("name", req.Name).
		Set("email", req.Email).
		Set("password", req.Password).
		Set("phone", req.Phone).
		Set("role", req.Role)
	if req.Photo != nil {
		form.File("photo", apiclient.File{Name: req.Photo.Name, Content: req.Photo.Content})
	}
	return form, nil
}

func encodeUpdate(req model.UpdateUserRequest) (apiclient.Body, error) {
	form := apiclient.NewForm()
	set := func(key string, v *string) {
		if v != nil {
			form.Set(key, *v)
		}
	}
	set("name", req.Name)
	set("email", req.Email)
	set("password", req.Password)
	set("phone", req.Phone)
	set("role", req.Role)
	if req.Photo != nil {
		form.File("photo", apiclient.File{Name: req.Photo.Name, Content: req.Photo.Content})
	}
	return form, nil
}

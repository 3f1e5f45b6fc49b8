package provider

import (
	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

var Endpoint = resource.Endpoint{
	Name:    "providers",
	Path:    "/users/admin/provider",
	ListKey: "providers",
}

type Service = resource.Service[model.Provider, model.CreateProviderRequest, model.UpdateProviderRequest]

// Provider bodies are JSON; the update draft's omitempty pointers carry the
// patch semantics.
func NewService(client resource.Client, v validator.Validator) *Service {
	return resource.NewService[model.Provider, model.CreateProviderRequest, model.UpdateProviderRequest](
		client, Endpoint, v,
		func(req model.CreateProviderRequest) (apiclient.Body, error) { return apiclient.JSON(req), nil },
		func(req model.UpdateProviderRequest) (apiclient.Body, error) { return apiclient.JSON(req), nil },
	)
}

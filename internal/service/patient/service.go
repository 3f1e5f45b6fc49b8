package patient

import (
	"fmt"
	"strconv"

	"github.com/jwalitptl/passpay-web/internal/model"
	"github.com/jwalitptl/passpay-web/internal/resource"
	"github.com/jwalitptl/passpay-web/pkg/apiclient"
	"github.com/jwalitptl/passpay-web/pkg/validator"
)

var Endpoint = resource.Endpoint{
	Name:      "patients",
	Path:      "/users/admin/patient",
	ListKey:   "patients",
	DetailKey: "patient",
}

type Service = resource.Service[model.Patient, model.CreatePatientRequest, model.UpdatePatientRequest]

func NewService(client resource.Client, v validator.Validator) *Service {
	return resource.NewService[model.Patient, model.CreatePatientRequest, model.UpdatePatientRequest](
		client, Endpoint, v, encodeCreate, encodeUpdate)
}

func encodeCreate(req model.CreatePatientRequest) (apiclient.Body, error) {
	form := apiclient.NewForm().
		Set("user_id", strconv.FormatInt(req.UserID, 10)).
		Set("first_name", req.FirstName).
		Set("last_name", req.LastName).
		Set("birth_date", req.BirthDate).
		Set("gender", req.Gender)
	if req.BloodGroup != "" {
		form.Set("blood_group", req.BloodGroup)
	}
	if req.Height != nil {
		form.Set("height", model.FormatFloat(*req.Height))
	}
	if req.Weight != nil {
		form.Set("weight", model.FormatFloat(*req.Weight))
	}
	if req.Address != "" {
		form.Set("address", req.Address)
	}
	for i, doc := range req.Documents {
		form.Set(fmt.Sprintf("documents[%d][title]", i), doc.Title)
		form.Set(fmt.Sprintf("documents[%d][type]", i), doc.Type)
		form.File(fmt.Sprintf("documents[%d][file]", i), apiclient.File{Name: doc.File.Name, Content: doc.File.Content})
	}
	return form, nil
}

// Updates use the parallel-array document layout the update route expects.
func encodeUpdate(req model.UpdatePatientRequest) (apiclient.Body, error) {
	form := apiclient.NewForm()
	set := func(key string, v *string) {
		if v != nil {
			form.Set(key, *v)
		}
	}
	set("first_name", req.FirstName)
	set("last_name", req.LastName)
	set("birth_date", req.BirthDate)
	set("gender", req.Gender)
	set("blood_group", req.BloodGroup)
	set("address", req.Address)
	if req.Height != nil {
		form.Set("height", model.FormatFloat(*req.Height))
	}
	if req.Weight != nil {
		form.Set("weight", model.FormatFloat(*req.Weight))
	}

	i := 0
	for _, doc := range req.Documents {
		if len(doc.File.Content) == 0 {
			continue
		}
		form.File(fmt.Sprintf("documents[%d]", i), apiclient.File{Name: doc.File.Name, Content: doc.File.Content})
		form.Set(fmt.Sprintf("document_titles[%d]", i), doc.Title)
		form.Set(fmt.Sprintf("document_types[%d]", i), doc.Type)
		i++
	}
	return form, nil
}

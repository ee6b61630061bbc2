package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/convocatorias/portal/internal/app/models"
	"github.com/convocatorias/portal/internal/app/models/dto"
)

// Resource is the typed CRUD surface of one REST collection.
type Resource[T any] struct {
	c    *Client
	path string
}

// NewResource returns the accessor for the collection at /{name}.
func NewResource[T any](c *Client, name string) *Resource[T] {
	return &Resource[T]{c: c, path: "/" + name}
}

// List returns the records matching term ("" for all).
func (r *Resource[T]) List(ctx context.Context, term string) ([]T, error) {
	path := r.path
	if term != "" {
		path += "?q=" + url.QueryEscape(term)
	}
	items := []T{}
	if err := r.c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Get returns a single record.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := r.c.get(ctx, r.path+"/"+url.PathEscape(id), &item)
	return item, err
}

// Create stores a new record and returns it with its assigned id.
func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var out T
	err := r.c.send(ctx, http.MethodPost, r.path, item, &out)
	return out, err
}

// Update replaces the record with the given id.
func (r *Resource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var out T
	err := r.c.send(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), item, &out)
	return out, err
}

// Delete removes a record immediately.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.send(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil)
}

// RequestDelete starts a confirmed deletion; see Client.Confirm.
func (r *Resource[T]) RequestDelete(ctx context.Context, id string) (*dto.ConfirmationResponse, error) {
	out := &dto.ConfirmationResponse{}
	if err := r.c.send(ctx, http.MethodPost, r.path+"/"+url.PathEscape(id)+"/delete-requests", nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Calls() *Resource[models.Call] {
	return NewResource[models.Call](c, models.ResourceCalls)
}

func (c *Client) CallHistory() *Resource[models.CallHistory] {
	return NewResource[models.CallHistory](c, models.ResourceCallHistory)
}

func (c *Client) Companies() *Resource[models.Company] {
	return NewResource[models.Company](c, models.ResourceCompanies)
}

func (c *Client) Users() *Resource[dto.UserResponse] {
	return NewResource[dto.UserResponse](c, models.ResourceUsers)
}

func (c *Client) Cities() *Resource[models.City] {
	return NewResource[models.City](c, models.ResourceCities)
}

func (c *Client) Departments() *Resource[models.Department] {
	return NewResource[models.Department](c, models.ResourceDepartments)
}

func (c *Client) Interests() *Resource[models.Interest] {
	return NewResource[models.Interest](c, models.ResourceInterests)
}

func (c *Client) Requirements() *Resource[models.Requirement] {
	return NewResource[models.Requirement](c, models.ResourceRequirements)
}

func (c *Client) Roles() *Resource[models.Role] {
	return NewResource[models.Role](c, models.ResourceRoles)
}

func (c *Client) Lines() *Resource[models.Line] {
	return NewResource[models.Line](c, models.ResourceLines)
}

func (c *Client) TargetAudiences() *Resource[models.TargetAudience] {
	return NewResource[models.TargetAudience](c, models.ResourceTargetAudiences)
}

func (c *Client) Institutions() *Resource[models.Institution] {
	return NewResource[models.Institution](c, models.ResourceInstitutions)
}

func (c *Client) Types() *Resource[models.Type] {
	return NewResource[models.Type](c, models.ResourceTypes)
}

func (c *Client) Checks() *Resource[models.Check] {
	return NewResource[models.Check](c, models.ResourceChecks)
}

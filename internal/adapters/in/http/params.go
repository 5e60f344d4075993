package http

import (
	"orderservice/internal/core/domain/model/kernel"
	"orderservice/internal/core/domain/model/order"
	"orderservice/internal/core/ports"
	"orderservice/internal/pkg/errs"
	"orderservice/internal/pkg/paging"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// pageParams are the paging query parameters shared by every listing.
type pageParams struct {
	Page    *int
	Size    *int
	SortBy  *string
	SortDir *string
}

type filterParams struct {
	CustomerID *uuid.UUID
	ShopID     *uuid.UUID
	Status     *string
}

type queryParam struct {
	name string
	dest any
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromGoogle(id)
}

func bindQuery(c echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

// bindPageRequest reads page, size, sortBy and sortDir. Absent values fall back
// to page 0, paging.DefaultSize, orderTime and desc.
func bindPageRequest(c echo.Context) (paging.Request, error) {
	var params pageParams
	for _, p := range []queryParam{
		{"page", &params.Page},
		{"size", &params.Size},
		{"sortBy", &params.SortBy},
		{"sortDir", &params.SortDir},
	} {
		if err := bindQuery(c, p.name, p.dest); err != nil {
			return paging.Request{}, err
		}
	}

	page, size := 0, paging.DefaultSize
	var sortBy, sortDir string
	if params.Page != nil {
		page = *params.Page
	}
	if params.Size != nil {
		size = *params.Size
	}
	if params.SortBy != nil {
		sortBy = *params.SortBy
	}
	if params.SortDir != nil {
		sortDir = *params.SortDir
	}
	return paging.NewRequest(page, size, sortBy, sortDir, ports.OrderSortFields()...)
}

func bindOrderFilter(c echo.Context) (ports.OrderFilter, error) {
	var params filterParams
	for _, p := range []queryParam{
		{"customerId", &params.CustomerID},
		{"shopId", &params.ShopID},
		{"status", &params.Status},
	} {
		if err := bindQuery(c, p.name, p.dest); err != nil {
			return ports.OrderFilter{}, err
		}
	}

	var filter ports.OrderFilter
	if params.CustomerID != nil {
		id, err := kernel.UUIDFromGoogle(*params.CustomerID)
		if err != nil {
			return ports.OrderFilter{}, err
		}
		filter.CustomerID = &id
	}
	if params.ShopID != nil {
		id, err := kernel.UUIDFromGoogle(*params.ShopID)
		if err != nil {
			return ports.OrderFilter{}, err
		}
		filter.ShopID = &id
	}
	if params.Status != nil {
		status, err := order.ParseStatus(*params.Status)
		if err != nil {
			return ports.OrderFilter{}, err
		}
		filter.Status = &status
	}
	return filter, nil
}

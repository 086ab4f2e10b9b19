package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// listParams holds the optional query parameters of GET /benefits.
// A parameter missing from the query string stays nil.
type listParams struct {
	Page  *int
	Limit *int
}

// bindID coerces the {id} path segment to an integer.
func bindID(r *http.Request) (int64, error) {
	var id int64
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

// bindListParams coerces ?page= and ?limit= to integers. Empty values
// (e.g. "?page=") are treated as absent.
func bindListParams(r *http.Request) (listParams, error) {
	query := url.Values{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			query[key] = values
		}
	}

	var params listParams
	if err := runtime.BindQueryParameter("form", true, false, "page", query, &params.Page); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter page: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", query, &params.Limit); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	return params, nil
}

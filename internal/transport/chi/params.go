package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// LookupParams are the query parameters of the identifier log endpoints.
type LookupParams struct {
	Pattern *string
	Days    *int
	Size    *int
}

// PatternParams are the query parameters of the search and stats endpoints.
type PatternParams struct {
	Pattern string
	Days    *int
	Size    *int
}

// TimelineParams are the query parameters of the error timeline endpoint.
type TimelineParams struct {
	Pattern string
	Days    *int
}

// InvalidParamFormatError reports a parameter that is missing or cannot be parsed.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func bindPathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", &InvalidParamFormatError{ParamName: name, Err: err}
	}
	return v, nil
}

func bindLookupParams(r *http.Request) (LookupParams, error) {
	var p LookupParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "pattern", q, &p.Pattern); err != nil {
		return p, &InvalidParamFormatError{ParamName: "pattern", Err: err}
	}
	if err := bindWindow(r, &p.Days, &p.Size); err != nil {
		return p, err
	}
	return p, nil
}

func bindPatternParams(r *http.Request) (PatternParams, error) {
	var p PatternParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "pattern", q, &p.Pattern); err != nil {
		return p, &InvalidParamFormatError{ParamName: "pattern", Err: err}
	}
	if err := bindWindow(r, &p.Days, &p.Size); err != nil {
		return p, err
	}
	return p, nil
}

func bindTimelineParams(r *http.Request) (TimelineParams, error) {
	var p TimelineParams
	q := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, true, "pattern", q, &p.Pattern); err != nil {
		return p, &InvalidParamFormatError{ParamName: "pattern", Err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "days", q, &p.Days); err != nil {
		return p, &InvalidParamFormatError{ParamName: "days", Err: err}
	}
	return p, nil
}

func bindWindow(r *http.Request, days, size **int) error {
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "days", q, days); err != nil {
		return &InvalidParamFormatError{ParamName: "days", Err: err}
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", q, size); err != nil {
		return &InvalidParamFormatError{ParamName: "size", Err: err}
	}
	return nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

package router

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"reflect"
	"strconv"

	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := r.newRequestContext(w, httpReq)

		finish := func(ctx context.Context) {
			writeResponse(ctx)
			for _, closer := range r.closers {
				closer(ctx)
			}
		}

		if httpReq.Method != method {
			finish(xcontext.WithError(ctx, errorx.New(errorx.NotFound, "Not found")))
			return
		}

		for _, before := range r.befores {
			newCtx, err := before(ctx)
			if newCtx != nil {
				ctx = newCtx
			}

			if err != nil {
				finish(xcontext.WithError(ctx, err))
				return
			}
		}

		var req Request
		if err := bindRequest(httpReq, &req); err != nil {
			finish(xcontext.WithError(ctx, err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			finish(xcontext.WithError(ctx, err))
			return
		}

		if resp != nil {
			ctx = xcontext.WithResponse(ctx, resp)
		}

		for _, after := range r.afters {
			newCtx, err := after(ctx)
			if newCtx != nil {
				ctx = newCtx
			}

			if err != nil {
				finish(xcontext.WithError(ctx, err))
				return
			}
		}

		finish(ctx)
	}
}

// bindRequest fills the request struct from the query string on GET and the
// JSON body on POST. Multipart bodies are left to the handler, which reads
// the form through xcontext.HTTPRequest.
func bindRequest(httpReq *http.Request, req any) error {
	switch httpReq.Method {
	case http.MethodGet:
		return bindQuery(httpReq, req)

	case http.MethodPost:
		mediaType, _, _ := mime.ParseMediaType(httpReq.Header.Get("Content-Type"))
		if mediaType == "multipart/form-data" {
			return nil
		}

		if httpReq.Body == nil || httpReq.ContentLength == 0 {
			return nil
		}

		if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil {
			return errorx.New(errorx.BadRequest, "Cannot decode the request body")
		}
	}

	return nil
}

func bindQuery(httpReq *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	for i := 0; i < v.NumField(); i++ {
		name := v.Type().Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		queryVal := httpReq.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(queryVal)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return errorx.New(errorx.BadRequest, "Invalid value of %s", name)
			}
			v.Field(i).SetInt(val)

		case reflect.Bool:
			val, err := strconv.ParseBool(queryVal)
			if err != nil {
				return errorx.New(errorx.BadRequest, "Invalid value of %s", name)
			}
			v.Field(i).SetBool(val)
		}
	}

	return nil
}

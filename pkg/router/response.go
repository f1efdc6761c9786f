package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// AttachmentResponse bypasses the JSON envelope and is written out as a raw
// download body.
type AttachmentResponse interface {
	AttachmentInfo() (contentType, filename string, data []byte)
}

func writeResponse(ctx context.Context) {
	w := xcontext.HTTPWriter(ctx)

	if err := xcontext.Error(ctx); err != nil {
		errx := errorx.Error{}
		if !errors.As(err, &errx) {
			errx = errorx.Unknown
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(errx.Code.HTTPStatus())
		if err := writeJSON(w, response{Code: int64(errx.Code), Error: errx.Message}); err != nil {
			xcontext.Logger(ctx).Errorf("cannot write the error response: %v", err)
		}
		return
	}

	resp := xcontext.Response(ctx)
	if resp == nil {
		// A redirect middleware already answered this request.
		return
	}

	if attachment, ok := resp.(AttachmentResponse); ok {
		contentType, filename, data := attachment.AttachmentInfo()
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		if _, err := w.Write(data); err != nil {
			xcontext.Logger(ctx).Errorf("cannot write the attachment: %v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := writeJSON(w, response{Code: 0, Data: resp}); err != nil {
		xcontext.Logger(ctx).Errorf("cannot write the response: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	if _, err := w.Write(b); err != nil {
		return err
	}

	return nil
}

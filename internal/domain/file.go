package domain

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/pixelfit/backend/internal/common"
	"github.com/pixelfit/backend/internal/model"
	"github.com/pixelfit/backend/pkg/errorx"
	"github.com/pixelfit/backend/pkg/xcontext"
)

type FileDomain interface {
	Sizes(ctx context.Context, req *model.ListSizesRequest) (*model.ListSizesResponse, error)
	Resize(ctx context.Context, req *model.ResizeRequest) (*model.ResizeResponse, error)
}

type fileDomain struct{}

func NewFileDomain() FileDomain {
	return &fileDomain{}
}

func (d *fileDomain) Sizes(
	ctx context.Context, req *model.ListSizesRequest,
) (*model.ListSizesResponse, error) {
	sizes := make([]model.SizeItem, 0, len(common.OutputSizes))
	for _, s := range common.OutputSizes {
		sizes = append(sizes, model.SizeItem{Label: s.Label, Width: s.Width, Height: s.Height})
	}

	return &model.ListSizesResponse{Sizes: sizes}, nil
}

func (d *fileDomain) Resize(
	ctx context.Context, req *model.ResizeRequest,
) (*model.ResizeResponse, error) {
	httpReq := xcontext.HTTPRequest(ctx)
	cfg := xcontext.Configs(ctx)
	if err := httpReq.ParseMultipartForm(cfg.File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be a multipart form")
	}

	files := httpReq.MultipartForm.File["files"]
	if len(files) == 0 {
		return nil, errorx.New(errorx.BadRequest, "No files provided")
	}

	baseNames, err := parseOptionalJSONList(httpReq.FormValue("base_names"), "base_names")
	if err != nil {
		return nil, err
	}
	if baseNames != nil && len(baseNames) != len(files) {
		return nil, errorx.New(errorx.BadRequest, "base_names must match the number of files")
	}

	folders, err := parseOptionalJSONList(httpReq.FormValue("main_folder"), "main_folder")
	if err != nil {
		return nil, err
	}
	if folders != nil && len(folders) != len(files) {
		return nil, errorx.New(errorx.BadRequest, "main_folder must match the number of files")
	}

	buf := &bytes.Buffer{}
	archive := zip.NewWriter(buf)
	// Blank list entries fall back to the file stem: both values become
	// archive path segments, which must be non-empty.
	for i, header := range files {
		stem := safeStem(header.Filename)

		base := stem
		if baseNames != nil && strings.TrimSpace(baseNames[i]) != "" {
			base = strings.TrimSpace(baseNames[i])
		}

		folder := stem
		if folders != nil && strings.TrimSpace(folders[i]) != "" {
			folder = strings.TrimSpace(folders[i])
		}

		if err := d.resizeInto(archive, header, folder, base); err != nil {
			return nil, err
		}
	}

	if err := archive.Close(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot finalize archive: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ResizeResponse{Archive: buf.Bytes()}, nil
}

// resizeInto renders every output size of one upload into the archive under
// <folder>/<base>_<label>_<w>x<h>.jpeg.
func (d *fileDomain) resizeInto(
	archive *zip.Writer, header *multipart.FileHeader, folder, base string,
) error {
	file, err := header.Open()
	if err != nil {
		return errorx.New(errorx.BadRequest, "Unable to read %s", header.Filename)
	}
	defer file.Close()

	img, err := common.DecodeImage(header.Header.Get("Content-Type"), file)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Unable to open %s as an image", header.Filename)
	}

	for _, size := range common.OutputSizes {
		out := common.ResizeTo(img, size.Width, size.Height)
		name := fmt.Sprintf("%s/%s_%s_%dx%d.jpeg", folder, base, size.Label, size.Width, size.Height)
		entry, err := archive.Create(name)
		if err != nil {
			return errorx.New(errorx.Internal, "Cannot add %s to the archive", name)
		}

		if err := common.EncodeJPEG(entry, out); err != nil {
			return errorx.New(errorx.Internal, "Cannot encode %s", name)
		}
	}

	return nil
}

// parseOptionalJSONList decodes an optional JSON string array form field.
func parseOptionalJSONList(raw, field string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, errorx.New(errorx.BadRequest, "%s must be a JSON array of strings", field)
	}

	return values, nil
}

// safeStem reduces an upload filename to a bare stem usable in archive paths.
func safeStem(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, stem)

	if strings.Trim(stem, "_") == "" {
		return "image"
	}

	return stem
}

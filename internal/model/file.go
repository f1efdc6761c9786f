package model

type HealthRequest struct{}

type HealthResponse struct {
	Status string `json:"status"`
}

type ListSizesRequest struct{}

type SizeItem struct {
	Label  string `json:"label"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ListSizesResponse struct {
	Sizes []SizeItem `json:"sizes"`
}

type ResizeRequest struct{}

type ResizeResponse struct {
	Archive []byte `json:"-"`
}

func (r ResizeResponse) AttachmentInfo() (string, string, []byte) {
	return "application/zip", "resized_images.zip", r.Archive
}

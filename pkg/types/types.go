package types

// GeneratedPost is the parsed result of one generation run: post content
// plus the hashtags extracted from the model response. It exists only after
// a successful remote call and is overwritten by the next submission.
type GeneratedPost struct {
	Content  string   `json:"content"`
	Hashtags []string `json:"hashtags"`
}

// UploadedImage holds one uploaded file for the duration of a single
// request. The bytes are never persisted.
type UploadedImage struct {
	Data     []byte
	MimeType string
	Filename string
}

// PayloadOptions contains options for preparing an image payload for the model
type PayloadOptions struct {
	// MaxLongSide is the maximum length in pixels of the longer image side
	// sent to the model, 0 keeps the original size.
	MaxLongSide int
	// Quality is the JPEG quality (1-100) used when re-encoding for transport.
	Quality int
}

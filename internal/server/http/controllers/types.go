package controllers

// Common request/response types for HTTP controllers

// signupReq represents a request to start the magic-link login flow.
type signupReq struct {
	Email string `json:"email"`
}

// createPostReq represents a request to create a post. Attachments carries
// URLs the client already uploaded via a pre-signed URL; Uploads carries
// in-band attachment bytes (base64 in JSON) uploaded server-side.
type createPostReq struct {
	IDBase      string         `json:"idBase,omitempty"`
	Text        string         `json:"text"`
	Source      string         `json:"source"`
	Attachments []string       `json:"attachments,omitempty"`
	Uploads     []uploadedFile `json:"uploads,omitempty"`
}

// uploadedFile is one in-band attachment.
type uploadedFile struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

// editPostReq represents a request to edit a post's text.
type editPostReq struct {
	ID     string `json:"id,omitempty"`
	IDBase string `json:"idBase,omitempty"`
	Text   string `json:"text"`
}

// deletePostReq represents a request to delete a post.
type deletePostReq struct {
	ID     string `json:"id,omitempty"`
	IDBase string `json:"idBase,omitempty"`
}

// reactReq represents a request to add or remove a reaction.
type reactReq struct {
	PostID  string `json:"postId"`
	Kind    string `json:"kind"`
	Payload string `json:"payload,omitempty"`
}

// uploadURLReq represents a request for a pre-signed attachment upload URL.
type uploadURLReq struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}

package model

// ArtifactKind identifies a generated file type.
type ArtifactKind string

const (
	ArtifactImage ArtifactKind = "image"
	ArtifactAudio ArtifactKind = "audio"
)

// Extension returns the file extension used for the kind.
func (k ArtifactKind) Extension() string {
	switch k {
	case ArtifactImage:
		return ".png"
	case ArtifactAudio:
		return ".wav"
	default:
		return ".bin"
	}
}

// ArtifactResponse is returned by endpoints that produce a file.
type ArtifactResponse struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// FilesPath is the public URL prefix artifacts are served from.
const FilesPath = "/api/files/"

// NewArtifactResponse builds the client-facing reference for a stored artifact.
func NewArtifactResponse(filename string) ArtifactResponse {
	return ArtifactResponse{
		URL:      FilesPath + filename,
		Filename: filename,
	}
}

package pipeline

import (
	"mime"
	"os"
	"path/filepath"

	"github.com/AnkitDash-code/Expensync/internal/errkind"
	"github.com/AnkitDash-code/Expensync/internal/models"
)

// ArtifactFromFile builds an UploadArtifact from a local path. The
// media type is declared from the extension; the backend treats it as
// advisory.
func ArtifactFromFile(path string) (models.UploadArtifact, error) {
	var artifact models.UploadArtifact

	info, err := os.Stat(path)
	if err != nil {
		return artifact, errkind.Wrap(errkind.InvalidRequest, "receipt file not found", err)
	}
	if info.IsDir() {
		return artifact, errkind.New(errkind.InvalidRequest, path+" is a directory")
	}

	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	artifact.Path = path
	artifact.Name = filepath.Base(path)
	artifact.Size = info.Size()
	artifact.MediaType = mediaType
	return artifact, nil
}

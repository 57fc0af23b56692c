package mibi

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	minio "github.com/minio/minio-go/v6"
)

// RemoteLocation identifies the object store holding acquired runs.
type RemoteLocation struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// FetchRemote starts streaming a remote bin file into cacheDir and returns
// the local path plus the object's full size. The copy continues in the
// background, so the returned path can be handed straight to a live decode
// entry point to overlap decoding with the transfer. The channel delivers
// the copy's final status.
func FetchRemote(loc RemoteLocation, fileName string, cacheDir string) (string, int64, <-chan error, error) {
	client, err := minio.New(loc.Endpoint, loc.AccessKey, loc.SecretKey, loc.UseSSL)
	if err != nil {
		return "", 0, nil, fmt.Errorf("error connecting to %q: %w", loc.Endpoint, err)
	}
	object, err := client.GetObject(loc.Bucket, fileName, minio.GetObjectOptions{})
	if err != nil {
		return "", 0, nil, fmt.Errorf("error fetching %q: %w", fileName, err)
	}
	info, err := object.Stat()
	if err != nil {
		object.Close()
		return "", 0, nil, fmt.Errorf("error fetching %q: %w", fileName, err)
	}

	localPath := filepath.Join(cacheDir, filepath.Base(fileName))
	out, err := os.Create(localPath)
	if err != nil {
		object.Close()
		return "", 0, nil, &ErrOpenFile{Filename: localPath, Err: err}
	}

	if configuration.Verbosity > 0 {
		message := fmt.Sprintf("Fetching %s/%s (%d bytes) into %s",
			loc.Bucket, fileName, info.Size, localPath)
		logger.Info(message, "datasource")
	}

	done := make(chan error, 1)
	go func() {
		_, copyErr := io.Copy(out, object)
		object.Close()
		closeErr := out.Close()
		if copyErr != nil {
			done <- fmt.Errorf("error streaming %q: %w", fileName, copyErr)
			return
		}
		done <- closeErr
	}()
	return localPath, info.Size, done, nil
}

package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/romci/cli/internal/errors"
	"github.com/spf13/afero"
)

// DefaultGofileAPI is the gofile.io coordination endpoint
const DefaultGofileAPI = "https://api.gofile.io"

// Gofile uploads files to the gofile.io temporary file host. Uploads are a
// two-step dance: ask the API for an upload server, then post the file to it.
type Gofile struct {
	apiBase   string
	uploadURL func(server string) string
	fs        afero.Fs
	client    *retryablehttp.Client
}

// GofileOption modifies a Gofile uploader
type GofileOption func(*Gofile)

// WithGofileAPI overrides the coordination endpoint, used in tests
func WithGofileAPI(base string) GofileOption {
	return func(g *Gofile) {
		g.apiBase = base
	}
}

// WithGofileUploadURL overrides how the upload server name becomes a URL
func WithGofileUploadURL(fn func(server string) string) GofileOption {
	return func(g *Gofile) {
		g.uploadURL = fn
	}
}

// WithGofileFs overrides the filesystem files are read from
func WithGofileFs(fs afero.Fs) GofileOption {
	return func(g *Gofile) {
		g.fs = fs
	}
}

// NewGofile creates a Gofile uploader
func NewGofile(opts ...GofileOption) *Gofile {
	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient.Timeout = 10 * time.Minute
	httpClient.RetryMax = 2
	httpClient.Logger = nil

	g := &Gofile{
		apiBase: DefaultGofileAPI,
		uploadURL: func(server string) string {
			return fmt.Sprintf("https://%s.gofile.io/contents/uploadfile", server)
		},
		fs:     afero.NewOsFs(),
		client: httpClient,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type gofileServers struct {
	Status string `json:"status"`
	Data   struct {
		Servers []struct {
			Name string `json:"name"`
		} `json:"servers"`
	} `json:"data"`
}

type gofileUpload struct {
	Status string `json:"status"`
	Data   struct {
		DownloadPage string `json:"downloadPage"`
	} `json:"data"`
}

// Upload pushes the file to gofile and returns its download page URL
func (g *Gofile) Upload(ctx context.Context, path string) (string, error) {
	server, err := g.pickServer(ctx)
	if err != nil {
		return "", err
	}

	file, err := g.fs.Open(path)
	if err != nil {
		return "", errors.NewUploadError(err, fmt.Sprintf("opening %s", path))
	}
	defer file.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, g.uploadURL(server), body.Bytes())
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.NewUploadError(err, "gofile upload")
	}
	defer resp.Body.Close()

	var parsed gofileUpload
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewUploadError(err, "decoding gofile upload response")
	}
	if parsed.Status != "ok" {
		return "", errors.NewUploadError(nil, fmt.Sprintf("gofile upload status %q", parsed.Status))
	}
	return parsed.Data.DownloadPage, nil
}

func (g *Gofile) pickServer(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/servers", nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.NewUploadError(err, "querying gofile servers")
	}
	defer resp.Body.Close()

	var parsed gofileServers
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", errors.NewUploadError(err, "decoding gofile server list")
	}
	if parsed.Status != "ok" || len(parsed.Data.Servers) == 0 {
		return "", errors.NewUploadError(nil, "no gofile upload server available")
	}
	return parsed.Data.Servers[0].Name, nil
}

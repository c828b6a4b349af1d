// Package publish uploads exported reports to Azure Blob Storage.
package publish

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
)

// Target is a parsed container URL.
type Target struct {
	// ServiceURL is the account endpoint, e.g. https://acct.blob.core.windows.net/.
	ServiceURL string
	Container  string
	// Prefix is prepended to every blob name; may be empty.
	Prefix string
}

// ParseURL splits https://<account>.blob.core.windows.net/<container>[/<prefix>]
// into a Target. Emulator URLs (http://127.0.0.1:10000/<account>/<container>)
// keep the account segment in the service URL.
func ParseURL(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, fmt.Errorf("parsing publish URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return Target{}, fmt.Errorf("publish URL %q: scheme must be https", raw)
	}
	if u.Host == "" {
		return Target{}, fmt.Errorf("publish URL %q: missing host", raw)
	}
	if u.RawQuery != "" {
		return Target{}, fmt.Errorf("publish URL %q: query strings are not supported, use Azure credentials instead of SAS tokens", raw)
	}

	segments := strings.FieldsFunc(u.Path, func(r rune) bool { return r == '/' })
	service := u.Scheme + "://" + u.Host + "/"
	if isEmulatorHost(u.Hostname()) {
		if len(segments) == 0 {
			return Target{}, fmt.Errorf("publish URL %q: missing account", raw)
		}
		service += segments[0] + "/"
		segments = segments[1:]
	} else if u.Scheme != "https" {
		return Target{}, fmt.Errorf("publish URL %q: scheme must be https", raw)
	}
	if len(segments) == 0 {
		return Target{}, fmt.Errorf("publish URL %q: missing container", raw)
	}

	return Target{
		ServiceURL: service,
		Container:  segments[0],
		Prefix:     strings.Join(segments[1:], "/"),
	}, nil
}

func isEmulatorHost(host string) bool {
	return host == "127.0.0.1" || host == "localhost"
}

// BlobName joins the target prefix and name.
func (t Target) BlobName(name string) string {
	if t.Prefix == "" {
		return name
	}
	return path.Join(t.Prefix, name)
}

// BlobURL returns the full URL of the named blob.
func (t Target) BlobURL(name string) string {
	return t.ServiceURL + t.Container + "/" + t.BlobName(name)
}

// Uploader is the subset of *azblob.Client used for publishing.
type Uploader interface {
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

var _ Uploader = (*azblob.Client)(nil)

// Publisher uploads report bytes to one target.
type Publisher struct {
	target   Target
	uploader Uploader
}

// New creates a Publisher for rawURL. A nil cred falls back to
// DefaultAzureCredential (environment, workload identity, managed identity,
// Azure CLI).
func New(rawURL string, cred azcore.TokenCredential) (*Publisher, error) {
	target, err := ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		cred, err = azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("creating Azure credential: %w", err)
		}
	}
	client, err := azblob.NewClient(target.ServiceURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return NewWithUploader(target, client), nil
}

// NewWithUploader creates a Publisher around an existing uploader.
func NewWithUploader(target Target, u Uploader) *Publisher {
	return &Publisher{target: target, uploader: u}
}

// Object is one report to upload.
type Object struct {
	Name            string
	Data            []byte
	ContentType     string
	ContentEncoding string
	Metadata        map[string]string
}

// Publish uploads obj and returns its blob URL.
func (p *Publisher) Publish(ctx context.Context, obj Object) (string, error) {
	if obj.Name == "" {
		return "", fmt.Errorf("publish: blob name is empty")
	}
	name := p.target.BlobName(obj.Name)

	headers := &blob.HTTPHeaders{}
	if obj.ContentType != "" {
		headers.BlobContentType = to.Ptr(obj.ContentType)
	}
	if obj.ContentEncoding != "" {
		headers.BlobContentEncoding = to.Ptr(obj.ContentEncoding)
	}
	var metadata map[string]*string
	if len(obj.Metadata) > 0 {
		metadata = make(map[string]*string, len(obj.Metadata))
		for k, v := range obj.Metadata {
			metadata[k] = to.Ptr(v)
		}
	}

	_, err := p.uploader.UploadBuffer(ctx, p.target.Container, name, obj.Data, &azblob.UploadBufferOptions{
		HTTPHeaders: headers,
		Metadata:    metadata,
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to container %s: %w", name, p.target.Container, err)
	}

	blobURL := p.target.BlobURL(obj.Name)
	slog.Debug("Published report", "url", blobURL, "bytes", len(obj.Data))
	return blobURL, nil
}

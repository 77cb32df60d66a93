// Package types provides types and interfaces for Azure operations.
package types

import (
	"context"
	"io"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// BlobProperties holds the subset of blob properties the adapter reports.
type BlobProperties struct {
	// Size holds the size of the blob.
	Size *int64

	// LastModified holds the last modified time.Time
	LastModified *time.Time

	// ContentType holds the stored content type.
	ContentType string

	// ContentMD5 holds the MD5 hash the service recorded for the blob, if any.
	ContentMD5 []byte

	// Metadata holds the Azure metadata
	Metadata map[string]*string
}

// BlobItem is a blob found while listing.
type BlobItem struct {
	Name       string
	Properties BlobProperties
}

// ListPage is one page of a container listing.
type ListPage struct {
	// Blobs holds the blobs of the page.
	Blobs []BlobItem

	// Prefixes holds the virtual directories of the page, each ending in "/". Flat listings have none.
	Prefixes []string

	// NextMarker continues the listing. It is empty on the last page.
	NextMarker string
}

// UploadOptions holds the HTTP properties stored along with an uploaded blob.
type UploadOptions struct {
	ContentType        string
	CacheControl       string
	ContentDisposition string
	ContentEncoding    string
	ContentLanguage    string
	Metadata           map[string]*string
}

// The Client interface contains methods that perform specific operations against one Azure Blob Storage container.
// This interface is here so we can write mocks over the actual functionality.
type Client interface {
	// Properties should return a BlobProperties struct for the named blob. If the blob is not found an error
	// carrying bloberror.BlobNotFound should be returned.
	Properties(ctx context.Context, blobName string) (*BlobProperties, error)

	// Upload should create or replace the named blob with everything read from content.
	Upload(ctx context.Context, blobName string, content io.Reader, opts UploadOptions) error

	// Download should return a reader for the named blob.
	Download(ctx context.Context, blobName string) (io.ReadCloser, error)

	// Copy should copy the blob srcBlobName to dstBlobName inside the container and wait for the copy to finish.
	Copy(ctx context.Context, srcBlobName, dstBlobName string) error

	// Delete should delete the named blob along with its snapshots.
	Delete(ctx context.Context, blobName string) error

	// ListPage should return the page of blobs below prefix starting at marker. Unless deep is set, blobs in nested
	// virtual directories are rolled up into Prefixes.
	ListPage(ctx context.Context, prefix string, deep bool, marker string) (*ListPage, error)

	// BlobURL should return the unsigned URL of the named blob.
	BlobURL(blobName string) string

	// SignedURL should return the URL of the named blob carrying a shared access signature that grants permissions
	// until expiresAt.
	SignedURL(ctx context.Context, blobName string, permissions sas.BlobPermissions, expiresAt time.Time) (string, error)

	// CreateContainer should create the container. An already existing container is not an error.
	CreateContainer(ctx context.Context) error

	// DeleteContainer should delete the container. A missing container is not an error.
	DeleteContainer(ctx context.Context) error
}

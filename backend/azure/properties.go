package azure

import (
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/c2fo/blobfs/backend/azure/types"
)

// Aliases of the types package so callers only need to import azure.
type (
	Client         = types.Client
	BlobProperties = types.BlobProperties
	BlobItem       = types.BlobItem
	ListPage       = types.ListPage
	UploadOptions  = types.UploadOptions
)

// NewBlobProperties creates a new BlobProperties from a blob.GetPropertiesResponse
func NewBlobProperties(azureProps blob.GetPropertiesResponse) *BlobProperties {
	return &BlobProperties{
		LastModified: azureProps.LastModified,
		Metadata:     azureProps.Metadata,
		Size:         azureProps.ContentLength,
		ContentType:  deref(azureProps.ContentType),
		ContentMD5:   azureProps.ContentMD5,
	}
}

// newListedBlobProperties converts the properties returned with a listed blob.
func newListedBlobProperties(p *container.BlobProperties) BlobProperties {
	if p == nil {
		return BlobProperties{}
	}
	return BlobProperties{
		LastModified: p.LastModified,
		Size:         p.ContentLength,
		ContentType:  deref(p.ContentType),
		ContentMD5:   p.ContentMD5,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

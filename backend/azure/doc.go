/*
Package azure Microsoft Azure Blob Storage adapter

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/azure"
	)

	func UseFs() error {
	    adapter, err := backend.New("azure-storage-blob", blobfs.Config{"container": "uploads"})
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/azure"

	func DoSomething() {
	    adapter := azure.NewAdapter(
	        azure.WithOptions(azure.Options{
	            ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
	            Container:        "uploads",
	        }),
	        azure.WithPrefix("tenant-a"),
	        azure.WithVisibilityHandling(azure.VisibilityIgnore),
	    )
	    fs := blobfs.New(adapter, nil)
	    ...
	}

azure can be augmented with the following implementation-specific methods. backend.New returns the blobfs.Adapter
interface so it would have to be cast as *azure.Adapter to use them:

	func DoSomething() {
	    ...
	    a := adapter.(*azure.Adapter)

	    // to get the underlying Client
	    client, err := a.Client()

	    // to create the container, e.g. against Azurite
	    err = client.CreateContainer(ctx)
	    ...
	}

# Authentication

Authentication, by default, occurs automatically when Client() is called. It looks for credentials in the following
places, preferring the first one found:

 1. A service principal, when TenantID, ClientID and ClientSecret are all set (AZURE_TENANT_ID, AZURE_CLIENT_ID,
    AZURE_CLIENT_SECRET). URLs are signed with user delegation keys.

 2. An account name and key (AZURE_STORAGE_ACCOUNT, AZURE_STORAGE_KEY), given directly or through the connection
    string (AZURE_STORAGE_CONNECTION_STRING). URLs are signed with the shared key.

 3. A shared access signature carried by the connection string or the service URL. Signed URLs reuse it.

 4. Anonymous access, for public containers. Signed URLs cannot be generated.

UseDevelopmentStorage=true connection strings point at the well-known Azurite account on 127.0.0.1:10000.

# Visibility

Blob storage only supports public access at the container level. With VisibilityThrow, the default, SetVisibility
and Visibility fail with blobfs.ErrVisibilityNotSupported. With VisibilityIgnore, SetVisibility does nothing and
Visibility reports no visibility.

# Public URLs

PublicURL returns a read-only signed URL valid for PublicURLExpiry (one hour unless configured), or the plain blob URL
when UseDirectPublicURL is set.

# See Also

See: https://github.com/Azure/azure-sdk-for-go/tree/main/sdk/storage/azblob
*/
package azure

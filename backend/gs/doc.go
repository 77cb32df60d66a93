/*
Package gs Google Cloud Storage adapter.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/gs"
	)

	func UseFs() error {
	    adapter, err := backend.New("gcs", blobfs.Config{"bucket": "uploads"})
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/gs"

	func DoSomething() {
	    adapter := gs.NewAdapter(
	        gs.WithOptions(gs.Options{
	            Bucket:         "uploads",
	            CredentialFile: "/root/.gcloud/account.json",
	        }),
	    )
	    fs := blobfs.New(adapter, nil)
	    ...
	}

To pass a specific client, for instance a no-auth client against an emulator:

	client, _ := storage.NewClient(ctx, option.WithoutAuthentication())
	adapter := gs.NewAdapter(gs.WithOptions(gs.Options{Bucket: "uploads"}), gs.WithClient(client))

# Authentication

Authentication, by default, occurs automatically when Client() is called. It looks for credentials in the following
places, preferring the first location found:

 1. A JSON file whose path is specified by the GOOGLE_APPLICATION_CREDENTIALS environment variable
 2. A JSON file in a location known to the gcloud command-line tool.
    On Windows, this is %APPDATA%/gcloud/application_default_credentials.json.
    On other systems, $HOME/.config/gcloud/application_default_credentials.json.
 3. On Google Compute Engine and Google App Engine Managed VMs, it fetches credentials from the metadata server.

Temporary URLs are V4 signed. Service account credentials sign them directly, other credentials need SigningEmail
and SigningPrivateKey or the IAM signBlob permission.

See https://cloud.google.com/docs/authentication/production for more auth info

# Visibility

Visibility maps to the allUsers READER grant of the object ACL. Buckets with uniform bucket-level access have no
object ACLs: Visibility reports private and SetVisibility fails.

# See Also

See: https://github.com/googleapis/google-cloud-go/tree/main/storage
*/
package gs

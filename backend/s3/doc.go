/*
Package s3 AWS S3 adapter built on the AWS SDK for Go v2.

# Usage

Rely on github.com/c2fo/blobfs/backend

	import(
	    "github.com/c2fo/blobfs/backend"
	    _ "github.com/c2fo/blobfs/backend/s3"
	)

	func UseFs() error {
	    adapter, err := backend.New("s3", blobfs.Config{"bucket": "uploads", "region": "us-east-1"})
	    ...
	}

Or call directly:

	import "github.com/c2fo/blobfs/backend/s3"

	func DoSomething() {
	    adapter := s3.NewAdapter(
	        s3.WithOptions(s3.Options{
	            Bucket: "uploads",
	            Region: "us-east-1",
	        }),
	        s3.WithPrefix("tenant-a"),
	    )
	    fs := blobfs.New(adapter, nil)
	    ...
	}

s3 can be augmented with the following implementation-specific methods. backend.New returns the blobfs.Adapter
interface so it would have to be cast as *s3.Adapter to use them:

	func DoSomething() {
	    ...
	    a := adapter.(*s3.Adapter)

	    // to get the underlying client
	    client, err := a.Client()

	    // the uploader writes go through, a *manager.Uploader unless one was injected
	    uploader, err := a.Uploader()
	    ...
	}

# Authentication

Authentication, by default, occurs automatically when Client() is called. Static keys (AccessKeyID and
SecretAccessKey) win, then RoleARN, which is assumed through STS. Otherwise the default AWS chain applies:

 1. Environment variables (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_SESSION_TOKEN)

 2. The shared credentials file (~/.aws/credentials, AWS_PROFILE)

 3. Web identity tokens and the container or EC2 instance role

S3 compatible stores such as MinIO or LocalStack are reached by setting Endpoint, usually together with
ForcePathStyle.

# Visibility

Visibility maps to canned object ACLs: public-read for public and private for private. Writes carry the ACL of the
visibility config option, falling back to Options.Visibility, and no ACL at all when neither is set. Buckets
enforcing object ownership reject ACLs, so leave both empty for those.

# Directories

CreateDirectory stores an empty "dir/" marker object. Listings report markers and common prefixes as directories.

# See Also

See: https://github.com/aws/aws-sdk-go-v2/tree/main/service/s3
*/
package s3

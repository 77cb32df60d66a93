/*
Package testcontainers runs the adapter conformance suite against emulated storage services: Azurite for Azure Blob
Storage, fake-gcs-server for GCS, LocalStack and MinIO for S3, plus the in-memory and local adapters. It uses the
local Docker daemon and lives in its own module so the container dependencies stay out of blobfs itself.

	go test ./...
*/
package testcontainers

package azure

import (
	"errors"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// TokenCredentialFactory creates azcore.TokenCredentials. This function is provided to allow for mocking in unit
// tests.
type TokenCredentialFactory func(tenantID, clientID, clientSecret string) (azcore.TokenCredential, error)

// DefaultTokenCredentialFactory knows how to make azcore.TokenCredential structs for OAuth authentication. With all
// three values empty it falls back to the AZURE_* environment variables read by azidentity.
func DefaultTokenCredentialFactory(tenantID, clientID, clientSecret string) (azcore.TokenCredential, error) {
	switch {
	case tenantID != "" && clientID != "" && clientSecret != "":
		return azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	case tenantID == "" && clientID == "" && clientSecret == "":
		return azidentity.NewEnvironmentCredential(nil)
	}
	return nil, errors.New("azure: tenant id, client id and client secret must be set together")
}

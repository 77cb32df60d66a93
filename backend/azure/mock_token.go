package azure

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// MockTokenCredential is a "do-nothing" credential used for unit testing
type MockTokenCredential struct{}

// GetToken returns a fixed token valid for an hour
func (MockTokenCredential) GetToken(context.Context, policy.TokenRequestOptions) (azcore.AccessToken, error) {
	return azcore.AccessToken{Token: "aaa", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

// MockTokenCredentialFactory knows how to create a MockTokenCredential
func MockTokenCredentialFactory(_, _, _ string) (azcore.TokenCredential, error) {
	return MockTokenCredential{}, nil
}

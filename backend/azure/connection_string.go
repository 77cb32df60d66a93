package azure

import (
	"fmt"
	"strings"
)

// The well known account every Azure Storage emulator accepts.
const (
	DevelopmentStorageAccountName = "devstoreaccount1"
	DevelopmentStorageAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
	developmentStorageBlobURL     = "http://127.0.0.1:10000/devstoreaccount1"
)

// ConnectionString holds the blob related settings of an Azure Storage connection string.
type ConnectionString struct {
	AccountName           string
	AccountKey            string
	BlobEndpoint          string
	SharedAccessSignature string
}

// ParseConnectionString parses a connection string of the form
// "DefaultEndpointsProtocol=https;AccountName=...;AccountKey=...;EndpointSuffix=core.windows.net".
// BlobEndpoint overrides the endpoint derived from the account name, and UseDevelopmentStorage=true selects the
// local emulator account.
func ParseConnectionString(s string) (*ConnectionString, error) {
	settings := map[string]string{}
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("azure: malformed connection string segment %q", part)
		}
		settings[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}

	if strings.EqualFold(settings["usedevelopmentstorage"], "true") {
		return &ConnectionString{
			AccountName:  DevelopmentStorageAccountName,
			AccountKey:   DevelopmentStorageAccountKey,
			BlobEndpoint: developmentStorageBlobURL,
		}, nil
	}

	cs := &ConnectionString{
		AccountName:           settings["accountname"],
		AccountKey:            settings["accountkey"],
		BlobEndpoint:          strings.TrimRight(settings["blobendpoint"], "/"),
		SharedAccessSignature: strings.TrimPrefix(settings["sharedaccesssignature"], "?"),
	}

	if cs.BlobEndpoint == "" {
		if cs.AccountName == "" {
			return nil, fmt.Errorf("azure: connection string needs an AccountName or a BlobEndpoint")
		}
		protocol := settings["defaultendpointsprotocol"]
		if protocol == "" {
			protocol = "https"
		}
		suffix := settings["endpointsuffix"]
		if suffix == "" {
			suffix = "core.windows.net"
		}
		cs.BlobEndpoint = fmt.Sprintf("%s://%s.blob.%s", protocol, cs.AccountName, suffix)
	}

	return cs, nil
}

package connfilestorage

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"ucs/internal/connection"
	common "ucs/pkg"
	"ucs/pkg/filestorage"
)

// CreateAzBlobConnection creates a client bound to Azure Blob Storage.
// The account URL is derived from the account name; an explicit endpoint
// overrides it, which is how Azurite-style emulators are reached.
func CreateAzBlobConnection(endpoint string, auth connection.AuthConfig) (*filestorage.AzBlobClient, error) {
	credential, err := azblob.NewSharedKeyCredential(auth.AccessKey, auth.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	accountURL := endpoint
	if accountURL == "" {
		accountURL = fmt.Sprintf("https://%s.blob.core.windows.net", auth.AccessKey)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(accountURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure Blob Storage client: %w", err)
	}

	return filestorage.NewAzBlobClient(client, common.URLFormatterFor(common.BackendAzBlob), common.ConnectionProperties{
		Backend:  common.BackendAzBlob,
		Endpoint: accountURL,
	})
}

package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/google/uuid"

	"github.com/campushq/studentdesk-backend/internal/config"
)

// UploadTarget is the pair of URLs handed to a client for a direct
// blob upload: a short-lived signed URL to PUT against, and the durable
// public URL to store once the upload succeeds.
type UploadTarget struct {
	UploadURL string `json:"uploadUrl"`
	PublicURL string `json:"publicUrl"`
}

// BlobSASService signs time-boxed, single-blob upload URLs with the
// storage account's shared key. Issued-but-unused URLs simply expire;
// no server-side state is kept per upload.
type BlobSASService struct {
	account   string
	container string
	expiry    time.Duration
	cred      *azblob.SharedKeyCredential
}

// NewBlobSASService creates a BlobSASService from the configured Azure
// storage credentials.
func NewBlobSASService(cfg *config.Config) (*BlobSASService, error) {
	cred, err := azblob.NewSharedKeyCredential(cfg.AzureStorageAccount, cfg.AzureStorageKey)
	if err != nil {
		return nil, fmt.Errorf("shared key credential: %w", err)
	}
	return &BlobSASService{
		account:   cfg.AzureStorageAccount,
		container: cfg.AzureStorageContainer,
		expiry:    cfg.SASExpiry,
		cred:      cred,
	}, nil
}

// IssueUploadTarget generates a globally-unique blob name for filename
// and signs a create+write SAS scoped to that one blob, valid for the
// configured expiry window.
func (s *BlobSASService) IssueUploadTarget(filename, contentType string) (*UploadTarget, error) {
	// UUID prefix avoids collisions between uploads of the same filename.
	blobName := uuid.New().String() + "-" + filename

	perms := sas.BlobPermissions{Create: true, Write: true}
	values := sas.BlobSignatureValues{
		Protocol:      sas.ProtocolHTTPS,
		ExpiryTime:    time.Now().UTC().Add(s.expiry),
		Permissions:   perms.String(),
		ContainerName: s.container,
		BlobName:      blobName,
		ContentType:   contentType,
	}

	params, err := values.SignWithSharedKey(s.cred)
	if err != nil {
		return nil, fmt.Errorf("sign blob sas: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.blob.core.windows.net/%s/%s",
		s.account, s.container, url.PathEscape(blobName))

	return &UploadTarget{
		UploadURL: publicURL + "?" + params.Encode(),
		PublicURL: publicURL,
	}, nil
}

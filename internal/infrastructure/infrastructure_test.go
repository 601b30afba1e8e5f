package infrastructure_test

import (
	"testing"

	"github.com/JaimeStill/autolens/internal/config"
	"github.com/JaimeStill/autolens/internal/infrastructure"
	"github.com/JaimeStill/autolens/pkg/storage"
)

const azuriteConnString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;BlobEndpoint=http://127.0.0.1:10000/devstoreaccount1;"

func TestNewMemoryPreviews(t *testing.T) {
	cfg := &config.Config{Preview: config.PreviewConfig{Store: config.PreviewStoreMemory}}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil {
		t.Fatal("lifecycle and logger must be set")
	}
	if infra.Storage != nil {
		t.Error("storage should not be created for memory previews")
	}
	if err := infra.Start(); err != nil {
		t.Errorf("Start() error = %v", err)
	}
}

func TestNewBlobPreviews(t *testing.T) {
	cfg := &config.Config{
		Preview: config.PreviewConfig{Store: config.PreviewStoreBlob},
		Storage: storage.Config{ContainerName: "previews", ConnectionString: azuriteConnString},
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Storage == nil {
		t.Error("storage should be created for blob previews")
	}
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := &config.Config{
		Preview: config.PreviewConfig{Store: config.PreviewStoreBlob},
		Storage: storage.Config{ContainerName: "previews", ConnectionString: "invalid"},
	}

	if _, err := infrastructure.New(cfg); err == nil {
		t.Error("expected error for invalid connection string")
	}
}

// Package mocks provides mock implementations for testing the drivelot import pipeline.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockImportJobRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(job, nil)
package mocks

// Generate mock for ImportJobRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=import_job_repository_mock.go github.com/drivelot/inventory-api/internal/core ImportJobRepository

// Generate mock for PreviewRowRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=preview_row_repository_mock.go github.com/drivelot/inventory-api/internal/core PreviewRowRepository

// Generate mock for VehicleRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=vehicle_repository_mock.go github.com/drivelot/inventory-api/internal/core VehicleRepository

// Generate mock for ListingRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=listing_repository_mock.go github.com/drivelot/inventory-api/internal/core ListingRepository

// Generate mock for CacheRepository interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=cache_repository_mock.go github.com/drivelot/inventory-api/internal/core CacheRepository

// Generate mock for BlobStore interface from internal/core package.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=blob_store_mock.go github.com/drivelot/inventory-api/internal/core BlobStore

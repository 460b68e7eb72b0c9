package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateImportJobRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateImportJobRequest
		wantErr string
	}{
		{"valid", CreateImportJobRequest{OwnerID: "dealer-1", FileName: "inventory.xlsx"}, ""},
		{"missing owner", CreateImportJobRequest{FileName: "inventory.xlsx"}, "owner id is required"},
		{"blank owner", CreateImportJobRequest{OwnerID: "   ", FileName: "x.csv"}, "owner id is required"},
		{"missing file name", CreateImportJobRequest{OwnerID: "dealer-1"}, "file name is required"},
		{"slash in file name", CreateImportJobRequest{OwnerID: "dealer-1", FileName: "../escape.csv"}, "path separators"},
		{"backslash in file name", CreateImportJobRequest{OwnerID: "dealer-1", FileName: `a\b.csv`}, "path separators"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportStatus_UnmarshalText(t *testing.T) {
	var s ImportStatus
	require.NoError(t, s.UnmarshalText([]byte("  Preview_Ready ")))
	assert.Equal(t, ImportStatusPreviewReady, s)

	assert.Error(t, s.UnmarshalText([]byte("parsing")))
}

func TestImportStatus_Terminal(t *testing.T) {
	assert.True(t, ImportStatusCommitted.Terminal())
	assert.True(t, ImportStatusFailed.Terminal())
	assert.False(t, ImportStatusUploaded.Terminal())
	assert.False(t, ImportStatusPreviewReady.Terminal())
	assert.False(t, ImportStatusCommitting.Terminal())
}

func TestListingFromVehicle(t *testing.T) {
	maker := "Toyota"
	mdl := "Corolla"
	syncedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	base := func() *Vehicle {
		return &Vehicle{
			ID:           "veh-1",
			OwnerID:      "dealer-1",
			Manufacturer: &maker,
			Model:        &mdl,
			Published:    true,
		}
	}

	listing, ok := ListingFromVehicle(base(), syncedAt)
	require.True(t, ok)
	assert.Equal(t, "veh-1", listing.VehicleID)
	assert.Equal(t, "Toyota", listing.Manufacturer)
	assert.Equal(t, syncedAt, listing.SyncedAt)

	_, ok = ListingFromVehicle(nil, syncedAt)
	assert.False(t, ok)

	unpublished := base()
	unpublished.Published = false
	_, ok = ListingFromVehicle(unpublished, syncedAt)
	assert.False(t, ok)

	noMaker := base()
	noMaker.Manufacturer = nil
	_, ok = ListingFromVehicle(noMaker, syncedAt)
	assert.False(t, ok)

	noModel := base()
	noModel.Model = nil
	_, ok = ListingFromVehicle(noModel, syncedAt)
	assert.False(t, ok)
}

func TestPreviewRow_IssueLevels(t *testing.T) {
	row := &PreviewRow{
		Issues: []RowIssue{
			{Level: IssueWarning, Code: IssueCodeUnknownGearbox, Message: "unrecognized gearbox"},
		},
	}
	assert.True(t, row.HasWarnings())
	assert.False(t, row.HasErrors())

	row.Issues = append(row.Issues, RowIssue{
		Level: IssueError, Code: IssueCodeMissingModel, Message: "model is required",
	})
	assert.True(t, row.HasErrors())
	assert.True(t, row.HasWarnings())
}

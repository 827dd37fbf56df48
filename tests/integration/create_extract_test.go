package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"si-components/internal/adapters"
	"si-components/internal/app"
	"si-components/internal/types"
	"si-components/tests/testutil"
)

// TestCreateExtractRoundTrip runs the fixture configs through the real SI
// client: create into a change set, then extract what was created.
func TestCreateExtractRoundTrip(t *testing.T) {
	api, host := newFakeSIAPI(t, "ws-it")
	conn := app.Connection{
		Host:         host,
		WorkspaceID:  "ws-it",
		Token:        "it-token",
		Retries:      2,
		RetryDelayMs: 1,
	}
	service := app.NewService()
	configs := testutil.FixturesDir(t)

	created, err := service.Create(t.Context(), app.CreateRequest{
		Connection:  conn,
		Dir:         configs,
		ChangeSetID: "cs-head",
		Workers:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, created.Batch.Created)
	assert.Equal(t, 0, created.Batch.Failed)
	assert.Len(t, created.Problems, 2)
	assert.Equal(t, 5, api.createdCount())
	for _, item := range created.Batch.Items {
		assert.Equal(t, types.OutcomeCreated, item.Status)
		assert.Nil(t, item.Reason)
		assert.NotEmpty(t, item.ComponentID)
	}

	extractDir := t.TempDir()
	extracted, err := service.Extract(t.Context(), app.ExtractRequest{
		Connection: conn,
		OutputDir:  extractDir,
		Match:      "subnet-*",
	})
	require.NoError(t, err)
	require.True(t, extracted.Summary.Success)
	assert.Equal(t, "cs-head", extracted.Summary.ChangeSetID)
	assert.Equal(t, 2, extracted.Summary.ComponentCount)

	records, problems, err := adapters.NewArtifactFileAdapter().ReadExtracted(extractDir)
	require.NoError(t, err)
	require.Empty(t, problems)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, "AWS::EC2::Subnet", record.Metadata.SchemaName)
		assert.Equal(t, "AWS::EC2::Subnet", record.Component.CreateComponentRequest.SchemaName)
	}
}

func TestValidateFixturesThroughService(t *testing.T) {
	configs := testutil.FixturesDir(t)

	result, err := app.NewService().Validate(t.Context(), app.ValidateRequest{Dir: configs})
	require.NoError(t, err)
	assert.Equal(t, 6, result.Records)
	assert.Len(t, result.Valid, 5)
	assert.Len(t, result.Problems, 2)
}

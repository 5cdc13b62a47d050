package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/api"
	"github.com/xavierca1/seller-console/internal/infra/database"
)

func seedLeadID(t *testing.T, db *database.Database) string {
	t.Helper()
	leads := db.Leads()
	require.NotEmpty(t, leads)
	return leads[0].ID
}

func validCreateOpportunity(leadID string) entity.CreateOpportunity {
	amount := 2500.0
	return entity.CreateOpportunity{
		Name:        "Acme - Opportunity",
		AccountName: "Acme",
		Stage:       entity.StageProspecting,
		Amount:      &amount,
		LeadID:      leadID,
	}
}

func TestOpportunityRepositoryCreate(t *testing.T) {
	t.Run("Round Trip With Default Probability", func(t *testing.T) {
		db := testDB()
		repo := NewOpportunityRepository(db, testClient())

		created, err := repo.Create(context.Background(), validCreateOpportunity(seedLeadID(t, db)))
		require.NoError(t, err)
		assert.Equal(t, defaultProbability, created.Probability)

		found, err := repo.FindByID(context.Background(), created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
		require.NotNil(t, found.Amount)
		assert.Equal(t, 2500.0, *found.Amount)
	})

	t.Run("Explicit Probability Wins", func(t *testing.T) {
		db := testDB()
		repo := NewOpportunityRepository(db, testClient())

		p := 85
		data := validCreateOpportunity(seedLeadID(t, db))
		data.Probability = &p

		created, err := repo.Create(context.Background(), data)
		require.NoError(t, err)
		assert.Equal(t, 85, created.Probability)
	})

	t.Run("Unknown Lead Reference Is Rejected", func(t *testing.T) {
		repo := NewOpportunityRepository(testDB(), testClient())

		_, err := repo.Create(context.Background(), validCreateOpportunity("no-such-lead"))
		apiErr, ok := api.AsError(err)
		require.True(t, ok)
		assert.Equal(t, api.CodeValidation, apiErr.Code)
		require.Len(t, apiErr.Fields, 1)
		assert.Equal(t, "leadId", apiErr.Fields[0].Field)
	})

	t.Run("Negative Amount Is Rejected", func(t *testing.T) {
		db := testDB()
		repo := NewOpportunityRepository(db, testClient())

		data := validCreateOpportunity(seedLeadID(t, db))
		bad := -1.0
		data.Amount = &bad

		_, err := repo.Create(context.Background(), data)
		assert.True(t, api.IsCode(err, api.CodeValidation))
	})
}

func TestOpportunityRepositoryFindByLeadID(t *testing.T) {
	db := testDB()
	repo := NewOpportunityRepository(db, testClient())
	leadID := seedLeadID(t, db)

	found, err := repo.FindByLeadID(context.Background(), leadID)
	require.NoError(t, err)
	assert.Nil(t, found)

	created, err := repo.Create(context.Background(), validCreateOpportunity(leadID))
	require.NoError(t, err)

	found, err = repo.FindByLeadID(context.Background(), leadID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
}

func TestOpportunityRepositoryUpdate(t *testing.T) {
	t.Run("LeadID Cannot Be Repointed", func(t *testing.T) {
		db := testDB()
		repo := NewOpportunityRepository(db, testClient())
		leadID := seedLeadID(t, db)

		created, err := repo.Create(context.Background(), validCreateOpportunity(leadID))
		require.NoError(t, err)

		stage := entity.StageNegotiation
		updated, err := repo.Update(context.Background(), entity.UpdateOpportunity{
			ID:    created.ID,
			Stage: &stage,
		})
		require.NoError(t, err)
		assert.Equal(t, entity.StageNegotiation, updated.Stage)
		assert.Equal(t, leadID, updated.LeadID)
	})

	t.Run("Missing Opportunity Is NOT_FOUND", func(t *testing.T) {
		repo := NewOpportunityRepository(testDB(), testClient())
		stage := entity.StageProposal
		_, err := repo.Update(context.Background(), entity.UpdateOpportunity{ID: "ghost", Stage: &stage})
		assert.True(t, api.IsCode(err, api.CodeNotFound))
	})
}

func TestOpportunityRepositoryAggregates(t *testing.T) {
	db := testDB()
	repo := NewOpportunityRepository(db, testClient())
	leadID := seedLeadID(t, db)

	_, err := repo.Create(context.Background(), validCreateOpportunity(leadID))
	require.NoError(t, err)

	data := validCreateOpportunity(leadID)
	amount := 1500.0
	data.Amount = &amount
	data.Stage = entity.StageClosedWon
	_, err = repo.Create(context.Background(), data)
	require.NoError(t, err)

	noAmount := validCreateOpportunity(leadID)
	noAmount.Amount = nil
	_, err = repo.Create(context.Background(), noAmount)
	require.NoError(t, err)

	t.Run("Count Matches FindAll", func(t *testing.T) {
		count, err := repo.Count(context.Background(), entity.OpportunityFilter{})
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("TotalRevenue Sums Amounts With Nil As Zero", func(t *testing.T) {
		total, err := repo.TotalRevenue(context.Background(), entity.OpportunityFilter{})
		require.NoError(t, err)
		assert.InDelta(t, 4000.0, total, 0.001)
	})

	t.Run("TotalRevenue Respects Filter", func(t *testing.T) {
		total, err := repo.TotalRevenue(context.Background(), entity.OpportunityFilter{Stage: entity.StageClosedWon})
		require.NoError(t, err)
		assert.InDelta(t, 1500.0, total, 0.001)
	})
}

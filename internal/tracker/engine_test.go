package tracker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	trackererr "sjsage522/pricetracker/pkg/errors"
)

func testItem(target string) Item {
	return Item{
		URL:           "https://shop.example.com/product/1",
		Name:          "Configured Name",
		TargetPrice:   decimal.RequireFromString(target),
		PriceSelector: ".price",
		NameSelector:  "h1.title",
	}
}

func TestCheckFirstObservationBelowTargetAlerts(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	result, err := Check(testItem("100"), "$95.00", "Extracted Name", nil, now)
	require.NoError(t, err)

	assert.True(t, result.AlertTriggered)
	assert.Contains(t, result.AlertReason, "no prior observation")
	assert.Equal(t, "Extracted Name", result.ResolvedName)
	assert.True(t, result.CurrentPrice.Equal(decimal.RequireFromString("95")))

	obs := result.NewObservation
	assert.Equal(t, "https://shop.example.com/product/1", obs.URL)
	assert.Equal(t, "Extracted Name", obs.Name)
	assert.True(t, obs.LastPrice.Equal(decimal.RequireFromString("95")))
	assert.Equal(t, now, obs.LastCheckedAt)
}

func TestCheckNameFallsBackToConfiguredName(t *testing.T) {
	result, err := Check(testItem("100"), "$95.00", "", nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "Configured Name", result.ResolvedName)
	assert.Equal(t, "Configured Name", result.NewObservation.Name)
}

func TestCheckAlertSequence(t *testing.T) {
	// With target 100 and prices [120, 95, 95, 90, 95], the alert
	// sequence is [false, true, true, true, false]: a flat repeat at or
	// below target still alerts, a climb back up does not.
	item := testItem("100")
	prices := []string{"120", "95", "95", "90", "95"}
	wantAlerts := []bool{false, true, true, true, false}

	var prior *Observation
	for i, price := range prices {
		result, err := Check(item, price, "", prior, time.Now())
		require.NoError(t, err)
		assert.Equal(t, wantAlerts[i], result.AlertTriggered, "check %d at price %s", i, price)

		obs := result.NewObservation
		prior = &obs
	}
}

func TestCheckDropAboveTargetDoesNotAlert(t *testing.T) {
	prior := &Observation{
		URL:       "https://shop.example.com/product/1",
		LastPrice: decimal.RequireFromString("200"),
	}

	result, err := Check(testItem("100"), "150", "", prior, time.Now())
	require.NoError(t, err)
	assert.False(t, result.AlertTriggered)
	assert.Empty(t, result.AlertReason)
	// History still advances even without an alert.
	assert.True(t, result.NewObservation.LastPrice.Equal(decimal.RequireFromString("150")))
}

func TestCheckPriorDropScenario(t *testing.T) {
	prior := &Observation{
		URL:       "A",
		LastPrice: decimal.RequireFromString("60"),
	}
	item := Item{URL: "A", TargetPrice: decimal.RequireFromString("50"), PriceSelector: ".p"}

	result, err := Check(item, "45", "", prior, time.Now())
	require.NoError(t, err)
	assert.True(t, result.AlertTriggered)
	assert.Contains(t, result.AlertReason, "down from 60")
	assert.True(t, result.NewObservation.LastPrice.Equal(decimal.RequireFromString("45")))
}

func TestCheckUnparseablePriceFails(t *testing.T) {
	result, err := Check(testItem("100"), "--", "", nil, time.Now())
	assert.Nil(t, result)
	require.Error(t, err)

	var terr *trackererr.TrackerError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, trackererr.ErrorTypeParsing, terr.Type)
}

func TestCheckExactTargetBoundary(t *testing.T) {
	// Both clauses are inclusive: price exactly at target with an equal
	// prior price still alerts.
	prior := &Observation{URL: "A", LastPrice: decimal.RequireFromString("100")}
	item := Item{URL: "A", TargetPrice: decimal.RequireFromString("100"), PriceSelector: ".p"}

	result, err := Check(item, "100.00", "", prior, time.Now())
	require.NoError(t, err)
	assert.True(t, result.AlertTriggered)
}

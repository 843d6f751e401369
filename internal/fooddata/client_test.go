package fooddata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwehner/pup-planner/internal/model"
)

func TestSearch(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/foods/search", r.URL.Path)
		assert.Equal(t, "chicken", r.URL.Query().Get("query"))
		assert.Equal(t, "secret", r.URL.Query().Get("api_key"))
		assert.ElementsMatch(t, []string{"Foundation", "SR Legacy"}, r.URL.Query()["dataType"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "foods": [
                {"fdcId": 171077, "description": "Chicken, broilers or fryers", "dataType": "SR Legacy"},
                {"fdcId": 2646170, "description": "Chicken breast", "dataType": "Foundation", "brandOwner": ""}
            ]
        }`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "secret", nil)
	results, err := client.Search(context.Background(), "chicken", 25)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(171077), results[0].FdcID)
	assert.Equal(t, "Chicken, broilers or fryers", results[0].Description)
}

func TestFoodByID(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/food/171077", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "fdcId": 171077,
            "description": "Chicken, broilers or fryers, breast, meat only, cooked, roasted",
            "foodNutrients": [
                {"nutrient": {"id": 1008}, "amount": 165},
                {"nutrient": {"id": 1003}, "amount": 31},
                {"nutrient": {"id": 1004}, "amount": 3.6},
                {"nutrient": {"id": 1087}, "amount": 15},
                {"nutrient": {"id": 1091}, "amount": 196},
                {"nutrient": {"id": 9999}, "amount": 12345}
            ]
        }`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", nil)
	ing, err := client.FoodByID(context.Background(), 171077)
	require.NoError(t, err)

	assert.Equal(t, model.SourceUSDA, ing.SourceType)
	assert.Equal(t, "171077", ing.SourceID)
	assert.Equal(t, model.RoleFood, ing.Role)
	assert.Equal(t, 165.0, ing.Per100g.Kcal)
	assert.Equal(t, 31.0, ing.Per100g.ProteinG)
	assert.Equal(t, 3.6, ing.Per100g.FatG)
	assert.Equal(t, 15.0, ing.Per100g.CalciumMg)
	assert.Equal(t, 196.0, ing.Per100g.PhosphorusMg)
	// Nutrients the record omits stay zero.
	assert.Equal(t, 0.0, ing.Per100g.ZincMg)
}

func TestFoodByIDFlatNutrientShape(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
            "fdcId": 5,
            "description": "Test food",
            "foodNutrients": [
                {"nutrientId": 1008, "amount": 100},
                {"nutrientId": 1003, "amount": 20}
            ]
        }`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", nil)
	ing, err := client.FoodByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 100.0, ing.Per100g.Kcal)
	assert.Equal(t, 20.0, ing.Per100g.ProteinG)
}

func TestUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, "", nil)
	_, err := client.Search(context.Background(), "chicken", 25)
	assert.ErrorIs(t, err, ErrUpstream)

	_, err = client.FoodByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestUpstreamUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", nil)
	_, err := client.Search(context.Background(), "chicken", 25)
	assert.ErrorIs(t, err, ErrUpstream)
}

// Package fooddata wraps the USDA FoodData Central API
// (https://fdc.nal.usda.gov/api-guide.html) and normalizes its responses into
// per-100g ingredient records.
package fooddata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/pkg/nutrition"
)

// ErrUpstream indicates the FoodData Central API returned an error or could
// not be reached.
var ErrUpstream = errors.New("food data service unavailable")

// Nutrient ids from FoodData Central, all per 100 g.
const (
	nutrientEnergy     = 1008 // kcal
	nutrientProtein    = 1003 // g
	nutrientFat        = 1004 // g
	nutrientCarbs      = 1005 // g, carbohydrate by difference
	nutrientCalcium    = 1087 // mg
	nutrientPhosphorus = 1091 // mg
	nutrientIron       = 1089 // mg
	nutrientZinc       = 1095 // mg
	nutrientVitaminA   = 1106 // mcg RAE
	nutrientVitaminD   = 1114 // mcg, D2 + D3
	nutrientVitaminE   = 1109 // mg alpha-tocopherol
)

// Client talks to FoodData Central. An empty API key still works against the
// public DEMO_KEY rate limits.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a Client against the given base URL.
func NewClient(baseURL, apiKey string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// SearchResult is one simplified hit from a food search.
type SearchResult struct {
	FdcID       int64  `json:"fdc_id"`
	Description string `json:"description"`
	DataType    string `json:"data_type"`
	BrandOwner  string `json:"brand_owner,omitempty"`
}

type searchResponse struct {
	Foods []struct {
		FdcID       int64  `json:"fdcId"`
		Description string `json:"description"`
		DataType    string `json:"dataType"`
		BrandOwner  string `json:"brandOwner"`
	} `json:"foods"`
}

// foodNutrient handles both response shapes FoodData Central uses: search
// hits carry a flat nutrientId, detail responses nest it under nutrient.id.
type foodNutrient struct {
	NutrientID int64 `json:"nutrientId"`
	Nutrient   struct {
		ID int64 `json:"id"`
	} `json:"nutrient"`
	Amount float64 `json:"amount"`
}

func (n foodNutrient) id() int64 {
	if n.Nutrient.ID != 0 {
		return n.Nutrient.ID
	}
	return n.NutrientID
}

type foodResponse struct {
	FdcID         int64          `json:"fdcId"`
	Description   string         `json:"description"`
	FoodNutrients []foodNutrient `json:"foodNutrients"`
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("food data request failed",
			zap.String("op", "fooddata.get"),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return nil
}

// Search queries FoodData Central for foods matching the query, restricted to
// the Foundation and SR Legacy data sets.
func (c *Client) Search(ctx context.Context, query string, pageSize int) ([]SearchResult, error) {
	if pageSize < 1 {
		pageSize = 25
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Add("dataType", "Foundation")
	params.Add("dataType", "SR Legacy")

	var resp searchResponse
	if err := c.get(ctx, "/foods/search", params, &resp); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(resp.Foods))
	for _, food := range resp.Foods {
		results = append(results, SearchResult{
			FdcID:       food.FdcID,
			Description: food.Description,
			DataType:    food.DataType,
			BrandOwner:  food.BrandOwner,
		})
	}
	return results, nil
}

// FoodByID fetches one food record and normalizes it into a per-100g
// ingredient. Nutrients the record omits stay zero.
func (c *Client) FoodByID(ctx context.Context, fdcID int64) (model.Ingredient, error) {
	var resp foodResponse
	err := c.get(ctx, "/food/"+strconv.FormatInt(fdcID, 10), url.Values{}, &resp)
	if err != nil {
		return model.Ingredient{}, err
	}

	name := resp.Description
	if name == "" {
		name = "Unknown Food"
	}

	return model.Ingredient{
		Name:       name,
		SourceType: model.SourceUSDA,
		SourceID:   strconv.FormatInt(resp.FdcID, 10),
		Role:       model.RoleFood,
		Per100g: nutrition.Vector{
			Kcal:         amount(resp.FoodNutrients, nutrientEnergy),
			ProteinG:     amount(resp.FoodNutrients, nutrientProtein),
			FatG:         amount(resp.FoodNutrients, nutrientFat),
			CarbsG:       amount(resp.FoodNutrients, nutrientCarbs),
			CalciumMg:    amount(resp.FoodNutrients, nutrientCalcium),
			PhosphorusMg: amount(resp.FoodNutrients, nutrientPhosphorus),
			IronMg:       amount(resp.FoodNutrients, nutrientIron),
			ZincMg:       amount(resp.FoodNutrients, nutrientZinc),
			VitaminAMcg:  amount(resp.FoodNutrients, nutrientVitaminA),
			VitaminDMcg:  amount(resp.FoodNutrients, nutrientVitaminD),
			VitaminEMg:   amount(resp.FoodNutrients, nutrientVitaminE),
		},
	}, nil
}

func amount(nutrients []foodNutrient, id int64) float64 {
	for _, n := range nutrients {
		if n.id() == id {
			return n.Amount
		}
	}
	return 0
}

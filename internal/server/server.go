// Package server exposes the planning engine and storage layer over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kwehner/pup-planner/internal/fooddata"
	"github.com/kwehner/pup-planner/internal/model"
	"github.com/kwehner/pup-planner/internal/planner"
	"github.com/kwehner/pup-planner/internal/store"
	"github.com/kwehner/pup-planner/pkg/constants"
	"github.com/kwehner/pup-planner/pkg/energy"
)

type handler struct {
	logger   *zap.Logger
	store    *store.Store
	engine   *planner.Engine
	fooddata *fooddata.Client
	version  string
}

// NewHandler constructs the HTTP handler serving the planning API. The
// fooddata client may be nil, in which case the import and search endpoints
// report the upstream as unavailable.
func NewHandler(logger *zap.Logger, st *store.Store, engine *planner.Engine, fd *fooddata.Client, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: st, engine: engine, fooddata: fd, version: trimmedVersion}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/version", h.handleVersion)

	mux.HandleFunc("POST /api/dogs", h.handleCreateDog)
	mux.HandleFunc("GET /api/dogs", h.handleListDogs)
	mux.HandleFunc("GET /api/dogs/{id}", h.handleGetDog)
	mux.HandleFunc("PUT /api/dogs/{id}", h.handleUpdateDog)
	mux.HandleFunc("GET /api/dogs/{id}/energy", h.handleDogEnergy)
	mux.HandleFunc("GET /api/dogs/{id}/weight-history", h.handleWeightHistory)
	mux.HandleFunc("GET /api/dogs/{id}/plans", h.handlePlansForDog)

	mux.HandleFunc("POST /api/ingredients", h.handleCreateIngredient)
	mux.HandleFunc("GET /api/ingredients", h.handleListIngredients)
	mux.HandleFunc("GET /api/ingredients/{id}", h.handleGetIngredient)
	mux.HandleFunc("DELETE /api/ingredients/{id}", h.handleDeleteIngredient)
	mux.HandleFunc("POST /api/ingredients/import", h.handleImportIngredient)

	mux.HandleFunc("GET /api/fooddata/search", h.handleFoodSearch)

	mux.HandleFunc("POST /api/recipes", h.handleCreateRecipe)
	mux.HandleFunc("GET /api/recipes", h.handleListRecipes)
	mux.HandleFunc("GET /api/recipes/{id}", h.handleGetRecipe)
	mux.HandleFunc("DELETE /api/recipes/{id}", h.handleDeleteRecipe)

	mux.HandleFunc("POST /api/plan/compute", h.handleCompute)
	mux.HandleFunc("POST /api/plan/simulate", h.handleSimulate)

	mux.HandleFunc("GET /api/plans", h.handleListPlans)
	mux.HandleFunc("GET /api/plans/{id}", h.handleGetPlan)
	mux.HandleFunc("PUT /api/plans/{id}", h.handleUpdatePlan)
	mux.HandleFunc("DELETE /api/plans/{id}", h.handleDeletePlan)

	return mux
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleCreateDog(w http.ResponseWriter, r *http.Request) {
	var dog model.Dog
	if err := json.NewDecoder(r.Body).Decode(&dog); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode dog: %v", err), "server.handleCreateDog")
		return
	}
	if err := validateDog(dog); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleCreateDog")
		return
	}
	if err := h.store.CreateDog(&dog); err != nil {
		h.respondStoreError(w, err, "server.handleCreateDog")
		return
	}
	h.writeJSON(w, http.StatusCreated, dog)
}

func validateDog(dog model.Dog) error {
	if strings.TrimSpace(dog.Name) == "" {
		return errors.New("dog name is required")
	}
	if dog.WeightKg <= 0 {
		return errors.New("weight_kg must be positive")
	}
	if dog.AgeYears < 0 {
		return errors.New("age_years must not be negative")
	}
	return nil
}

func (h *handler) handleListDogs(w http.ResponseWriter, r *http.Request) {
	dogs, err := h.store.ListDogs()
	if err != nil {
		h.respondStoreError(w, err, "server.handleListDogs")
		return
	}
	if dogs == nil {
		dogs = []model.Dog{}
	}
	h.writeJSON(w, http.StatusOK, dogs)
}

// dogResponse is the single-dog view, carrying the derived energy numbers
// alongside the stored profile.
type dogResponse struct {
	model.Dog
	Energy planner.EnergyProfile `json:"energy"`
}

func (h *handler) handleGetDog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleGetDog")
	if !ok {
		return
	}
	dog, err := h.store.GetDog(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetDog")
		return
	}
	profile, err := h.engine.EnergyProfile(dog)
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetDog")
		return
	}
	h.writeJSON(w, http.StatusOK, dogResponse{Dog: dog, Energy: profile})
}

func (h *handler) handleUpdateDog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleUpdateDog")
	if !ok {
		return
	}

	var dog model.Dog
	if err := json.NewDecoder(r.Body).Decode(&dog); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode dog: %v", err), "server.handleUpdateDog")
		return
	}
	dog.ID = id
	if err := validateDog(dog); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleUpdateDog")
		return
	}
	if err := h.store.UpdateDog(dog); err != nil {
		h.respondStoreError(w, err, "server.handleUpdateDog")
		return
	}
	h.writeJSON(w, http.StatusOK, dog)
}

func (h *handler) handleDogEnergy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleDogEnergy")
	if !ok {
		return
	}
	dog, err := h.store.GetDog(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleDogEnergy")
		return
	}
	profile, err := h.engine.EnergyProfile(dog)
	if err != nil {
		h.respondStoreError(w, err, "server.handleDogEnergy")
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *handler) handleWeightHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleWeightHistory")
	if !ok {
		return
	}
	if _, err := h.store.GetDog(id); err != nil {
		h.respondStoreError(w, err, "server.handleWeightHistory")
		return
	}
	entries, err := h.store.WeightHistory(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleWeightHistory")
		return
	}
	if entries == nil {
		entries = []model.WeightEntry{}
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *handler) handleCreateIngredient(w http.ResponseWriter, r *http.Request) {
	var ing model.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&ing); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode ingredient: %v", err), "server.handleCreateIngredient")
		return
	}
	if strings.TrimSpace(ing.Name) == "" {
		h.respondError(w, http.StatusBadRequest, "ingredient name is required", "server.handleCreateIngredient")
		return
	}
	if ing.Role == "" {
		ing.Role = model.RoleFood
	}
	if ing.SourceType == "" {
		ing.SourceType = model.SourceUser
	}
	if err := h.store.CreateIngredient(&ing); err != nil {
		h.respondStoreError(w, err, "server.handleCreateIngredient")
		return
	}
	h.writeJSON(w, http.StatusCreated, ing)
}

func (h *handler) handleListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.store.ListIngredients()
	if err != nil {
		h.respondStoreError(w, err, "server.handleListIngredients")
		return
	}
	if ingredients == nil {
		ingredients = []model.Ingredient{}
	}
	h.writeJSON(w, http.StatusOK, ingredients)
}

func (h *handler) handleGetIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleGetIngredient")
	if !ok {
		return
	}
	ing, err := h.store.GetIngredient(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetIngredient")
		return
	}
	h.writeJSON(w, http.StatusOK, ing)
}

func (h *handler) handleDeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleDeleteIngredient")
	if !ok {
		return
	}
	if err := h.store.DeleteIngredient(id); err != nil {
		h.respondStoreError(w, err, "server.handleDeleteIngredient")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type importRequest struct {
	FdcID int64 `json:"fdc_id"`
}

// handleImportIngredient fetches a food record from FoodData Central and
// stores it as an ingredient. Re-importing the same record returns the
// existing row.
func (h *handler) handleImportIngredient(w http.ResponseWriter, r *http.Request) {
	if h.fooddata == nil {
		h.respondError(w, http.StatusBadGateway, fooddata.ErrUpstream.Error(), "server.handleImportIngredient")
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleImportIngredient")
		return
	}
	if req.FdcID <= 0 {
		h.respondError(w, http.StatusBadRequest, "fdc_id is required", "server.handleImportIngredient")
		return
	}

	if existing, err := h.store.FindIngredientBySource(strconv.FormatInt(req.FdcID, 10)); err == nil {
		h.writeJSON(w, http.StatusOK, existing)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		h.respondStoreError(w, err, "server.handleImportIngredient")
		return
	}

	ing, err := h.fooddata.FoodByID(r.Context(), req.FdcID)
	if err != nil {
		h.respondStoreError(w, err, "server.handleImportIngredient")
		return
	}
	if err := h.store.CreateIngredient(&ing); err != nil {
		h.respondStoreError(w, err, "server.handleImportIngredient")
		return
	}
	h.writeJSON(w, http.StatusCreated, ing)
}

func (h *handler) handleFoodSearch(w http.ResponseWriter, r *http.Request) {
	if h.fooddata == nil {
		h.respondError(w, http.StatusBadGateway, fooddata.ErrUpstream.Error(), "server.handleFoodSearch")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		h.respondError(w, http.StatusBadRequest, "query parameter is required", "server.handleFoodSearch")
		return
	}

	pageSize := 0
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.respondError(w, http.StatusBadRequest, "page_size must be a positive integer", "server.handleFoodSearch")
			return
		}
		pageSize = parsed
	}

	results, err := h.fooddata.Search(r.Context(), query, pageSize)
	if err != nil {
		h.respondStoreError(w, err, "server.handleFoodSearch")
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

type recipeRequest struct {
	Name        string `json:"name"`
	MealsPerDay int    `json:"meals_per_day"`
	Entries     []struct {
		IngredientID int64   `json:"ingredient_id"`
		Percentage   float64 `json:"percentage"`
	} `json:"entries"`
}

func (h *handler) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode recipe: %v", err), "server.handleCreateRecipe")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.respondError(w, http.StatusBadRequest, "recipe name is required", "server.handleCreateRecipe")
		return
	}
	if len(req.Entries) == 0 {
		h.respondError(w, http.StatusBadRequest, "recipe needs at least one entry", "server.handleCreateRecipe")
		return
	}

	recipe := model.Recipe{Name: req.Name, MealsPerDay: req.MealsPerDay}
	for _, entry := range req.Entries {
		ing, err := h.store.GetIngredient(entry.IngredientID)
		if err != nil {
			h.respondStoreError(w, err, "server.handleCreateRecipe")
			return
		}
		recipe.Entries = append(recipe.Entries, model.RecipeEntry{
			Ingredient: ing,
			Percentage: entry.Percentage,
		})
	}

	if err := h.store.CreateRecipe(&recipe); err != nil {
		h.respondStoreError(w, err, "server.handleCreateRecipe")
		return
	}
	h.writeJSON(w, http.StatusCreated, recipe)
}

func (h *handler) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := h.store.ListRecipes()
	if err != nil {
		h.respondStoreError(w, err, "server.handleListRecipes")
		return
	}
	if recipes == nil {
		recipes = []model.Recipe{}
	}
	h.writeJSON(w, http.StatusOK, recipes)
}

func (h *handler) handleGetRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleGetRecipe")
	if !ok {
		return
	}
	recipe, err := h.store.GetRecipe(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetRecipe")
		return
	}
	h.writeJSON(w, http.StatusOK, recipe)
}

func (h *handler) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleDeleteRecipe")
	if !ok {
		return
	}
	if err := h.store.DeleteRecipe(id); err != nil {
		h.respondStoreError(w, err, "server.handleDeleteRecipe")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type computeRequest struct {
	DogID      int64   `json:"dog_id"`
	RecipeID   int64   `json:"recipe_id"`
	KibbleKcal float64 `json:"kibble_kcal"`
	TreatsKcal float64 `json:"treats_kcal"`
	NumDays    int     `json:"num_days"`
	Save       bool    `json:"save"`
}

func (h *handler) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleCompute")
		return
	}

	if req.KibbleKcal < 0 || req.TreatsKcal < 0 {
		h.respondError(w, http.StatusBadRequest, "kibble_kcal and treats_kcal must not be negative", "server.handleCompute")
		return
	}
	if req.NumDays == 0 {
		req.NumDays = constants.MinPlanDays
	}
	if req.NumDays < constants.MinPlanDays || req.NumDays > constants.MaxPlanDays {
		h.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("num_days must be between %d and %d", constants.MinPlanDays, constants.MaxPlanDays),
			"server.handleCompute")
		return
	}

	dog, err := h.store.GetDog(req.DogID)
	if err != nil {
		h.respondStoreError(w, err, "server.handleCompute")
		return
	}
	recipe, err := h.store.GetRecipe(req.RecipeID)
	if err != nil {
		h.respondStoreError(w, err, "server.handleCompute")
		return
	}

	result, err := h.engine.Compute(dog, recipe, planner.ComputeRequest{
		KibbleKcal: req.KibbleKcal,
		TreatsKcal: req.TreatsKcal,
		NumDays:    req.NumDays,
	})
	if err != nil {
		h.respondStoreError(w, err, "server.handleCompute")
		return
	}

	if req.Save {
		summary := model.PlanSummary{
			DogID:        dog.ID,
			RecipeID:     recipe.ID,
			KibbleKcal:   result.KibbleKcal,
			TreatsKcal:   result.TreatsKcal,
			HomemadeKcal: result.HomemadeKcal,
			TargetKcal:   result.TargetKcal,
		}
		if err := h.store.SavePlan(&summary); err != nil {
			h.respondStoreError(w, err, "server.handleCompute")
			return
		}
	}

	h.writeJSON(w, http.StatusOK, result)
}

type simulateRequest struct {
	DogID    int64 `json:"dog_id"`
	RecipeID int64 `json:"recipe_id"`
	planner.SimulateRequest
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), "server.handleSimulate")
		return
	}

	// The dog does not influence the fixed-mass comparison, but a simulation
	// against a missing profile is a caller mistake worth surfacing.
	if _, err := h.store.GetDog(req.DogID); err != nil {
		h.respondStoreError(w, err, "server.handleSimulate")
		return
	}
	recipe, err := h.store.GetRecipe(req.RecipeID)
	if err != nil {
		h.respondStoreError(w, err, "server.handleSimulate")
		return
	}

	result, err := h.engine.Simulate(recipe, req.SimulateRequest)
	if err != nil {
		h.respondStoreError(w, err, "server.handleSimulate")
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.ListPlans()
	if err != nil {
		h.respondStoreError(w, err, "server.handleListPlans")
		return
	}
	if plans == nil {
		plans = []model.PlanSummary{}
	}
	h.writeJSON(w, http.StatusOK, plans)
}

func (h *handler) handlePlansForDog(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handlePlansForDog")
	if !ok {
		return
	}
	if _, err := h.store.GetDog(id); err != nil {
		h.respondStoreError(w, err, "server.handlePlansForDog")
		return
	}
	plans, err := h.store.ListPlansForDog(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handlePlansForDog")
		return
	}
	if plans == nil {
		plans = []model.PlanSummary{}
	}
	h.writeJSON(w, http.StatusOK, plans)
}

func (h *handler) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleGetPlan")
	if !ok {
		return
	}
	plan, err := h.store.GetPlan(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleGetPlan")
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

// planUpdateRequest carries the updatable calorie fields. Pointers mark
// fields the caller actually sent; omitted fields keep their stored values.
type planUpdateRequest struct {
	KibbleKcal *float64 `json:"kibble_kcal"`
	TreatsKcal *float64 `json:"treats_kcal"`
	TargetKcal *float64 `json:"target_kcal"`
}

func (h *handler) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleUpdatePlan")
	if !ok {
		return
	}

	plan, err := h.store.GetPlan(id)
	if err != nil {
		h.respondStoreError(w, err, "server.handleUpdatePlan")
		return
	}

	var req planUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, fmt.Sprintf("failed to decode plan: %v", err), "server.handleUpdatePlan")
		return
	}
	if req.KibbleKcal != nil {
		plan.KibbleKcal = *req.KibbleKcal
	}
	if req.TreatsKcal != nil {
		plan.TreatsKcal = *req.TreatsKcal
	}
	if req.TargetKcal != nil {
		plan.TargetKcal = *req.TargetKcal
	}
	if plan.KibbleKcal < 0 || plan.TreatsKcal < 0 {
		h.respondError(w, http.StatusBadRequest, "kibble_kcal and treats_kcal must not be negative", "server.handleUpdatePlan")
		return
	}

	// The homemade budget is derived, never taken from the client.
	plan.HomemadeKcal = energy.HomemadeBudget(plan.TargetKcal, plan.KibbleKcal, plan.TreatsKcal)

	if err := h.store.UpdatePlan(plan); err != nil {
		h.respondStoreError(w, err, "server.handleUpdatePlan")
		return
	}
	h.writeJSON(w, http.StatusOK, plan)
}

func (h *handler) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "server.handleDeletePlan")
	if !ok {
		return
	}
	if err := h.store.DeletePlan(id); err != nil {
		h.respondStoreError(w, err, "server.handleDeletePlan")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *handler) pathID(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		h.respondError(w, http.StatusBadRequest, "invalid id", op)
		return 0, false
	}
	return id, true
}

// respondStoreError maps domain sentinel errors onto HTTP status codes.
func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, planner.ErrEmptyRecipe),
		errors.Is(err, planner.ErrPercentageSum),
		errors.Is(err, energy.ErrNonPositiveWeight):
		status = http.StatusBadRequest
	case errors.Is(err, fooddata.ErrUpstream):
		status = http.StatusBadGateway
	}
	h.respondError(w, status, err.Error(), op)
}

func (h *handler) respondError(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

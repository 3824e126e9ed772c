package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mgodoy/bookkeeper-api/internal/models"
	"github.com/mgodoy/bookkeeper-api/internal/services"
	"github.com/mgodoy/bookkeeper-api/internal/storage"
	"github.com/shopspring/decimal"
)

type AssetHandler struct {
	assetService        *services.FixedAssetService
	depreciationService *services.DepreciationService
	storage             *storage.LocalStorage
}

func NewAssetHandler(assetService *services.FixedAssetService, depreciationService *services.DepreciationService, store *storage.LocalStorage) *AssetHandler {
	return &AssetHandler{assetService: assetService, depreciationService: depreciationService, storage: store}
}

// @Summary List Fixed Assets
// @Description Get all fixed assets
// @Tags Assets
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /assets [get]
func (h *AssetHandler) Index(c *gin.Context) {
	assets, err := h.assetService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, a := range assets {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"assets": responses})
}

// @Summary Get Fixed Asset
// @Description Get a fixed asset with its depreciation entries
// @Tags Assets
// @Accept json
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Success 200 {object} models.FixedAssetResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /assets/{asset_id} [get]
func (h *AssetHandler) Show(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	asset, err := h.assetService.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"asset": asset.ToResponse()})
}

type AssetRequest struct {
	Name            string           `json:"name" binding:"required"`
	PurchaseDate    string           `json:"purchase_date" binding:"required"`
	OriginalCost    decimal.Decimal  `json:"original_cost" binding:"required"`
	SalvageValue    decimal.Decimal  `json:"salvage_value"`
	Method          string           `json:"method" binding:"required"`
	UsefulLifeYears *int             `json:"useful_life_years"`
	Rate            *decimal.Decimal `json:"rate"`
	TotalUnits      *int64           `json:"total_units"`
	AccountID       uint             `json:"account_id" binding:"required"`
	CreditAccountID uint             `json:"credit_account_id"`
}

// @Summary Create Fixed Asset
// @Description Register a fixed asset. The acquisition is posted to the ledger: the asset account is debited, the credit account (default accounts payable) credited.
// @Tags Assets
// @Accept json
// @Produce json
// @Param request body AssetRequest true "Asset Data"
// @Success 201 {object} models.FixedAssetResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /assets [post]
func (h *AssetHandler) Create(c *gin.Context) {
	var req AssetRequest
	if err := BindNestedOrFlat(c, "asset", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid purchase_date, expected YYYY-MM-DD"})
		return
	}

	asset := &models.FixedAsset{
		Name:            req.Name,
		PurchaseDate:    purchaseDate,
		OriginalCost:    req.OriginalCost,
		SalvageValue:    req.SalvageValue,
		Method:          models.DepreciationMethodName(req.Method),
		UsefulLifeYears: req.UsefulLifeYears,
		Rate:            req.Rate,
		TotalUnits:      req.TotalUnits,
		AccountID:       req.AccountID,
	}

	created, err := h.assetService.Create(c.Request.Context(), asset, req.CreditAccountID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"asset": created.ToResponse()})
}

// @Summary Import Fixed Assets
// @Description Bulk import assets from an XLSX upload. Rows are imported independently; bad rows are reported and skipped.
// @Tags Assets
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "XLSX file"
// @Success 200 {object} services.ImportResult
// @Security BearerAuth
// @Router /assets/import [post]
func (h *AssetHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > storage.MaxImportSize() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds the 10MB limit"})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.ValidImportContentTypes()[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected an XLSX upload"})
		return
	}

	// Keep the original upload for later review
	if _, err := h.storage.Upload(file, header, "imports"); err != nil {
		respondError(c, err)
		return
	}
	if _, err := file.Seek(0, 0); err != nil {
		respondError(c, err)
		return
	}

	result, err := h.assetService.ImportXLSX(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type GenerateScheduleRequest struct {
	UpTo string `json:"up_to" binding:"required"`
	// Units maps a month period to produced units, required for
	// units-of-production assets
	Units map[string]int64 `json:"units"`
}

// @Summary Generate Depreciation Schedule
// @Description Extend an asset's depreciation schedule with monthly entries up to the given date. Each entry creates a pending scheduled transaction.
// @Tags Assets
// @Accept json
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Param request body GenerateScheduleRequest true "Schedule Parameters"
// @Success 200 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /assets/{asset_id}/schedule [post]
func (h *AssetHandler) GenerateSchedule(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	var req GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upTo, err := time.Parse("2006-01-02", req.UpTo)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid up_to, expected YYYY-MM-DD"})
		return
	}

	var units services.UnitsProvider
	if req.Units != nil {
		units = func(period int) (int64, bool) {
			n, ok := req.Units[strconv.Itoa(period)]
			return n, ok
		}
	}

	entries, err := h.depreciationService.GenerateSchedule(c.Request.Context(), uint(id), upTo, units)
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

// @Summary Get Depreciation Schedule
// @Description Get the generated depreciation entries for an asset
// @Tags Assets
// @Accept json
// @Produce json
// @Param asset_id path int true "Asset ID"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /assets/{asset_id}/schedule [get]
func (h *AssetHandler) Schedule(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("asset_id"), 10, 32)
	entries, err := h.depreciationService.Schedule(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	var responses []interface{}
	for _, e := range entries {
		responses = append(responses, e.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"entries": responses})
}

package productControllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

func excelRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/products/export-excel", ExportProductsToExcel(db))
	r.POST("/admin/products/import-excel", ImportProductsFromExcel(db))
	return r
}

func importSheet(t *testing.T, r *gin.Engine, sheet []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "products.xlsx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(sheet); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/products/import-excel", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	r.ServeHTTP(w, req)
	return w
}

func TestExcelExportImportRoundTrip(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()
	future := now.AddDate(0, 1, 0)

	brand := models.Brand{Name: "Shofu"}
	db.Create(&brand)

	product := models.Product{
		Code:            "P100",
		Name:            "Kompozit A2",
		BrandID:         brand.ID,
		Price:           30,
		Discount:        10,
		DiscountEndDate: &future,
		Quantity:        5,
	}
	db.Create(&product)

	r := excelRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/products/export-excel", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", w.Code, w.Body.String())
	}
	sheet := w.Body.Bytes()

	// Drift the catalog away from the sheet, then import it back.
	db.Model(&models.Product{}).Where("id = ?", product.ID).
		Updates(map[string]interface{}{"price": 99, "quantity": 0})

	w = importSheet(t, r, sheet)
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Updated int      `json:"updated"`
		Skipped []string `json:"skipped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Updated != 1 || len(resp.Skipped) != 0 {
		t.Fatalf("import response = %+v, want one update and no skips", resp)
	}

	var fresh models.Product
	db.First(&fresh, product.ID)
	if fresh.Price != 30 {
		t.Errorf("price = %v, want 30 restored from the sheet", fresh.Price)
	}
	if fresh.Quantity != 5 {
		t.Errorf("quantity = %d, want 5 restored from the sheet", fresh.Quantity)
	}
	if fresh.Discount != 10 {
		t.Errorf("discount = %d, want 10", fresh.Discount)
	}
}

func TestExcelImportSkipsUnknownCodes(t *testing.T) {
	db := newTestDB(t)

	db.Create(&models.Product{Code: "P100", Name: "Kompozit A2", Price: 30, Quantity: 5})

	r := excelRouter(db)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/products/export-excel", nil)
	r.ServeHTTP(w, req)
	sheet := w.Body.Bytes()

	// Re-point the only row at a code the catalog does not have.
	db.Model(&models.Product{}).Where("code = ?", "P100").Update("code", "P200")

	w = importSheet(t, r, sheet)
	if w.Code != http.StatusOK {
		t.Fatalf("import status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Updated int      `json:"updated"`
		Skipped []string `json:"skipped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Updated != 0 || len(resp.Skipped) != 1 || resp.Skipped[0] != "P100" {
		t.Fatalf("import response = %+v, want the stale code skipped", resp)
	}
}

package productControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

const dateLayout = "2006-01-02"

// GET /admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Brand").Preload("Category").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel sheet"})
			return
		}

		headers := []string{
			"ID", "Code", "Name", "Brand", "Category",
			"Price", "Discount", "DiscountEndDate", "Quantity", "InStock",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Code)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Brand.Name)
			row.AddCell().SetValue(p.Category.Name)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(int(p.Discount))
			if p.DiscountEndDate != nil {
				row.AddCell().SetValue(p.DiscountEndDate.Format(dateLayout))
			} else {
				row.AddCell().SetValue("")
			}
			row.AddCell().SetValue(int(p.Quantity))
			row.AddCell().SetValue(p.InStock)
		}

		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}

// POST /admin/products/import-excel
//
// Updates price, discount, discount end date and stock by product code.
// Rows with unknown codes are skipped and reported.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		src, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer src.Close()

		wb, err := xlsx.OpenReaderAt(src, fileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Excel file"})
			return
		}

		if len(wb.Sheets) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file has no sheets"})
			return
		}

		var updated int
		var skipped []string

		// Column layout mirrors ExportProductsToExcel, so an exported
		// sheet can be edited and fed straight back in.
		err = db.Transaction(func(tx *gorm.DB) error {
			for i, row := range wb.Sheets[0].Rows {
				if i == 0 || len(row.Cells) < 9 {
					continue
				}

				code := row.Cells[1].String()
				if code == "" {
					continue
				}

				var product models.Product
				if err := tx.Where("code = ?", code).First(&product).Error; err != nil {
					skipped = append(skipped, code)
					continue
				}

				if price, err := strconv.ParseFloat(row.Cells[5].String(), 64); err == nil {
					product.Price = price
				}
				if discount, err := strconv.ParseUint(row.Cells[6].String(), 10, 32); err == nil {
					product.Discount = uint(discount)
				}
				if endDate, err := time.Parse(dateLayout, row.Cells[7].String()); err == nil {
					product.DiscountEndDate = &endDate
				}
				if quantity, err := strconv.ParseUint(row.Cells[8].String(), 10, 32); err == nil {
					product.Quantity = uint(quantity)
				}

				if err := tx.Save(&product).Error; err != nil {
					return err
				}
				updated++
			}
			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import products"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"updated": updated, "skipped": skipped})
	}
}

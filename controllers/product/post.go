package productcontroller

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GoncharovAlexandr/onshp/models"
	"github.com/GoncharovAlexandr/onshp/stores"
)

const imageDir = "static/images"

type productForm struct {
	Name          string
	Price         float64
	StockQuantity int
	CategoryID    uint
	Description   string
}

func parseProductForm(c *gin.Context) (productForm, error) {
	name := c.PostForm("name")
	priceStr := c.PostForm("price")
	categoryIDStr := c.PostForm("category_id")
	stockStr := c.PostForm("stock_quantity")
	if name == "" || priceStr == "" || categoryIDStr == "" || stockStr == "" {
		return productForm{}, fmt.Errorf("name, price, category_id and stock_quantity are required")
	}

	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil {
		return productForm{}, fmt.Errorf("invalid price")
	}
	stock, err := strconv.Atoi(stockStr)
	if err != nil || stock < 0 {
		return productForm{}, fmt.Errorf("invalid stock_quantity")
	}
	categoryID, err := strconv.ParseUint(categoryIDStr, 10, 64)
	if err != nil {
		return productForm{}, fmt.Errorf("invalid category_id")
	}

	return productForm{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
		CategoryID:    uint(categoryID),
		Description:   c.PostForm("description"),
	}, nil
}

// saveImage writes the upload under static/images, addressed by filename.
// A re-upload with the same name overwrites the previous file.
func saveImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	filename := strings.ReplaceAll(filepath.Base(file.Filename), " ", "_")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(imageDir, filename)
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}

// POST /products/new (admin, multipart). The form's description
// goes to the document store; relational row and document are written
// independently (no cross-store transaction).
func CreateProduct(s *stores.Clients) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseProductForm(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var category models.Category
		if err := s.DB.First(&category, form.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Category not found"})
			return
		}

		var imagePath string
		if file, err := c.FormFile("image"); err == nil {
			imagePath, err = saveImage(c, file)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
				return
			}
		}

		product := models.Product{
			Name:          form.Name,
			Price:         form.Price,
			StockQuantity: form.StockQuantity,
			CategoryID:    form.CategoryID,
			Image:         imagePath,
		}
		tx := s.DB.Begin()
		if tx.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
			return
		}
		if err := tx.Create(&product).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		if err := tx.Commit().Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit transaction"})
			return
		}

		doc := models.ProductDoc{
			ProductID:   product.ID,
			Description: form.Description,
			Attributes:  map[string]string{},
		}
		if err := s.ProductDocs.Upsert(c.Request.Context(), doc); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store product description"})
			return
		}

		if wantsRedirect(c) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/products/%d", product.ID))
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// wantsRedirect reports whether the request came from an HTML form; those
// flows redirect on success instead of returning JSON.
func wantsRedirect(c *gin.Context) bool {
	ct := c.ContentType()
	return ct == "application/x-www-form-urlencoded" || strings.HasPrefix(ct, "multipart/form-data")
}

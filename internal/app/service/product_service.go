package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sportaccessories/storefront/internal/app/model"
	"github.com/sportaccessories/storefront/internal/app/repository"
	"github.com/sportaccessories/storefront/internal/storage"
	"github.com/sportaccessories/storefront/pkg/logger"
	"github.com/sportaccessories/storefront/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidProduct  = errors.New("product requires a name and a positive price")
	ErrImageStorage    = errors.New("image storage is not configured")
)

// ProductInput describes a product to create
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Brand       string
	ImageURL    string
}

// ProductUpdate holds the fields to change; nil leaves a field as is
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Category    *string
	Brand       *string
	ImageURL    *string
}

// ImageUpload is a product image received from a client
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ProductService interface {
	ListProducts(search string) ([]model.Product, error)
	GetProduct(id uint) (*model.Product, error)
	CreateProduct(input ProductInput) (*model.Product, error)
	ImportProducts(inputs []ProductInput) (int, error)
	UpdateProduct(id uint, update ProductUpdate) (*model.Product, error)
	DeleteProduct(id uint) error
	AttachImage(ctx context.Context, id uint, upload ImageUpload) (*model.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	images       storage.ImageStorage
	maxImageSize int64
}

// NewProductService creates the catalog service. images may be nil when
// uploads are not served by this process.
func NewProductService(productRepo repository.ProductRepository, images storage.ImageStorage, maxImageSize int64) ProductService {
	return &productService{
		productRepo:  productRepo,
		images:       images,
		maxImageSize: maxImageSize,
	}
}

func validateProduct(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" || !price.IsPositive() {
		return ErrInvalidProduct
	}
	return nil
}

func (in ProductInput) toModel() model.Product {
	return model.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Price:       in.Price.Round(2),
		Category:    strings.ToLower(strings.TrimSpace(in.Category)),
		Brand:       strings.TrimSpace(in.Brand),
		ImageURL:    strings.TrimSpace(in.ImageURL),
	}
}

func (s *productService) ListProducts(search string) ([]model.Product, error) {
	products, err := s.productRepo.FindAll(search)
	if err != nil {
		logger.Error("Failed to list products", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}
	return products, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(input ProductInput) (*model.Product, error) {
	if err := validateProduct(input.Name, input.Price); err != nil {
		return nil, err
	}

	product := input.toModel()
	if err := s.productRepo.Create(&product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return nil, err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}

// ImportProducts validates every input before inserting any of them.
func (s *productService) ImportProducts(inputs []ProductInput) (int, error) {
	products := make([]model.Product, 0, len(inputs))
	for i, in := range inputs {
		if err := validateProduct(in.Name, in.Price); err != nil {
			return 0, fmt.Errorf("product %d (%q): %w", i+1, in.Name, err)
		}
		products = append(products, in.toModel())
	}

	if err := s.productRepo.CreateBatch(products); err != nil {
		return 0, err
	}

	logger.Info("Products imported", map[string]interface{}{
		"count": len(products),
	})
	return len(products), nil
}

func (s *productService) UpdateProduct(id uint, update ProductUpdate) (*model.Product, error) {
	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		product.Name = strings.TrimSpace(*update.Name)
	}
	if update.Description != nil {
		product.Description = strings.TrimSpace(*update.Description)
	}
	if update.Price != nil {
		product.Price = update.Price.Round(2)
	}
	if update.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*update.Category))
	}
	if update.Brand != nil {
		product.Brand = strings.TrimSpace(*update.Brand)
	}
	if update.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*update.ImageURL)
	}

	if err := validateProduct(product.Name, product.Price); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
	})
	return product, nil
}

func (s *productService) DeleteProduct(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (s *productService) AttachImage(ctx context.Context, id uint, upload ImageUpload) (*model.Product, error) {
	if s.images == nil {
		return nil, ErrImageStorage
	}

	ext, err := storage.ValidateImage(upload.ContentType, upload.Size, s.maxImageSize)
	if err != nil {
		logger.Warn("Rejected product image", map[string]interface{}{
			"product_id":   id,
			"content_type": upload.ContentType,
			"size":         upload.Size,
		})
		return nil, err
	}

	product, err := s.GetProduct(id)
	if err != nil {
		return nil, err
	}

	key := util.GenerateObjectKey(fmt.Sprintf("products/%d", id), ext)
	url, err := s.images.Save(ctx, key, upload.ContentType, upload.Body, upload.Size)
	if err != nil {
		return nil, err
	}

	product.ImageURL = url
	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to store product image URL", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product image attached", map[string]interface{}{
		"product_id": id,
		"url":        url,
	})
	return product, nil
}

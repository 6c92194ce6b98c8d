package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/cache"
	"github.com/Alturino/storefront/internal/constants"
	inErrors "github.com/Alturino/storefront/internal/errors"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/internal/repository"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductService struct {
	products repository.ProductRepo
	cache    cache.Cache
}

func NewProductService(products repository.ProductRepo, cache cache.Cache) *ProductService {
	return &ProductService{products: products, cache: cache}
}

func (s *ProductService) InsertProduct(
	c context.Context,
	param request.InsertProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService InsertProduct").
		Str(constants.KEY_PROCESS, "inserting product").
		Logger()

	logger.Info().Msg("inserting product")
	product, err := s.products.InsertProduct(c, repository.InsertProductParams{
		ID:            uuid.New(),
		Name:          param.Name,
		Description:   param.Description,
		Price:         repository.NewNumeric(*param.Price),
		Brand:         param.Brand,
		Category:      param.Category,
		StockQuantity: *param.StockQuantity,
		ImageUrl:      param.ImageUrl,
	})
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Str(constants.KEY_PRODUCT_ID, product.ID.String()).Msg("inserted product")

	return product.Response(), nil
}

func (s *ProductService) FindProducts(c context.Context) ([]response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	products, err := s.products.FindProducts(c)
	if err != nil {
		err = fmt.Errorf("failed finding products with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Int(constants.KEY_PRODUCTS, len(products)).Msg("found products")

	res := make([]response.Product, 0, len(products))
	for _, p := range products {
		res = append(res, p.Response())
	}
	return res, nil
}

func (s *ProductService) FindProductById(
	c context.Context,
	id uuid.UUID,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService FindProductById")
	defer span.End()

	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT, id.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService FindProductById").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in cache").Logger()
	logger.Trace().Msg("finding product in cache")
	cached := response.Product{}
	err := s.cache.Get(c, cacheKey, &cached)
	if err == nil {
		logger.Trace().Msg("found product in cache")
		return cached, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product in database").Logger()
	logger.Info().Msg("finding product in database")
	product, err := s.products.FindProductById(c, id)
	if repository.IsNotFound(err) {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, inErrors.ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product in database")

	res := product.Response()
	logger = logger.With().Str(constants.KEY_PROCESS, "caching product").Logger()
	logger.Trace().Msg("caching product")
	if err := s.cache.Set(c, cacheKey, res); err != nil {
		inOtel.RecordError(err, span)
		logger.Warn().Err(err).Msg(err.Error())
	} else {
		logger.Trace().Msg("cached product")
	}

	return res, nil
}

func (s *ProductService) UpdateProduct(
	c context.Context,
	id uuid.UUID,
	param request.UpdateProduct,
) (response.Product, error) {
	c, span := otel.Tracer.Start(c, "ProductService UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService UpdateProduct").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Logger()

	if param.Empty() {
		err := fmt.Errorf("failed updating productId=%s with error=%w", id, inErrors.ErrInvalidRequest)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "finding product").Logger()
	logger.Info().Msg("finding product")
	product, err := s.products.FindProductById(c, id)
	if repository.IsNotFound(err) {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, inErrors.ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed finding productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("found product")

	arg := repository.UpdateProductParams{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		Brand:         product.Brand,
		Category:      product.Category,
		StockQuantity: product.StockQuantity,
		ImageUrl:      product.ImageUrl,
	}
	if param.Name != nil {
		arg.Name = *param.Name
	}
	if param.Description != nil {
		arg.Description = *param.Description
	}
	if param.Price != nil {
		arg.Price = repository.NewNumeric(*param.Price)
	}
	if param.Brand != nil {
		arg.Brand = *param.Brand
	}
	if param.Category != nil {
		arg.Category = *param.Category
	}
	if param.StockQuantity != nil {
		arg.StockQuantity = *param.StockQuantity
	}
	if param.ImageUrl != nil {
		arg.ImageUrl = *param.ImageUrl
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msg("updating product")
	updated, err := s.products.UpdateProduct(c, arg)
	if repository.IsNotFound(err) {
		err = fmt.Errorf("failed updating productId=%s with error=%w", id, inErrors.ErrProductNotFound)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	if err != nil {
		err = fmt.Errorf("failed updating productId=%s with error=%w", id, err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Product{}, err
	}
	logger.Info().Msg("updated product")

	s.invalidate(c, id)

	return updated.Response(), nil
}

func (s *ProductService) DeleteProductById(c context.Context, id uuid.UUID) error {
	c, span := otel.Tracer.Start(c, "ProductService DeleteProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService DeleteProductById").
		Str(constants.KEY_PRODUCT_ID, id.String()).
		Str(constants.KEY_PROCESS, "deleting product").
		Logger()

	logger.Info().Msg("deleting product")
	_, err := s.products.DeleteProductById(c, id)
	switch {
	case err == nil:
	case repository.IsNotFound(err):
		err = fmt.Errorf("failed deleting productId=%s with error=%w", id, inErrors.ErrProductNotFound)
	case repository.IsForeignKeyViolation(err):
		err = fmt.Errorf("failed deleting productId=%s with error=%w", id, inErrors.ErrProductInUse)
	default:
		err = fmt.Errorf("failed deleting productId=%s with error=%w", id, err)
	}
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("deleted product")

	s.invalidate(c, id)

	return nil
}

func (s *ProductService) invalidate(c context.Context, id uuid.UUID) {
	cacheKey := fmt.Sprintf(cache.KEY_PRODUCT, id.String())
	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductService invalidate").
		Str(constants.KEY_CACHE_KEY, cacheKey).
		Logger()

	if err := s.cache.Del(c, cacheKey); err != nil {
		logger.Warn().Err(err).Msg(err.Error())
		return
	}
	logger.Trace().Msg("invalidated product cache")
}

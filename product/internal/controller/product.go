package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	inHttp "github.com/Alturino/storefront/internal/http"
	inOtel "github.com/Alturino/storefront/internal/otel"
	"github.com/Alturino/storefront/product/internal/otel"
	"github.com/Alturino/storefront/product/internal/service"
	"github.com/Alturino/storefront/product/pkg/request"
	"github.com/Alturino/storefront/product/pkg/response"
)

type ProductController struct {
	service *service.ProductService
}

func AttachProductController(router *mux.Router, service *service.ProductService) {
	controller := ProductController{service: service}

	r := router.PathPrefix("/products").Subrouter()
	r.HandleFunc("", controller.FindProducts).Methods(http.MethodGet)
	r.HandleFunc("", controller.InsertProduct).Methods(http.MethodPost)
	r.HandleFunc("/{productId}", controller.FindProductById).Methods(http.MethodGet)
	r.HandleFunc("/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	r.HandleFunc("/{productId}", controller.DeleteProduct).Methods(http.MethodDelete)
}

func (p ProductController) InsertProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController InsertProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.InsertProduct{}
	if err := inHttp.DecodeJson(r.WithContext(c), &reqBody); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	product, err := p.service.InsertProduct(logger.WithContext(c), reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("inserted product")

	inHttp.WriteJsonResponse(c, w, http.StatusCreated, response.InsertProduct{
		Message:   "Product created successfully",
		ProductID: product.ID,
	})
}

func (p ProductController) FindProducts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProducts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProducts").
		Str(constants.KEY_PROCESS, "finding products").
		Logger()

	logger.Info().Msg("finding products")
	products, err := p.service.FindProducts(logger.WithContext(c))
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found products")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, products)
}

func (p ProductController) FindProductById(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController FindProductById").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating productId").Logger()
	productId, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, productId.String()).
		Str(constants.KEY_PROCESS, "finding product").
		Logger()
	logger.Info().Msg("finding product")
	product, err := p.service.FindProductById(logger.WithContext(c), productId)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("found product")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, product)
}

func (p ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController UpdateProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating productId").Logger()
	productId, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger = logger.With().Str(constants.KEY_PRODUCT_ID, productId.String()).Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "decoding request body").Logger()
	logger.Trace().Msg("decoding request body")
	reqBody := request.UpdateProduct{}
	if err := inHttp.DecodeJson(r.WithContext(c), &reqBody); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Trace().Msg("decoded request body")

	logger = logger.With().Str(constants.KEY_PROCESS, "updating product").Logger()
	logger.Info().Msg("updating product")
	product, err := p.service.UpdateProduct(logger.WithContext(c), productId, reqBody)
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("updated product")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, response.UpdateProduct{
		Message: "Product updated successfully",
		Product: product,
	})
}

func (p ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "ProductController DeleteProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "ProductController DeleteProduct").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "validating productId").Logger()
	productId, err := inHttp.PathUUID(r, "productId")
	if err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	logger = logger.With().
		Str(constants.KEY_PRODUCT_ID, productId.String()).
		Str(constants.KEY_PROCESS, "deleting product").
		Logger()
	logger.Info().Msg("deleting product")
	if err := p.service.DeleteProductById(logger.WithContext(c), productId); err != nil {
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}
	logger.Info().Msg("deleted product")

	inHttp.WriteJsonResponse(c, w, http.StatusOK, inHttp.MessageResponse{
		Message: "Product deleted successfully",
	})
}

package constants

const (
	APP_STOREFRONT      = "storefront"
	APP_API_SERVICE     = "storefront-api"
	APP_MIGRATION       = "storefront-migration"
	APP_CART_SERVICE    = "cart-service"
	APP_ORDER_SERVICE   = "order-service"
	APP_PRODUCT_SERVICE = "product-service"
	APP_USER_SERVICE    = "user-service"
	AUDIENCE_USER       = "audience-user"
)

const (
	ENV_DEVELOPMENT = "development"
	ENV_PRODUCTION  = "production"
)

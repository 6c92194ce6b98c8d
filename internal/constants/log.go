package constants

const (
	KEY_APP_NAME       = "app"
	KEY_BODY           = "body"
	KEY_CACHE_KEY      = "cacheKey"
	KEY_CART           = "cart"
	KEY_CART_ID        = "cartId"
	KEY_CART_ITEM      = "cartItem"
	KEY_CART_ITEMS     = "cartItems"
	KEY_CART_ITEM_ID   = "cartItemId"
	KEY_CONCURRENCY    = "concurrency"
	KEY_CONFIG         = "config"
	KEY_DB_URL         = "dbUrl"
	KEY_EMAIL          = "email"
	KEY_HEADER         = "header"
	KEY_ORDER          = "order"
	KEY_ORDERS         = "orders"
	KEY_ORDER_DETAILS  = "orderDetails"
	KEY_ORDER_ID       = "orderId"
	KEY_ORDER_STATUS   = "orderStatus"
	KEY_PROCESS        = "process"
	KEY_PRODUCT        = "product"
	KEY_PRODUCTS       = "products"
	KEY_PRODUCT_ID     = "productId"
	KEY_QUANTITY       = "quantity"
	KEY_REQUEST        = "request"
	KEY_REQUEST_BODY   = "requestBody"
	KEY_REQUEST_HOST   = "host"
	KEY_REQUEST_ID     = "requestId"
	KEY_REQUEST_IP     = "requesterIp"
	KEY_REQUEST_METHOD = "requestMethod"
	KEY_REQUEST_URI    = "requestUri"
	KEY_REQUEST_URL    = "requestUrl"
	KEY_RETRY          = "retry"
	KEY_SPAN_ID        = "spanId"
	KEY_STATUS_CODE    = "statusCode"
	KEY_TAG            = "tag"
	KEY_TOKEN          = "token"
	KEY_TOTAL_AMOUNT   = "totalAmount"
	KEY_TRACE_ID       = "traceId"
	KEY_USER_ID        = "userId"
)

package repository

import (
	"context"

	"github.com/google/uuid"
)

type UserRepo interface {
	InsertUser(c context.Context, arg InsertUserParams) (User, error)
	FindUserByEmail(c context.Context, email string) (User, error)
	FindUserById(c context.Context, id uuid.UUID) (User, error)
}

type ProductRepo interface {
	InsertProduct(c context.Context, arg InsertProductParams) (Product, error)
	FindProducts(c context.Context) ([]Product, error)
	FindProductById(c context.Context, id uuid.UUID) (Product, error)
	FindProductsByIds(c context.Context, ids []uuid.UUID) ([]Product, error)
	UpdateProduct(c context.Context, arg UpdateProductParams) (Product, error)
	DeleteProductById(c context.Context, id uuid.UUID) (Product, error)
}

type CartRepo interface {
	UpsertCart(c context.Context, arg UpsertCartParams) (Cart, error)
	FindCartById(c context.Context, id uuid.UUID) (Cart, error)
	FindCartByUserId(c context.Context, userID uuid.UUID) (Cart, error)
	FindCartByUserIdForUpdate(c context.Context, userID uuid.UUID) (Cart, error)
	FindCartItem(c context.Context, arg FindCartItemParams) (CartItem, error)
	FindCartItemForUpdate(c context.Context, arg FindCartItemParams) (CartItem, error)
	FindCartItemsByCartIdForUpdate(c context.Context, cartID uuid.UUID) ([]CartItem, error)
	FindCartItemViewsByUserId(
		c context.Context,
		userID uuid.UUID,
	) ([]FindCartItemViewsByUserIdRow, error)
	IncrementCartItem(c context.Context, arg IncrementCartItemParams) (CartItem, error)
	InsertCartItem(c context.Context, arg InsertCartItemParams) (CartItem, error)
	UpdateCartItemQuantity(c context.Context, arg UpdateCartItemQuantityParams) (CartItem, error)
	DeleteCartItem(c context.Context, arg DeleteCartItemParams) (int64, error)
	DeleteCartItemsByCartId(c context.Context, cartID uuid.UUID) (int64, error)
}

type OrderRepo interface {
	InsertOrder(c context.Context, arg InsertOrderParams) (Order, error)
	InsertOrderDetails(c context.Context, arg []InsertOrderDetailsParams) (int64, error)
	FindOrderById(c context.Context, id uuid.UUID) (Order, error)
	FindOrdersByUserId(c context.Context, userID uuid.UUID) ([]Order, error)
	FindOrderDetailsByOrderId(c context.Context, orderID uuid.UUID) ([]OrderDetail, error)
	UpdateOrderStatus(c context.Context, arg UpdateOrderStatusParams) (Order, error)
}

type Querier interface {
	UserRepo
	ProductRepo
	CartRepo
	OrderRepo
}

var _ Querier = (*Queries)(nil)

package memory

import (
	"context"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Alturino/storefront/internal/repository"
)

// Store keeps every table in process memory. It reports failures with the
// same errors the postgres driver would, so callers classify them through
// the repository helpers regardless of the backing store.
type Store struct {
	*queries
	mu sync.Mutex
}

var _ repository.Store = (*Store)(nil)

func NewStore() *Store {
	s := &Store{}
	s.queries = &queries{mu: &s.mu, st: &state{}}
	return s
}

// ExecTx runs fn against a private copy of the tables and publishes the copy
// only when fn succeeds. Transactions are serialized.
func (s *Store) ExecTx(c context.Context, fn func(repository.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := c.Err(); err != nil {
		return err
	}

	tx := &queries{st: s.st.clone()}
	if err := fn(tx); err != nil {
		return err
	}
	s.st = tx.st
	return nil
}

type state struct {
	users        []repository.User
	products     []repository.Product
	carts        []repository.Cart
	cartItems    []repository.CartItem
	orders       []repository.Order
	orderDetails []repository.OrderDetail
}

func (s *state) clone() *state {
	return &state{
		users:        slices.Clone(s.users),
		products:     slices.Clone(s.products),
		carts:        slices.Clone(s.carts),
		cartItems:    slices.Clone(s.cartItems),
		orders:       slices.Clone(s.orders),
		orderDetails: slices.Clone(s.orderDetails),
	}
}

type queries struct {
	mu *sync.Mutex
	st *state
}

var _ repository.Querier = (*queries)(nil)

func (q *queries) lock() func() {
	if q.mu == nil {
		return func() {}
	}
	q.mu.Lock()
	return q.mu.Unlock
}

func now() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now(), Valid: true}
}

func violation(code, constraint string) error {
	return &pgconn.PgError{Severity: "ERROR", Code: code, ConstraintName: constraint}
}

func index[T any](items []T, match func(T) bool) int {
	return slices.IndexFunc(items, match)
}

func (q *queries) InsertUser(
	c context.Context,
	arg repository.InsertUserParams,
) (repository.User, error) {
	defer q.lock()()
	if index(q.st.users, func(u repository.User) bool { return u.Email == arg.Email }) >= 0 {
		return repository.User{}, violation(repository.CodeUniqueViolation, "users_email_key")
	}
	user := repository.User{
		ID:        arg.ID,
		Username:  arg.Username,
		Email:     arg.Email,
		Password:  arg.Password,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	q.st.users = append(q.st.users, user)
	return user, nil
}

func (q *queries) FindUserByEmail(c context.Context, email string) (repository.User, error) {
	defer q.lock()()
	i := index(q.st.users, func(u repository.User) bool { return u.Email == email })
	if i < 0 {
		return repository.User{}, pgx.ErrNoRows
	}
	return q.st.users[i], nil
}

func (q *queries) FindUserById(c context.Context, id uuid.UUID) (repository.User, error) {
	defer q.lock()()
	i := q.userIndex(id)
	if i < 0 {
		return repository.User{}, pgx.ErrNoRows
	}
	return q.st.users[i], nil
}

func (q *queries) userIndex(id uuid.UUID) int {
	return index(q.st.users, func(u repository.User) bool { return u.ID == id })
}

func (q *queries) productIndex(id uuid.UUID) int {
	return index(q.st.products, func(p repository.Product) bool { return p.ID == id })
}

func (q *queries) InsertProduct(
	c context.Context,
	arg repository.InsertProductParams,
) (repository.Product, error) {
	defer q.lock()()
	if q.productIndex(arg.ID) >= 0 {
		return repository.Product{}, violation(repository.CodeUniqueViolation, "products_pkey")
	}
	product := repository.Product{
		ID:            arg.ID,
		Name:          arg.Name,
		Description:   arg.Description,
		Price:         arg.Price,
		Brand:         arg.Brand,
		Category:      arg.Category,
		StockQuantity: arg.StockQuantity,
		ImageUrl:      arg.ImageUrl,
		CreatedAt:     now(),
		UpdatedAt:     now(),
	}
	q.st.products = append(q.st.products, product)
	return product, nil
}

func (q *queries) FindProducts(c context.Context) ([]repository.Product, error) {
	defer q.lock()()
	products := slices.Clone(q.st.products)
	slices.SortFunc(products, func(a, b repository.Product) int {
		if n := strings.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	if products == nil {
		products = []repository.Product{}
	}
	return products, nil
}

func (q *queries) FindProductById(c context.Context, id uuid.UUID) (repository.Product, error) {
	defer q.lock()()
	i := q.productIndex(id)
	if i < 0 {
		return repository.Product{}, pgx.ErrNoRows
	}
	return q.st.products[i], nil
}

func (q *queries) FindProductsByIds(
	c context.Context,
	ids []uuid.UUID,
) ([]repository.Product, error) {
	defer q.lock()()
	products := []repository.Product{}
	for _, p := range q.st.products {
		if slices.Contains(ids, p.ID) {
			products = append(products, p)
		}
	}
	return products, nil
}

func (q *queries) UpdateProduct(
	c context.Context,
	arg repository.UpdateProductParams,
) (repository.Product, error) {
	defer q.lock()()
	i := q.productIndex(arg.ID)
	if i < 0 {
		return repository.Product{}, pgx.ErrNoRows
	}
	p := &q.st.products[i]
	p.Name = arg.Name
	p.Description = arg.Description
	p.Price = arg.Price
	p.Brand = arg.Brand
	p.Category = arg.Category
	p.StockQuantity = arg.StockQuantity
	p.ImageUrl = arg.ImageUrl
	p.UpdatedAt = now()
	return *p, nil
}

func (q *queries) DeleteProductById(c context.Context, id uuid.UUID) (repository.Product, error) {
	defer q.lock()()
	i := q.productIndex(id)
	if i < 0 {
		return repository.Product{}, pgx.ErrNoRows
	}
	referenced := index(q.st.orderDetails, func(d repository.OrderDetail) bool {
		return d.ProductID == id
	})
	if referenced >= 0 {
		return repository.Product{}, violation(
			repository.CodeForeignKeyViolation,
			"order_details_product_id_fkey",
		)
	}
	product := q.st.products[i]
	q.st.products = slices.Delete(q.st.products, i, i+1)
	q.st.cartItems = slices.DeleteFunc(q.st.cartItems, func(ci repository.CartItem) bool {
		return ci.ProductID == id
	})
	return product, nil
}

func (q *queries) cartIndex(match func(repository.Cart) bool) int {
	return index(q.st.carts, match)
}

func (q *queries) UpsertCart(
	c context.Context,
	arg repository.UpsertCartParams,
) (repository.Cart, error) {
	defer q.lock()()
	i := q.cartIndex(func(cart repository.Cart) bool { return cart.UserID == arg.UserID })
	if i >= 0 {
		q.st.carts[i].UpdatedAt = now()
		return q.st.carts[i], nil
	}
	if q.userIndex(arg.UserID) < 0 {
		return repository.Cart{}, violation(
			repository.CodeForeignKeyViolation,
			"carts_user_id_fkey",
		)
	}
	cart := repository.Cart{ID: arg.ID, UserID: arg.UserID, CreatedAt: now(), UpdatedAt: now()}
	q.st.carts = append(q.st.carts, cart)
	return cart, nil
}

func (q *queries) FindCartById(c context.Context, id uuid.UUID) (repository.Cart, error) {
	defer q.lock()()
	i := q.cartIndex(func(cart repository.Cart) bool { return cart.ID == id })
	if i < 0 {
		return repository.Cart{}, pgx.ErrNoRows
	}
	return q.st.carts[i], nil
}

func (q *queries) FindCartByUserId(c context.Context, userID uuid.UUID) (repository.Cart, error) {
	defer q.lock()()
	i := q.cartIndex(func(cart repository.Cart) bool { return cart.UserID == userID })
	if i < 0 {
		return repository.Cart{}, pgx.ErrNoRows
	}
	return q.st.carts[i], nil
}

// FindCartByUserIdForUpdate needs no row lock here since ExecTx already
// serializes every transaction.
func (q *queries) FindCartByUserIdForUpdate(
	c context.Context,
	userID uuid.UUID,
) (repository.Cart, error) {
	return q.FindCartByUserId(c, userID)
}

func (q *queries) cartItemIndex(cartID, productID uuid.UUID) int {
	return index(q.st.cartItems, func(ci repository.CartItem) bool {
		return ci.CartID == cartID && ci.ProductID == productID
	})
}

func (q *queries) FindCartItem(
	c context.Context,
	arg repository.FindCartItemParams,
) (repository.CartItem, error) {
	defer q.lock()()
	i := q.cartItemIndex(arg.CartID, arg.ProductID)
	if i < 0 {
		return repository.CartItem{}, pgx.ErrNoRows
	}
	return q.st.cartItems[i], nil
}

func (q *queries) FindCartItemForUpdate(
	c context.Context,
	arg repository.FindCartItemParams,
) (repository.CartItem, error) {
	return q.FindCartItem(c, arg)
}

func (q *queries) FindCartItemsByCartIdForUpdate(
	c context.Context,
	cartID uuid.UUID,
) ([]repository.CartItem, error) {
	defer q.lock()()
	items := []repository.CartItem{}
	for _, ci := range q.st.cartItems {
		if ci.CartID == cartID {
			items = append(items, ci)
		}
	}
	return items, nil
}

func (q *queries) FindCartItemViewsByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]repository.FindCartItemViewsByUserIdRow, error) {
	defer q.lock()()
	rows := []repository.FindCartItemViewsByUserIdRow{}
	i := q.cartIndex(func(cart repository.Cart) bool { return cart.UserID == userID })
	if i < 0 {
		return rows, nil
	}
	cart := q.st.carts[i]
	for _, ci := range q.st.cartItems {
		if ci.CartID != cart.ID {
			continue
		}
		p := q.productIndex(ci.ProductID)
		if p < 0 {
			continue
		}
		product := q.st.products[p]
		rows = append(rows, repository.FindCartItemViewsByUserIdRow{
			CartItemID:   ci.ID,
			CartID:       cart.ID,
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductImage: product.ImageUrl,
			Quantity:     ci.Quantity,
			Price:        product.Price,
		})
	}
	return rows, nil
}

func (q *queries) checkCartItemRefs(cartID, productID uuid.UUID, quantity int32) error {
	if quantity <= 0 {
		return violation(repository.CodeCheckViolation, "cart_items_quantity_check")
	}
	if q.cartIndex(func(cart repository.Cart) bool { return cart.ID == cartID }) < 0 {
		return violation(repository.CodeForeignKeyViolation, "cart_items_cart_id_fkey")
	}
	if q.productIndex(productID) < 0 {
		return violation(repository.CodeForeignKeyViolation, "cart_items_product_id_fkey")
	}
	return nil
}

func (q *queries) IncrementCartItem(
	c context.Context,
	arg repository.IncrementCartItemParams,
) (repository.CartItem, error) {
	defer q.lock()()
	if err := q.checkCartItemRefs(arg.CartID, arg.ProductID, arg.Quantity); err != nil {
		return repository.CartItem{}, err
	}
	if i := q.cartItemIndex(arg.CartID, arg.ProductID); i >= 0 {
		ci := &q.st.cartItems[i]
		if ci.Quantity > math.MaxInt32-arg.Quantity {
			return repository.CartItem{}, violation(repository.CodeNumericValueOutOfRange, "")
		}
		ci.Quantity += arg.Quantity
		ci.Version++
		ci.UpdatedAt = now()
		return *ci, nil
	}
	item := repository.CartItem{
		ID:        arg.ID,
		CartID:    arg.CartID,
		ProductID: arg.ProductID,
		Quantity:  arg.Quantity,
		Version:   1,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	q.st.cartItems = append(q.st.cartItems, item)
	return item, nil
}

func (q *queries) InsertCartItem(
	c context.Context,
	arg repository.InsertCartItemParams,
) (repository.CartItem, error) {
	defer q.lock()()
	if err := q.checkCartItemRefs(arg.CartID, arg.ProductID, arg.Quantity); err != nil {
		return repository.CartItem{}, err
	}
	if q.cartItemIndex(arg.CartID, arg.ProductID) >= 0 {
		return repository.CartItem{}, pgx.ErrNoRows
	}
	item := repository.CartItem{
		ID:        arg.ID,
		CartID:    arg.CartID,
		ProductID: arg.ProductID,
		Quantity:  arg.Quantity,
		Version:   1,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	q.st.cartItems = append(q.st.cartItems, item)
	return item, nil
}

func (q *queries) UpdateCartItemQuantity(
	c context.Context,
	arg repository.UpdateCartItemQuantityParams,
) (repository.CartItem, error) {
	defer q.lock()()
	i := index(q.st.cartItems, func(ci repository.CartItem) bool {
		return ci.ID == arg.ID && ci.Version == arg.Version
	})
	if i < 0 {
		return repository.CartItem{}, pgx.ErrNoRows
	}
	if arg.Quantity <= 0 {
		return repository.CartItem{}, violation(
			repository.CodeCheckViolation,
			"cart_items_quantity_check",
		)
	}
	ci := &q.st.cartItems[i]
	ci.Quantity = arg.Quantity
	ci.Version++
	ci.UpdatedAt = now()
	return *ci, nil
}

func (q *queries) DeleteCartItem(
	c context.Context,
	arg repository.DeleteCartItemParams,
) (int64, error) {
	defer q.lock()()
	before := len(q.st.cartItems)
	q.st.cartItems = slices.DeleteFunc(q.st.cartItems, func(ci repository.CartItem) bool {
		return ci.ID == arg.ID && ci.Version == arg.Version
	})
	return int64(before - len(q.st.cartItems)), nil
}

func (q *queries) DeleteCartItemsByCartId(c context.Context, cartID uuid.UUID) (int64, error) {
	defer q.lock()()
	before := len(q.st.cartItems)
	q.st.cartItems = slices.DeleteFunc(q.st.cartItems, func(ci repository.CartItem) bool {
		return ci.CartID == cartID
	})
	return int64(before - len(q.st.cartItems)), nil
}

func (q *queries) orderIndex(id uuid.UUID) int {
	return index(q.st.orders, func(o repository.Order) bool { return o.ID == id })
}

func (q *queries) InsertOrder(
	c context.Context,
	arg repository.InsertOrderParams,
) (repository.Order, error) {
	defer q.lock()()
	if q.userIndex(arg.UserID) < 0 {
		return repository.Order{}, violation(
			repository.CodeForeignKeyViolation,
			"orders_user_id_fkey",
		)
	}
	order := repository.Order{
		ID:          arg.ID,
		UserID:      arg.UserID,
		Status:      arg.Status,
		TotalAmount: arg.TotalAmount,
		CreatedAt:   now(),
		UpdatedAt:   now(),
	}
	q.st.orders = append(q.st.orders, order)
	return order, nil
}

func (q *queries) InsertOrderDetails(
	c context.Context,
	arg []repository.InsertOrderDetailsParams,
) (int64, error) {
	defer q.lock()()
	details := make([]repository.OrderDetail, 0, len(arg))
	for _, d := range arg {
		if q.orderIndex(d.OrderID) < 0 {
			return 0, violation(
				repository.CodeForeignKeyViolation,
				"order_details_order_id_fkey",
			)
		}
		if q.productIndex(d.ProductID) < 0 {
			return 0, violation(
				repository.CodeForeignKeyViolation,
				"order_details_product_id_fkey",
			)
		}
		details = append(details, repository.OrderDetail{
			ID:        d.ID,
			OrderID:   d.OrderID,
			ProductID: d.ProductID,
			Quantity:  d.Quantity,
			UnitPrice: d.UnitPrice,
			CreatedAt: now(),
		})
	}
	q.st.orderDetails = append(q.st.orderDetails, details...)
	return int64(len(details)), nil
}

func (q *queries) FindOrderById(c context.Context, id uuid.UUID) (repository.Order, error) {
	defer q.lock()()
	i := q.orderIndex(id)
	if i < 0 {
		return repository.Order{}, pgx.ErrNoRows
	}
	return q.st.orders[i], nil
}

func (q *queries) FindOrdersByUserId(
	c context.Context,
	userID uuid.UUID,
) ([]repository.Order, error) {
	defer q.lock()()
	orders := []repository.Order{}
	for i := len(q.st.orders) - 1; i >= 0; i-- {
		if q.st.orders[i].UserID == userID {
			orders = append(orders, q.st.orders[i])
		}
	}
	return orders, nil
}

func (q *queries) FindOrderDetailsByOrderId(
	c context.Context,
	orderID uuid.UUID,
) ([]repository.OrderDetail, error) {
	defer q.lock()()
	details := []repository.OrderDetail{}
	for _, d := range q.st.orderDetails {
		if d.OrderID == orderID {
			details = append(details, d)
		}
	}
	return details, nil
}

func (q *queries) UpdateOrderStatus(
	c context.Context,
	arg repository.UpdateOrderStatusParams,
) (repository.Order, error) {
	defer q.lock()()
	i := index(q.st.orders, func(o repository.Order) bool {
		return o.ID == arg.ID && o.Status == arg.FromStatus
	})
	if i < 0 {
		return repository.Order{}, pgx.ErrNoRows
	}
	o := &q.st.orders[i]
	o.Status = arg.ToStatus
	o.UpdatedAt = now()
	return *o, nil
}

package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plateup/ordering-api/internal/domain/catalog"
	"github.com/plateup/ordering-api/internal/domain/identity"
)

// --- Mock implementations ---

type mockRestaurantRepo struct {
	byID map[int64]*catalog.Restaurant
}

func newRestaurantRepo(restaurants ...catalog.Restaurant) *mockRestaurantRepo {
	byID := make(map[int64]*catalog.Restaurant, len(restaurants))
	for i := range restaurants {
		byID[restaurants[i].ID] = &restaurants[i]
	}
	return &mockRestaurantRepo{byID: byID}
}

func (m *mockRestaurantRepo) GetByID(_ context.Context, id int64) (*catalog.Restaurant, error) {
	r, ok := m.byID[id]
	if !ok {
		return nil, catalog.ErrRestaurantNotFound
	}
	return r, nil
}

func (m *mockRestaurantRepo) ListActive(_ context.Context) ([]catalog.Restaurant, error) {
	return nil, nil
}

func (m *mockRestaurantRepo) ListByOwner(_ context.Context, _ string) ([]catalog.Restaurant, error) {
	return nil, nil
}

func (m *mockRestaurantRepo) Create(_ context.Context, _ *catalog.Restaurant) error { return nil }
func (m *mockRestaurantRepo) Update(_ context.Context, _ *catalog.Restaurant) error { return nil }

// mockOrderRepo mimics the repository contract in memory: Create resolves
// lines against a configured menu, snapshots prices, and stores nothing when
// any line fails.
type mockOrderRepo struct {
	restaurants *mockRestaurantRepo
	menu        map[int64]catalog.MenuItem
	orders      map[int64]*Order
	nextID      int64
	createErr   error
}

func newOrderRepo(restaurants *mockRestaurantRepo, items ...catalog.MenuItem) *mockOrderRepo {
	menu := make(map[int64]catalog.MenuItem, len(items))
	for _, item := range items {
		menu[item.ID] = item
	}
	return &mockOrderRepo{
		restaurants: restaurants,
		menu:        menu,
		orders:      make(map[int64]*Order),
		nextID:      1,
	}
}

func (m *mockOrderRepo) Create(_ context.Context, d Draft) (*Order, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}

	lines := make([]Line, 0, len(d.Lines))
	total := decimal.Zero
	for _, req := range d.Lines {
		item, ok := m.menu[req.MenuItemID]
		if !ok || item.RestaurantID != d.RestaurantID {
			return nil, &MenuItemNotFoundError{MenuItemID: req.MenuItemID}
		}
		lines = append(lines, Line{
			ID:         int64(len(lines) + 1),
			MenuItemID: item.ID,
			Name:       item.Name,
			Quantity:   req.Quantity,
			Price:      item.Price,
		})
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(req.Quantity))))
	}

	restaurant := m.restaurants.byID[d.RestaurantID]
	o := &Order{
		ID:       m.nextID,
		Customer: CustomerSummary{ID: d.CustomerID},
		Restaurant: RestaurantSummary{
			ID:      restaurant.ID,
			OwnerID: restaurant.OwnerID,
			Name:    restaurant.Name,
		},
		Status: StatusPending,
		Total:  total,
		Notes:  d.Notes,
		Lines:  lines,
	}
	m.nextID++
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]Order, error) {
	return m.collect(func(*Order) bool { return true }), nil
}

func (m *mockOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]Order, error) {
	return m.collect(func(o *Order) bool { return o.Customer.ID == customerID }), nil
}

func (m *mockOrderRepo) ListByRestaurantOwner(_ context.Context, ownerID string) ([]Order, error) {
	return m.collect(func(o *Order) bool { return o.Restaurant.OwnerID == ownerID }), nil
}

func (m *mockOrderRepo) collect(keep func(*Order) bool) []Order {
	var out []Order
	for id := int64(1); id < m.nextID; id++ {
		if o, ok := m.orders[id]; ok && keep(o) {
			out = append(out, *o)
		}
	}
	return out
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id int64, from, to Status) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	if o.Status != from {
		return nil, ErrStatusConflict
	}
	o.Status = to
	return o, nil
}

// --- Helpers ---

var (
	admin    = identity.Principal{ID: "admin-1", Role: identity.RoleAdmin}
	owner    = identity.Principal{ID: "owner-1", Role: identity.RoleRestaurantOwner}
	customer = identity.Principal{ID: "cust-1", Role: identity.RoleCustomer}
)

func menuItem(id, restaurantID int64, name, price string) catalog.MenuItem {
	return catalog.MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		Available:    true,
	}
}

// newTestService builds a service over restaurant 1 (owner-1) with items
// A=$5.00 (id 10) and B=$3.50 (id 11), and restaurant 2 (owner-2) with
// item C=$7.25 (id 20).
func newTestService() (*Service, *mockOrderRepo) {
	restaurants := newRestaurantRepo(
		catalog.Restaurant{ID: 1, OwnerID: "owner-1", Name: "R", Active: true},
		catalog.Restaurant{ID: 2, OwnerID: "owner-2", Name: "R2", Active: true},
	)
	orders := newOrderRepo(restaurants,
		menuItem(10, 1, "A", "5.00"),
		menuItem(11, 1, "B", "3.50"),
		menuItem(20, 2, "C", "7.25"),
	)
	return NewService(restaurants, orders), orders
}

// --- Tests ---

func TestCreate_ComputesTotalFromSnapshots(t *testing.T) {
	svc, _ := newTestService()

	o, err := svc.Create(context.Background(), customer, CreateRequest{
		RestaurantID: 1,
		Lines: []LineRequest{
			{MenuItemID: 10, Quantity: 2},
			{MenuItemID: 11, Quantity: 1},
		},
		Notes: "no onions",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.True(t, decimal.RequireFromString("13.50").Equal(o.Total))
	require.Len(t, o.Lines, 2)
	assert.Equal(t, "A", o.Lines[0].Name)
	assert.Equal(t, 2, o.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("5.00").Equal(o.Lines[0].Price))
	assert.Equal(t, "B", o.Lines[1].Name)
	assert.Equal(t, 1, o.Lines[1].Quantity)
	assert.True(t, decimal.RequireFromString("3.50").Equal(o.Lines[1].Price))
	assert.Equal(t, "no onions", o.Notes)

	// Total always equals the sum of line price x quantity.
	sum := decimal.Zero
	for _, line := range o.Lines {
		sum = sum.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	assert.True(t, sum.Equal(o.Total))
}

func TestCreate_DuplicateItemsStayDistinctLines(t *testing.T) {
	svc, _ := newTestService()

	o, err := svc.Create(context.Background(), customer, CreateRequest{
		RestaurantID: 1,
		Lines: []LineRequest{
			{MenuItemID: 10, Quantity: 1},
			{MenuItemID: 10, Quantity: 3},
		},
	})

	require.NoError(t, err)
	require.Len(t, o.Lines, 2)
	assert.Equal(t, 1, o.Lines[0].Quantity)
	assert.Equal(t, 3, o.Lines[1].Quantity)
	assert.True(t, decimal.RequireFromString("20.00").Equal(o.Total))
}

func TestCreate_RestaurantNotFound(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), customer, CreateRequest{
		RestaurantID: 99,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})

	require.ErrorIs(t, err, catalog.ErrRestaurantNotFound)
	assert.Empty(t, repo.orders)
}

func TestCreate_ForeignMenuItemAbortsWholeOrder(t *testing.T) {
	svc, repo := newTestService()

	// Item 20 belongs to restaurant 2; the entire creation must fail and
	// nothing may persist.
	_, err := svc.Create(context.Background(), customer, CreateRequest{
		RestaurantID: 1,
		Lines: []LineRequest{
			{MenuItemID: 10, Quantity: 2},
			{MenuItemID: 20, Quantity: 1},
		},
	})

	var nfErr *MenuItemNotFoundError
	require.ErrorAs(t, err, &nfErr)
	assert.Equal(t, int64(20), nfErr.MenuItemID)
	assert.Empty(t, repo.orders)
}

func TestCreate_EmptyLines(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), customer, CreateRequest{RestaurantID: 1})
	require.ErrorIs(t, err, ErrEmptyLines)
}

func TestCreate_InvalidQuantity(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 0}},
	})

	var iqErr *InvalidQuantityError
	require.ErrorAs(t, err, &iqErr)
	assert.Equal(t, int64(10), iqErr.MenuItemID)
	assert.Empty(t, repo.orders)
}

func TestList_ScopedByRole(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	otherCustomer := identity.Principal{ID: "cust-2", Role: identity.RoleCustomer}

	_, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, otherCustomer, CreateRequest{
		RestaurantID: 2,
		Lines:        []LineRequest{{MenuItemID: 20, Quantity: 1}},
	})
	require.NoError(t, err)

	all, err := svc.List(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	owned, err := svc.List(ctx, owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, int64(1), owned[0].Restaurant.ID)

	mine, err := svc.List(ctx, customer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "cust-1", mine[0].Customer.ID)
}

func TestGet_OutOfScopeIsNotFound(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	stranger := identity.Principal{ID: "cust-2", Role: identity.RoleCustomer}
	_, err = svc.Get(ctx, stranger, o.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	got, err := svc.Get(ctx, owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)
}

func TestConfirm_ByCustomerIsForbidden(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, customer, o.ID)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestLifecycle_ConfirmCompleteThenTerminal(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(ctx, owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	completed, err := svc.Complete(ctx, owner, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)

	var itErr *InvalidTransitionError
	_, err = svc.Confirm(ctx, owner, o.ID)
	require.ErrorAs(t, err, &itErr)
	_, err = svc.Complete(ctx, admin, o.ID)
	require.ErrorAs(t, err, &itErr)
	_, err = svc.Cancel(ctx, customer, o.ID)
	require.ErrorAs(t, err, &itErr)
}

func TestCancel_FromPendingAndConfirmed(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, customer, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	second, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 11, Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(ctx, owner, second.ID)
	require.NoError(t, err)

	cancelled, err = svc.Cancel(ctx, owner, second.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
}

func TestTransition_ConcurrentStatusChange(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	o, err := svc.Create(ctx, customer, CreateRequest{
		RestaurantID: 1,
		Lines:        []LineRequest{{MenuItemID: 10, Quantity: 1}},
	})
	require.NoError(t, err)

	// A transition committed between another actor's load and write must
	// make the stale compare-and-set fail rather than overwrite.
	_, err = repo.UpdateStatus(ctx, o.ID, StatusPending, StatusConfirmed)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, o.ID, StatusPending, StatusCancelled)
	require.ErrorIs(t, err, ErrStatusConflict)
}

//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListRestaurants(t *testing.T) {
	resp := doGetWithKey(t, "/api/restaurants", customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	restaurants := decodeJSON[[]restaurantResponse](t, resp)
	if len(restaurants) != 2 {
		t.Fatalf("restaurants: got %d, want 2", len(restaurants))
	}
	for _, r := range restaurants {
		if !r.Active {
			t.Errorf("customer listing included inactive restaurant %d", r.ID)
		}
	}
}

func TestListMenuItems_ScopedByRestaurant(t *testing.T) {
	restaurantID, items := seededMenu(t)

	for _, item := range items {
		if item.RestaurantID != restaurantID {
			t.Errorf("item %d belongs to restaurant %d, want %d", item.ID, item.RestaurantID, restaurantID)
		}
		if !item.Available {
			t.Errorf("customer listing included unavailable item %d", item.ID)
		}
	}
}

func TestCreateRestaurant_CustomerForbidden(t *testing.T) {
	body := map[string]any{"name": "Popup Kitchen"}
	resp := doPostWithKey(t, "/api/restaurants", body, customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestMe(t *testing.T) {
	resp := doGetWithKey(t, "/api/me", ownerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[struct {
		PrincipalID string `json:"principalId"`
		Role        string `json:"role"`
	}](t, resp)

	if body.PrincipalID != "demo-owner" {
		t.Errorf("principal: got %q, want demo-owner", body.PrincipalID)
	}
	if body.Role != "RESTAURANT_OWNER" {
		t.Errorf("role: got %q, want RESTAURANT_OWNER", body.Role)
	}
}

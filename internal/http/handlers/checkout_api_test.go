package handlers_test

import (
	"strings"
	"testing"
)

const goodDetails = `{
  "fullName": "Jordan Fan",
  "email": "jordan@fan.test",
  "address": {"line1": "12 Encore Ave", "city": "Atlanta", "state": "GA",
              "postalCode": "30301", "country": "US"}
}`

func TestCheckoutAPI_DetailsValidation(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":1,"quantity":1}`))
	if err != nil {
		t.Fatal(err)
	}
	sid := sidCookie(resp)

	bad := strings.Replace(goodDetails, "jordan@fan.test", "not-an-email", 1)
	resp, err = app.Test(jsonReq("POST", "/api/checkout/details", bad, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for bad email, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	fieldErrs, ok := body["errors"].(map[string]any)
	if !ok || fieldErrs["email"] == nil {
		t.Fatalf("want field-level email error, got %v", body)
	}
}

func TestCheckoutAPI_EmptyCartAborts(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/checkout/details", goodDetails))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 409 {
		t.Fatalf("want 409 on empty cart, got %d", resp.StatusCode)
	}
	if r := decodeBody(t, resp)["redirect"]; r != "/cart" {
		t.Fatalf("want redirect away from checkout, got %v", r)
	}
}

func TestCheckoutAPI_DemoModeEndToEnd(t *testing.T) {
	app, db := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/cart/items", `{"productId":4,"quantity":2}`))
	if err != nil {
		t.Fatal(err)
	}
	sid := sidCookie(resp)

	resp, err = app.Test(jsonReq("POST", "/api/checkout/details", goodDetails, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200 entering payment, got %d", resp.StatusCode)
	}
	if cs := decodeBody(t, resp)["clientSecret"].(string); !strings.HasPrefix(cs, "demo_secret_") {
		t.Fatalf("want demo intent without a provider key, got %q", cs)
	}

	// demo confirmation simulates processing, then succeeds
	resp, err = app.Test(jsonReq("POST", "/api/checkout/confirm", "", sid), 10000)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200 confirming, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	orderID, _ := body["orderId"].(string)
	if orderID == "" {
		t.Fatalf("no order id in %v", body)
	}

	// success cleared the cart
	resp, err = app.Test(jsonReq("GET", "/api/cart", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if n := decodeBody(t, resp)["totalItemCount"].(float64); n != 0 {
		t.Fatalf("cart must be empty after success, got %v items", n)
	}

	// and the order is readable by its owner session only
	resp, err = app.Test(jsonReq("GET", "/api/orders/"+orderID, "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("owner lookup failed: %d", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq("GET", "/api/orders/"+orderID, ""))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("foreign session must get 404, got %d", resp.StatusCode)
	}

	var totalMinor int64
	if err := db.Get(&totalMinor, `SELECT total_minor FROM orders WHERE id=?`, orderID); err != nil {
		t.Fatal(err)
	}
	if totalMinor != 2500 { // 12.50 x 2
		t.Fatalf("want 2500 minor units, got %d", totalMinor)
	}
}

func TestPaymentIntentAPI_Validation(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/create-payment-intent",
		`{"items":[{"id":1,"quantity":2,"price":"12.50"}],"amount":2500}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
	if cs := decodeBody(t, resp)["clientSecret"].(string); cs == "" {
		t.Fatal("no client secret")
	}

	// gross mismatch is rejected with a structured message
	resp, err = app.Test(jsonReq("POST", "/api/create-payment-intent",
		`{"items":[{"id":1,"quantity":2,"price":"12.50"}],"amount":100}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for mismatch, got %d", resp.StatusCode)
	}
	if m := decodeBody(t, resp)["message"]; m == "" {
		t.Fatal("error body must carry a message")
	}
}

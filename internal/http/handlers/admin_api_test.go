package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func adminLogin(t *testing.T, app *fiber.App) *http.Cookie {
	t.Helper()
	resp, err := app.Test(jsonReq("POST", "/api/login", `{"email":"admin@stagepass.test","password":"Passw0rd!"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("admin login failed: %d", resp.StatusCode)
	}
	sid := sidCookie(resp)
	if sid == nil {
		t.Fatal("login issued no session cookie")
	}
	return sid
}

func TestAdminAPI_HiddenWithoutSession(t *testing.T) {
	app, _ := newTestApp(t)

	for _, target := range []string{"/api/admin/customcat/status", "/api/admin/settings/CUSTOMCAT_API_KEY"} {
		resp, err := app.Test(jsonReq("GET", target, ""))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 404 {
			t.Fatalf("%s: want 404 without session, got %d", target, resp.StatusCode)
		}
	}
}

func TestAdminAPI_SettingsLifecycle(t *testing.T) {
	app, _ := newTestApp(t)
	sid := adminLogin(t, app)

	// absent key
	resp, err := app.Test(jsonReq("GET", "/api/admin/settings/CUSTOMCAT_API_KEY", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Fatalf("want 404 for absent setting, got %d", resp.StatusCode)
	}

	// store
	resp, err = app.Test(jsonReq("POST", "/api/admin/settings",
		`{"key":"CUSTOMCAT_API_KEY","value":"k-abc","description":"catalog key","is_sensitive":true}`, sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("want 200 storing setting, got %d", resp.StatusCode)
	}

	// read back
	resp, err = app.Test(jsonReq("GET", "/api/admin/settings/CUSTOMCAT_API_KEY", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if v := decodeBody(t, resp)["value"]; v != "k-abc" {
		t.Fatalf("want stored value, got %v", v)
	}

	// status flips to configured
	resp, err = app.Test(jsonReq("GET", "/api/admin/customcat/status", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if c := decodeBody(t, resp)["configured"]; c != true {
		t.Fatalf("want configured=true, got %v", c)
	}

	// delete clears it again
	resp, err = app.Test(jsonReq("DELETE", "/api/admin/settings/CUSTOMCAT_API_KEY", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("want 204 deleting setting, got %d", resp.StatusCode)
	}
	resp, err = app.Test(jsonReq("GET", "/api/admin/customcat/status", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if c := decodeBody(t, resp)["configured"]; c != false {
		t.Fatalf("want configured=false after delete, got %v", c)
	}
}

func TestAdminAPI_SyncWithoutKey(t *testing.T) {
	app, _ := newTestApp(t)
	sid := adminLogin(t, app)

	resp, err := app.Test(jsonReq("POST", "/api/admin/customcat/sync", "", sid))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("want 400 for unconfigured sync, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	if body["success"] != false || body["message"] == "" {
		t.Fatalf("want success=false with message, got %v", body)
	}
}

func TestAdminAPI_NonAdminDenied(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(jsonReq("POST", "/api/login", `{"email":"admin@stagepass.test","password":"wrong"}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 for bad creds, got %d", resp.StatusCode)
	}
}

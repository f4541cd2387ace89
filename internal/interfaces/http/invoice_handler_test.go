package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Timesheet-api/internal/application/dto"
	"github.com/jhoicas/Timesheet-api/internal/domain"
	"github.com/jhoicas/Timesheet-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Timesheet-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake del caso de uso
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceUC struct {
	lastUser    string
	lastRequest dto.InvoiceRequest
	lastStatus  string
	err         error
}

func (f *fakeInvoiceUC) Summary(_ context.Context, userID string, in dto.InvoiceRequest) (*dto.InvoicePreviewResponse, error) {
	f.lastUser, f.lastRequest = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.InvoicePreviewResponse{Models: []dto.InvoiceModelPreview{{CustomerID: "c1", Total: decimal.NewFromInt(300)}}}, nil
}

func (f *fakeInvoiceUC) Preview(_ context.Context, userID string, in dto.InvoiceRequest) (*dto.FileResponse, error) {
	f.lastUser, f.lastRequest = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FileResponse{Filename: "240305-acme.html", ContentType: "text/html; charset=utf-8", Content: []byte("<h1>240305</h1>")}, nil
}

func (f *fakeInvoiceUC) Create(_ context.Context, userID string, in dto.InvoiceRequest) ([]*dto.InvoiceResponse, error) {
	f.lastUser, f.lastRequest = userID, in
	if f.err != nil {
		return nil, f.err
	}
	return []*dto.InvoiceResponse{{ID: "i1", InvoiceNumber: "240305", Status: "new"}}, nil
}

func (f *fakeInvoiceUC) Get(_ context.Context, id string) (*dto.InvoiceResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.InvoiceResponse{ID: id, Status: "new"}, nil
}

func (f *fakeInvoiceUC) ChangeStatus(_ context.Context, id string, in dto.ChangeStatusRequest) (*dto.InvoiceResponse, error) {
	f.lastStatus = in.Status
	if f.err != nil {
		return nil, f.err
	}
	return &dto.InvoiceResponse{ID: id, Status: in.Status}, nil
}

func (f *fakeInvoiceUC) Delete(_ context.Context, _ string) error { return f.err }

func (f *fakeInvoiceUC) Download(_ context.Context, id string) (*dto.FileResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.FileResponse{Filename: id + ".pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4")}, nil
}

func (f *fakeInvoiceUC) List(_ context.Context, _ dto.InvoiceListRequest) ([]*dto.InvoiceResponse, error) {
	return []*dto.InvoiceResponse{{ID: "i1"}, {ID: "i2"}}, f.err
}

func (f *fakeInvoiceUC) ListTemplates(_ context.Context) ([]*dto.InvoiceTemplateResponse, error) {
	return []*dto.InvoiceTemplateResponse{{ID: "t1", Name: "Estándar"}}, nil
}

func (f *fakeInvoiceUC) ListDocuments() []*dto.InvoiceDocumentResponse {
	return []*dto.InvoiceDocumentResponse{{Name: "default", Extension: "html.tmpl"}}
}

type fakeUsers map[string]*entity.User

func (f fakeUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	if id == "boom" {
		return nil, errors.New("db caída")
	}
	return f[id], nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func buildInvoiceApp(uc *fakeInvoiceUC, users fakeUsers) *fiber.App {
	app := fiber.New()
	deps := apphttp.RouterDeps{InvoiceUC: uc, JWTSecret: testJWTSecret}
	if users != nil {
		deps.Users = users
	}
	apphttp.Router(app, deps)
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeError(t *testing.T, resp *http.Response) dto.ErrorResponse {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

// ──────────────────────────────────────────────────────────────────────────────
// Rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceRoutes_SinToken(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodGet, "/api/invoices", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestInvoiceRoutes_List(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodGet, "/api/invoices?status=new,paid&limit=5", "user", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []dto.InvoiceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 2)
}

func TestInvoiceRoutes_CreateRequiereRol(t *testing.T) {
	uc := &fakeInvoiceUC{}
	app := buildInvoiceApp(uc, nil)
	body := `{"customer_ids":["c1"],"template_id":"t1","begin":"2024-03-01","mark_as_exported":true}`

	resp := call(t, app, http.MethodPost, "/api/invoices", "user", body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el rol user no emite facturas")

	resp = call(t, app, http.MethodPost, "/api/invoices", "teamlead", body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, testUserID, uc.lastUser)
	assert.Equal(t, []string{"c1"}, uc.lastRequest.CustomerIDs)
	assert.Equal(t, "2024-03-01", uc.lastRequest.Begin)
	assert.True(t, uc.lastRequest.MarkAsExported)
}

func TestInvoiceRoutes_PreviewDocumento(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices/preview", "user", `{"customer_ids":["c1"],"template_id":"t1"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, `inline; filename="240305-acme.html"`, resp.Header.Get("Content-Disposition"))
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "<h1>240305</h1>", string(body))
}

func TestInvoiceRoutes_PreviewJSON(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices/preview?format=json", "user", `{"customer_ids":["c1"],"template_id":"t1"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.InvoicePreviewResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Models, 1)
	assert.Equal(t, "300", out.Models[0].Total.String())
}

func TestInvoiceRoutes_CuerpoInvalido(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodPost, "/api/invoices/preview", "user", `{"customer_ids":`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeError(t, resp).Code)
}

func TestInvoiceRoutes_ChangeStatus(t *testing.T) {
	uc := &fakeInvoiceUC{}
	app := buildInvoiceApp(uc, nil)

	resp := call(t, app, http.MethodPatch, "/api/invoices/i1/status", "admin", `{"status":"paid"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "paid", uc.lastStatus)
}

func TestInvoiceRoutes_Download(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodGet, "/api/invoices/i9/download", "user", "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="i9.pdf"`)
}

func TestInvoiceRoutes_DeleteSoloAdmin(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodDelete, "/api/invoices/i1", "teamlead", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodDelete, "/api/invoices/i1", "admin", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestInvoiceRoutes_TemplatesYDocumentos(t *testing.T) {
	app := buildInvoiceApp(&fakeInvoiceUC{}, nil)

	resp := call(t, app, http.MethodGet, "/api/invoice-templates", "user", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp2 := call(t, app, http.MethodGet, "/api/invoice-documents", "user", "")
	defer resp2.Body.Close()
	var docs []dto.InvoiceDocumentResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&docs))
	assert.Equal(t, "default", docs[0].Name)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores de dominio
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceRoutes_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrMissingTemplate, http.StatusBadRequest, "MISSING_TEMPLATE"},
		{fmt.Errorf("%w: %q", domain.ErrUnknownInvoiceStatus, "foo"), http.StatusBadRequest, "UNKNOWN_STATUS"},
		{fmt.Errorf("%w: fecha", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION"},
		{fmt.Errorf("%w: plantilla", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNoRenderer, http.StatusUnprocessableEntity, "NO_RENDERER"},
		{domain.ErrDuplicate, http.StatusConflict, "DUPLICATE"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			app := buildInvoiceApp(&fakeInvoiceUC{err: tc.err}, nil)

			resp := call(t, app, http.MethodGet, "/api/invoices/i1", "user", "")
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			e := decodeError(t, resp)
			assert.Equal(t, tc.code, e.Code)
			assert.Equal(t, tc.err.Error(), e.Message)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireActiveUser
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireActiveUser(t *testing.T) {
	active := &entity.User{ID: testUserID, Status: entity.UserStatusActive}

	app := buildInvoiceApp(&fakeInvoiceUC{}, fakeUsers{testUserID: active})
	resp := call(t, app, http.MethodGet, "/api/invoice-templates", "user", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	app = buildInvoiceApp(&fakeInvoiceUC{}, fakeUsers{})
	resp = call(t, app, http.MethodGet, "/api/invoice-templates", "user", "")
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "usuario borrado")

	inactive := &entity.User{ID: testUserID, Status: entity.UserStatusInactive}
	app = buildInvoiceApp(&fakeInvoiceUC{}, fakeUsers{testUserID: inactive})
	resp = call(t, app, http.MethodGet, "/api/invoice-templates", "user", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "USER_INACTIVE", decodeError(t, resp).Code)
}

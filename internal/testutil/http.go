// internal/testutil/http.go
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"

	"github.com/obakengmog/fyndfluencer/internal/app/system/auth"
	"github.com/obakengmog/fyndfluencer/internal/domain/models"
)

// TestUser represents session data for testing HTTP handlers.
type TestUser struct {
	ID             string
	Name           string
	Email          string
	UserType       string
	Role           string
	OrganizationID string
}

// InfluencerUser returns a TestUser with a social subject id.
func InfluencerUser() TestUser {
	return TestUser{
		ID:       "google:" + uuid.NewString(),
		Name:     "Test Creator",
		Email:    "creator@gmail.com",
		UserType: models.UserTypeInfluencer,
	}
}

// BrandOwner returns a TestUser owning a brand organization.
func BrandOwner() TestUser {
	id := uuid.NewString()
	return TestUser{
		ID:             id,
		Name:           "Test Brand Owner",
		Email:          "owner@brand.test",
		UserType:       models.UserTypeBrand,
		Role:           models.RoleOwner,
		OrganizationID: id,
	}
}

// AgencyOwner returns a TestUser owning an agency organization.
func AgencyOwner() TestUser {
	id := uuid.NewString()
	return TestUser{
		ID:             id,
		Name:           "Test Agency Owner",
		Email:          "owner@agency.test",
		UserType:       models.UserTypeAgency,
		Role:           models.RoleOwner,
		OrganizationID: id,
	}
}

// TeamMember returns a TestUser with a non-owner seat in the given organization.
func TeamMember(orgID, role string) TestUser {
	return TestUser{
		ID:             uuid.NewString(),
		Name:           "Test Member",
		Email:          "member@brand.test",
		UserType:       models.UserTypeBrand,
		Role:           role,
		OrganizationID: orgID,
	}
}

// WithUser adds a user to the request context for testing authenticated
// handlers. This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	sessionUser := &auth.SessionUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		UserType:       user.UserType,
		Role:           user.Role,
		OrganizationID: user.OrganizationID,
	}
	return auth.WithTestUser(r, sessionUser)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewJSONRequest creates an HTTP request carrying a JSON body.
func NewJSONRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d", r.Code, expected)
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// AssertJSONContentType checks that the response is declared as JSON.
func (r *ResponseRecorder) AssertJSONContentType(t interface{ Errorf(string, ...any) }) {
	ct := r.Header().Get("Content-Type")
	if !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: got %q, want application/json", ct)
	}
}

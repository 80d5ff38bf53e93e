// Package atlastest is an in-memory stand-in for the portal backend, built
// for exercising the client SDK against the real wire contract: envelope
// shape, session cookie, rotating CSRF token, and the role rules of every
// endpoint. It is test infrastructure only.
package atlastest

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// SessionCookie is the backend's session cookie name.
const SessionCookie = "ATLASBAHAMAS_SESSION"

const csrfHeader = "X-CSRF-Token"

var writeMethods = map[string]struct{}{
	http.MethodPost: {}, http.MethodPut: {}, http.MethodPatch: {}, http.MethodDelete: {},
}

var csrfExempt = map[string]struct{}{
	"/api/login": {}, "/api/register": {},
}

type user struct {
	ID           int64
	FullName     string
	Email        string
	Username     string
	Role         string
	PasswordHash []byte
}

type payment struct {
	ID             int64   `json:"id"`
	TenantUserID   int64   `json:"tenantUserId"`
	TenantName     string  `json:"tenantName"`
	TenantUsername string  `json:"tenantUsername"`
	AmountCents    int64   `json:"amountCents"`
	Amount         float64 `json:"amount"`
	PaymentMonth   string  `json:"paymentMonth"`
	Status         string  `json:"status"`
	Note           string  `json:"note"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type maintenance struct {
	ID             int64  `json:"id"`
	TenantUserID   int64  `json:"tenantUserId"`
	TenantName     string `json:"tenantName"`
	TenantUsername string `json:"tenantUsername"`
	Subject        string `json:"subject"`
	Details        string `json:"details"`
	Severity       string `json:"severity"`
	Status         string `json:"status"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type sessionState struct {
	username  string
	csrfToken string
}

// Server is the fake backend. All state is in memory and guarded by one
// mutex; a Server is safe for concurrent requests.
type Server struct {
	e *echo.Echo

	mu          sync.Mutex
	users       map[string]*user // by username
	sessions    map[string]*sessionState
	payments    []*payment
	maintenance []*maintenance
	nextUserID  int64
	nextPayID   int64
	nextMntID   int64
	hits        map[string]int
}

// New builds a fake backend with no users. Seed accounts with SeedUser.
func New() *Server {
	s := &Server{
		e:          echo.New(),
		users:      make(map[string]*user),
		sessions:   make(map[string]*sessionState),
		nextUserID: 1,
		nextPayID:  1,
		nextMntID:  1,
		hits:       make(map[string]int),
	}
	s.e.HideBanner = true
	s.routes()
	return s
}

// Handler exposes the backend as an http.Handler for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Hits reports how many requests reached path, for asserting probe and
// retry counts.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// SeedUser registers an account directly, bypassing the API.
func (s *Server) SeedUser(fullName, email, username, role, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("atlastest: hash seed password: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[strings.ToLower(username)] = &user{
		ID:           s.nextUserID,
		FullName:     fullName,
		Email:        strings.ToLower(email),
		Username:     strings.ToLower(username),
		Role:         normalizeRole(role),
		PasswordHash: hash,
	}
	s.nextUserID++
}

func (s *Server) routes() {
	s.e.Use(s.countRequests)
	s.e.Use(s.enforceCSRF)

	s.e.GET("/api/session", s.handleSession)
	s.e.POST("/api/register", s.handleRegister)
	s.e.POST("/api/login", s.handleLogin)
	s.e.POST("/api/logout", s.handleLogout)
	s.e.POST("/api/contact", s.handleContact)
	s.e.GET("/api/listings", s.handleListings)
	s.e.GET("/api/dashboard/tenant", s.handleTenantDashboard)
	s.e.GET("/api/dashboard/landlord", s.handleLandlordDashboard)
	s.e.GET("/api/workflow/payments", s.handlePaymentList)
	s.e.POST("/api/workflow/payment", s.handlePaymentSubmit)
	s.e.POST("/api/workflow/payment/:id/status", s.handlePaymentStatus)
	s.e.GET("/api/workflow/maintenance", s.handleMaintenanceList)
	s.e.POST("/api/workflow/maintenance", s.handleMaintenanceSubmit)
	s.e.POST("/api/workflow/maintenance/:id/status", s.handleMaintenanceStatus)
}

func (s *Server) countRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.hits[c.Request().URL.Path]++
		s.mu.Unlock()
		return next(c)
	}
}

// enforceCSRF rejects non-exempt API writes whose header does not match the
// session's current token, the same way the real backend does.
func (s *Server) enforceCSRF(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		_, isWrite := writeMethods[c.Request().Method]
		_, exempt := csrfExempt[path]
		if isWrite && strings.HasPrefix(path, "/api/") && !exempt {
			state := s.ensureSession(c)
			supplied := strings.TrimSpace(c.Request().Header.Get(csrfHeader))
			if supplied == "" || supplied != state.csrfToken {
				return jsonError(c, http.StatusBadRequest, "CSRF token missing or invalid.")
			}
		}
		return next(c)
	}
}

// ensureSession resolves the request's session, creating an anonymous one
// (with a CSRF token) when the cookie is missing or unknown.
func (s *Server) ensureSession(c echo.Context) *sessionState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cookie, err := c.Cookie(SessionCookie); err == nil {
		if state, ok := s.sessions[cookie.Value]; ok {
			return state
		}
	}

	sid := randomToken()
	state := &sessionState{csrfToken: randomToken()}
	s.sessions[sid] = state
	c.SetCookie(&http.Cookie{Name: SessionCookie, Value: sid, Path: "/", HttpOnly: true})
	return state
}

func (s *Server) currentUser(state *sessionState) *user {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.username == "" {
		return nil
	}
	return s.users[state.username]
}

// requireAuth writes the error response itself when the check fails.
func (s *Server) requireAuth(c echo.Context, state *sessionState, expectedRole string) (*user, error, bool) {
	u := s.currentUser(state)
	if u == nil {
		return nil, jsonError(c, http.StatusUnauthorized, "Authentication required."), false
	}
	if expectedRole != "" && u.Role != normalizeRole(expectedRole) {
		return nil, jsonError(c, http.StatusForbidden, "Forbidden for this role."), false
	}
	return u, nil, true
}

func (s *Server) handleSession(c echo.Context) error {
	state := s.ensureSession(c)
	u := s.currentUser(state)
	if u == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"ok": true, "authenticated": false, "session": nil, "csrfToken": state.csrfToken,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"ok": true, "authenticated": true, "session": sessionPayload(u), "csrfToken": state.csrfToken,
	})
}

type registerRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.FullName == "" || req.Email == "" || req.Username == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "All registration fields are required.")
	}
	if req.Password != req.PasswordConfirm {
		return jsonError(c, http.StatusBadRequest, "Passwords must match.")
	}

	s.mu.Lock()
	if _, exists := s.users[req.Username]; exists {
		s.mu.Unlock()
		return jsonError(c, http.StatusConflict, "Username or email already exists.")
	}
	for _, u := range s.users {
		if u.Email == req.Email {
			s.mu.Unlock()
			return jsonError(c, http.StatusConflict, "Username or email already exists.")
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.mu.Unlock()
		return jsonError(c, http.StatusInternalServerError, "Could not store password.")
	}
	u := &user{
		ID:           s.nextUserID,
		FullName:     req.FullName,
		Email:        req.Email,
		Username:     req.Username,
		Role:         normalizeRole(req.Role),
		PasswordHash: hash,
	}
	s.users[req.Username] = u
	s.nextUserID++
	s.mu.Unlock()

	state := s.ensureSession(c)
	s.authenticate(state, u)
	return c.JSON(http.StatusOK, echo.Map{
		"ok": true, "session": sessionPayload(u), "user": sessionPayload(u), "csrfToken": state.csrfToken,
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	identifier := strings.ToLower(strings.TrimSpace(req.Identifier))
	if identifier == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "Username/email and password are required.")
	}

	s.mu.Lock()
	var found *user
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			found = u
			break
		}
	}
	s.mu.Unlock()

	if found == nil {
		return jsonError(c, http.StatusUnauthorized, "Invalid credentials.")
	}
	if expected := normalizeRole(req.Role); expected != "" && found.Role != expected {
		return jsonError(c, http.StatusForbidden, "Selected role does not match this account.")
	}
	if bcrypt.CompareHashAndPassword(found.PasswordHash, []byte(req.Password)) != nil {
		return jsonError(c, http.StatusUnauthorized, "Invalid credentials.")
	}

	state := s.ensureSession(c)
	s.authenticate(state, found)
	return c.JSON(http.StatusOK, echo.Map{
		"ok": true, "session": sessionPayload(found), "user": sessionPayload(found), "csrfToken": state.csrfToken,
	})
}

// authenticate binds a user to the session and rotates its CSRF token.
func (s *Server) authenticate(state *sessionState, u *user) {
	s.mu.Lock()
	state.username = u.Username
	state.csrfToken = randomToken()
	s.mu.Unlock()
}

func (s *Server) handleLogout(c echo.Context) error {
	state := s.ensureSession(c)
	s.mu.Lock()
	state.username = ""
	state.csrfToken = randomToken()
	token := state.csrfToken
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "message": "Logged out.", "csrfToken": token})
}

func (s *Server) handleContact(c echo.Context) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return jsonError(c, http.StatusBadRequest, "All contact fields are required.")
	}
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "message": "Message sent."})
}

var listingsFixture = []echo.Map{
	{"id": "coral-heights-4b", "name": "Coral Heights 4B", "beds": 2, "baths": 1, "city": "Nassau", "price_monthly": 1250},
	{"id": "harbor-walk-2a", "name": "Harbor Walk 2A", "beds": 1, "baths": 1, "city": "Nassau", "price_monthly": 1050},
	{"id": "ocean-ridge-7c", "name": "Ocean Ridge 7C", "beds": 3, "baths": 2, "city": "Nassau", "price_monthly": 1780},
}

func (s *Server) handleListings(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "listings": listingsFixture})
}

func (s *Server) handleTenantDashboard(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "tenant")
	if !ok {
		return errResp
	}

	s.mu.Lock()
	var mine []*payment
	var open int
	for _, p := range s.payments {
		if p.TenantUserID == u.ID {
			mine = append(mine, p)
		}
	}
	var tickets []*maintenance
	for _, m := range s.maintenance {
		if m.TenantUserID == u.ID {
			tickets = append(tickets, m)
			if m.Status == "open" || m.Status == "in_progress" {
				open++
			}
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{
		"ok":      true,
		"session": sessionPayload(u),
		"kpis": echo.Map{
			"rentDue": 1250.0, "daysToDue": 12, "openRequests": open, "receipts": len(mine),
		},
		"payments":    orEmptyPayments(mine),
		"maintenance": orEmptyMaintenance(tickets),
	})
}

func (s *Server) handleLandlordDashboard(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "landlord")
	if !ok {
		return errResp
	}

	s.mu.Lock()
	var pending []*payment
	for _, p := range s.payments {
		if p.Status == "submitted" {
			pending = append(pending, p)
		}
	}
	var queue []*maintenance
	for _, m := range s.maintenance {
		if m.Status == "open" || m.Status == "in_progress" {
			queue = append(queue, m)
		}
	}
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{
		"ok":      true,
		"session": sessionPayload(u),
		"kpis": echo.Map{
			"properties": len(listingsFixture), "occupied": 1,
			"monthlyRevenue": 0.0, "openRequests": len(queue),
		},
		"pendingPayments":  orEmptyPayments(pending),
		"maintenanceQueue": orEmptyMaintenance(queue),
	})
}

func (s *Server) handlePaymentList(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "")
	if !ok {
		return errResp
	}

	s.mu.Lock()
	var visible []*payment
	for _, p := range s.payments {
		if u.Role != "tenant" || p.TenantUserID == u.ID {
			visible = append(visible, p)
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "payments": orEmptyPayments(visible)})
}

func (s *Server) handlePaymentSubmit(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "tenant")
	if !ok {
		return errResp
	}

	var req struct {
		Amount       float64 `json:"amount"`
		PaymentMonth string  `json:"paymentMonth"`
		Note         string  `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	cents := int64(req.Amount * 100)
	if cents < 100 {
		return jsonError(c, http.StatusBadRequest, "Amount must be at least 1.00.")
	}
	month := req.PaymentMonth
	if month == "" {
		month = time.Now().UTC().Format("2006-01")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	s.mu.Lock()
	p := &payment{
		ID: s.nextPayID, TenantUserID: u.ID, TenantName: u.FullName, TenantUsername: u.Username,
		AmountCents: cents, Amount: float64(cents) / 100, PaymentMonth: month,
		Status: "submitted", Note: req.Note, CreatedAt: now, UpdatedAt: now,
	}
	s.nextPayID++
	s.payments = append(s.payments, p)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "payment": p})
}

func (s *Server) handlePaymentStatus(c echo.Context) error {
	state := s.ensureSession(c)
	_, errResp, ok := s.requireAuth(c, state, "landlord")
	if !ok {
		return errResp
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payment id.")
	}
	var req struct {
		Status string `json:"status"`
		Note   string `json:"note"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	if req.Status != "received" && req.Status != "rejected" {
		return jsonError(c, http.StatusBadRequest, "status must be received or rejected.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.payments {
		if p.ID == id {
			p.Status = req.Status
			if req.Note != "" {
				p.Note = req.Note
			}
			p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return c.JSON(http.StatusOK, echo.Map{"ok": true, "payment": p})
		}
	}
	return jsonError(c, http.StatusNotFound, "Payment not found.")
}

func (s *Server) handleMaintenanceList(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "")
	if !ok {
		return errResp
	}

	s.mu.Lock()
	var visible []*maintenance
	for _, m := range s.maintenance {
		if u.Role != "tenant" || m.TenantUserID == u.ID {
			visible = append(visible, m)
		}
	}
	s.mu.Unlock()
	return c.JSON(http.StatusOK, echo.Map{"ok": true, "requests": orEmptyMaintenance(visible)})
}

func (s *Server) handleMaintenanceSubmit(c echo.Context) error {
	state := s.ensureSession(c)
	u, errResp, ok := s.requireAuth(c, state, "tenant")
	if !ok {
		return errResp
	}

	var req struct {
		Subject  string `json:"subject"`
		Details  string `json:"details"`
		Severity string `json:"severity"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	if len(req.Subject) < 3 || len(req.Subject) > 140 {
		return jsonError(c, http.StatusBadRequest, "Subject must be between 3 and 140 characters.")
	}
	if len(req.Details) < 5 || len(req.Details) > 2000 {
		return jsonError(c, http.StatusBadRequest, "Details must be between 5 and 2000 characters.")
	}
	severity := req.Severity
	if severity == "" {
		severity = "medium"
	}

	now := time.Now().UTC().Format(time.RFC3339)
	s.mu.Lock()
	m := &maintenance{
		ID: s.nextMntID, TenantUserID: u.ID, TenantName: u.FullName, TenantUsername: u.Username,
		Subject: req.Subject, Details: req.Details, Severity: severity,
		Status: "open", CreatedAt: now, UpdatedAt: now,
	}
	s.nextMntID++
	s.maintenance = append(s.maintenance, m)
	s.mu.Unlock()

	return c.JSON(http.StatusOK, echo.Map{"ok": true, "request": m})
}

func (s *Server) handleMaintenanceStatus(c echo.Context) error {
	state := s.ensureSession(c)
	_, errResp, ok := s.requireAuth(c, state, "landlord")
	if !ok {
		return errResp
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request id.")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid payload.")
	}
	switch req.Status {
	case "open", "in_progress", "resolved", "closed":
	default:
		return jsonError(c, http.StatusBadRequest, "status must be open, in_progress, resolved, or closed.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.maintenance {
		if m.ID == id {
			m.Status = req.Status
			m.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
			return c.JSON(http.StatusOK, echo.Map{"ok": true, "request": m})
		}
	}
	return jsonError(c, http.StatusNotFound, "Maintenance request not found.")
}

func sessionPayload(u *user) echo.Map {
	return echo.Map{
		"userId":   u.ID,
		"fullName": u.FullName,
		"email":    u.Email,
		"username": u.Username,
		"role":     u.Role,
	}
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"ok": false, "error": message})
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "tenant":
		return "tenant"
	case "landlord", "property_manager", "manager":
		return "landlord"
	default:
		return ""
	}
}

// orEmptyPayments keeps empty lists serializing as [] rather than null.
func orEmptyPayments(p []*payment) []*payment {
	if p == nil {
		return []*payment{}
	}
	return p
}

func orEmptyMaintenance(m []*maintenance) []*maintenance {
	if m == nil {
		return []*maintenance{}
	}
	return m
}

func randomToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("atlastest: read random: %v", err))
	}
	return hex.EncodeToString(buf)
}

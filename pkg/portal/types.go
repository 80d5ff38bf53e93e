package portal

// Session is the authenticated identity known to the client for the current
// process lifetime. It is owned by the client's session cache and always
// replaced wholesale, never mutated in place.
type Session struct {
	UserID   int64  `json:"userId,omitempty" yaml:"user_id,omitempty"`
	FullName string `json:"fullName" yaml:"full_name"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
	LoginAt  string `json:"loginAt,omitempty" yaml:"login_at,omitempty"`
}

// Listing is a public rental listing.
type Listing struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Beds         int     `json:"beds"`
	Baths        int     `json:"baths"`
	City         string  `json:"city"`
	PriceMonthly float64 `json:"price_monthly"`
}

// Payment is a tenant rent payment as reported by the workflow API.
type Payment struct {
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

// MaintenanceRequest is a tenant maintenance ticket.
type MaintenanceRequest struct {
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

// DashboardKPIs carries the headline numbers of either dashboard; the
// tenant and landlord variants populate different subsets.
type DashboardKPIs struct {
	RentDue        float64 `json:"rentDue,omitempty"`
	DaysToDue      int     `json:"daysToDue,omitempty"`
	OpenRequests   int     `json:"openRequests,omitempty"`
	Receipts       int     `json:"receipts,omitempty"`
	Properties     int     `json:"properties,omitempty"`
	Occupied       int     `json:"occupied,omitempty"`
	MonthlyRevenue float64 `json:"monthlyRevenue,omitempty"`
}

// Dashboard is a role-specific dashboard snapshot. Payments/Maintenance are
// filled for tenants, PendingPayments/MaintenanceQueue for landlords.
type Dashboard struct {
	Session          *Session             `json:"session"`
	KPIs             DashboardKPIs        `json:"kpis"`
	Payments         []Payment            `json:"payments,omitempty"`
	Maintenance      []MaintenanceRequest `json:"maintenance,omitempty"`
	PendingPayments  []Payment            `json:"pendingPayments,omitempty"`
	MaintenanceQueue []MaintenanceRequest `json:"maintenanceQueue,omitempty"`
}

// RegisterInput is the payload for account registration.
type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Username        string `json:"username" validate:"required"`
	Role            string `json:"role"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
}

// LoginInput identifies an account by username or email. Role, when set,
// asks the server to reject accounts of a different role.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	Role       string `json:"role"`
}

// AuthResult is the outcome of a successful register or login call. Login
// and register respond with "user", the session probe with "session"; both
// describe the same identity shape.
type AuthResult struct {
	Session *Session `json:"session"`
	User    *Session `json:"user"`
}

// snapshot returns whichever identity field the response populated.
func (a *AuthResult) snapshot() *Session {
	if a.Session != nil {
		return a.Session
	}
	return a.User
}

// ContactInput is a contact-form submission.
type ContactInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// PaymentInput submits a rent payment for the current month unless
// PaymentMonth (YYYY-MM) says otherwise.
type PaymentInput struct {
	Amount       float64 `json:"amount" validate:"gt=0"`
	PaymentMonth string  `json:"paymentMonth,omitempty"`
	Note         string  `json:"note,omitempty"`
}

// MaintenanceInput opens a maintenance request. Severity defaults to
// "medium" server-side when empty.
type MaintenanceInput struct {
	Subject  string `json:"subject" validate:"required,min=3,max=140"`
	Details  string `json:"details" validate:"required,min=5,max=2000"`
	Severity string `json:"severity,omitempty" validate:"omitempty,oneof=low medium high urgent"`
}

package domain

import "time"

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"

	StageNew         DealStage = "new"
	StageWaiting     DealStage = "waiting"
	StageReservation DealStage = "reservation"
	StageCheckin     DealStage = "checkin"
	StageFinished    DealStage = "finished"
	StageLost        DealStage = "lost"

	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked-in"
	ReservationCheckedOut ReservationStatus = "checked-out"
	ReservationCancelled  ReservationStatus = "cancelled"

	ResourceAvailable   ResourceStatus = "available"
	ResourceOccupied    ResourceStatus = "occupied"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceBusy        ResourceStatus = "busy"

	ItemFromTemplate BudgetItemOrigin = "template"
	ItemCustom       BudgetItemOrigin = "custom"

	LogInfo    ActivityLogType = "info"
	LogWarning ActivityLogType = "warning"
	LogError   ActivityLogType = "error"
)

type UserRole string
type DealStage string
type ReservationStatus string
type ResourceStatus string
type BudgetItemOrigin string
type ActivityLogType string

// Money is an amount in integer cents.
type Money struct {
	Amount   int64
	Currency string
}

type User struct {
	ID           int64
	TenantID     int64
	Name         string
	Email        string
	Phone        string
	Role         UserRole
	IsGoogle     bool
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// Settings is the single per-tenant configuration record (upsert by tenant).
type Settings struct {
	TenantID             int64
	LodgeName            string
	LodgeAddress         string
	LodgePhone           string
	City                 string
	DefaultPaymentMethod string
	ReceiptFooter        string
	CheckinHour          string
	CheckoutHour         string
	CurrencyCode         string
	UpdatedAt            time.Time
}

type Room struct {
	ID        int64
	TenantID  int64
	Number    string
	Type      string
	Beds      int
	Price     Money
	Status    ResourceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Boat struct {
	ID        int64
	TenantID  int64
	Name      string
	Capacity  int
	Price     Money
	Status    ResourceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Guide struct {
	ID        int64
	TenantID  int64
	Name      string
	Phone     string
	Specialty string
	DailyRate Money
	Status    ResourceStatus
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type Product struct {
	ID        int64
	TenantID  int64
	Name      string
	Category  string
	Price     Money
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// BudgetTemplate is a reusable priced line-item definition used to seed
// deal budgets.
type BudgetTemplate struct {
	ID          int64
	TenantID    int64
	Name        string
	Description string
	Category    string
	UnitPrice   Money
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Deal struct {
	ID              int64
	TenantID        int64
	ContactName     string
	ContactPhone    string
	Value           Money // derived: sum of budget item totals at save time
	Stage           DealStage
	Tags            []string
	LastInteraction time.Time
	Notes           string
	Budget          *Budget
	Payments        []Payment
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Budget struct {
	City         string
	CheckInDate  *time.Time
	CheckOutDate *time.Time
	FishingDays  int
	People       int
	Items        []BudgetItem
}

type BudgetItem struct {
	ID          string // uuid
	Origin      BudgetItemOrigin
	Name        string
	Description string
	Qty         int
	UnitPrice   Money
	Total       Money // always qty * unit price, recomputed on every edit
}

type Payment struct {
	ID     string // uuid
	Amount Money
	Date   time.Time
	Method string
	Notes  string
}

type Reservation struct {
	ID            int64
	TenantID      int64
	DealID        *int64
	ReferenceCode string
	ContactName   string
	CheckInDate   *time.Time
	CheckOutDate  *time.Time
	Status        ReservationStatus
	Rooms         []AllocatedRoom
	BoatIDs       []int64
	GuideIDs      []int64
	PackageValue  Money // snapshot copied from the deal or entered manually
	PaidAmount    Money // snapshot; deliberately not recomputed from Payments
	Payments      []Payment
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AllocatedRoom links a reservation to a physical room. RoomNumber is a
// display snapshot captured at allocation time.
type AllocatedRoom struct {
	RoomID      int64
	RoomNumber  string
	Guests      []Guest
	Consumption []ConsumptionItem
}

type Guest struct {
	Name  string
	Phone string
}

// ConsumptionItem is one running-tab line for a product in a room. UnitPrice
// is frozen at first add and never re-read from the catalog.
type ConsumptionItem struct {
	ID          string // uuid
	ProductID   int64
	ProductName string
	Qty         int
	UnitPrice   Money
	Total       Money
	TouchedAt   time.Time
}

type ActivityLog struct {
	ID       int64
	TenantID int64
	Title    string
	Message  string
	Actor    string
	Type     ActivityLogType
	LoggedAt time.Time
}

// Platform collections (cross-tenant, admin role only).

type Business struct {
	ID          int64
	Name        string
	OwnerUserID int64
	PlanID      *int64
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

type Plan struct {
	ID        int64
	Name      string
	Price     Money
	MaxRooms  int
	MaxUsers  int
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

type PlatformSettings struct {
	SupportEmail     string
	SupportPhone     string
	TrialDays        int
	SignupsOpen      bool
	MaintenanceBlurb string
	UpdatedAt        time.Time
}

package types

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
)

type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt,omitempty"`
}

type Role string

const (
	ROLE_ADMIN Role = "Admin"
	ROLE_USER  Role = "User"
)

type OrderStatus string

const (
	ORDER_PENDING   OrderStatus = "Pending"
	ORDER_PAID      OrderStatus = "Paid"
	ORDER_CANCELLED OrderStatus = "Cancelled"
)

type PaymentStatus string

const (
	PAYMENT_UNPAID PaymentStatus = "Unpaid"
	PAYMENT_PAID   PaymentStatus = "Paid"
)

type TransactionStatus string

const (
	TRANSACTION_PENDING TransactionStatus = "Pending"
	TRANSACTION_SUCCESS TransactionStatus = "Success"
	TRANSACTION_FAILED  TransactionStatus = "Failed"
)

type TicketStatus string

const (
	TICKET_ISSUED    TicketStatus = "Issued"
	TICKET_USED      TicketStatus = "Used"
	TICKET_CANCELLED TicketStatus = "Cancelled"
)

type ScanResult string

const (
	SCAN_OK           ScanResult = "OK"
	SCAN_ALREADY_USED ScanResult = "AlreadyUsed"
	SCAN_CANCELLED    ScanResult = "Cancelled"
	SCAN_NOT_FOUND    ScanResult = "NotFound"
)

// Claims is the JWT payload. Subject carries the username.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Principal identifies the caller for the duration of one request. Handlers
// resolve it from the token claims and pass it down explicitly.
type Principal struct {
	UserID   uint
	Username string
	Role     Role
}

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type ListQueryParams struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Q        string `form:"q"`
}

type RegisterRequestBody struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequestBody struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

type UpdateProfileRequestBody struct {
	FullName     string `json:"fullName,omitempty"`
	Email        string `json:"email,omitempty" binding:"omitempty,email"`
	Phone        string `json:"phone,omitempty"`
	BirthDate    string `json:"birthDate,omitempty"`
	Gender       string `json:"gender,omitempty"`
	AvatarURL    string `json:"avatarUrl,omitempty"`
	AddressLine  string `json:"addressLine,omitempty"`
	ProvinceName string `json:"provinceName,omitempty"`
	DistrictName string `json:"districtName,omitempty"`
	WardName     string `json:"wardName,omitempty"`
}

type CreateOrderRequestBody struct {
	TicketTypeID  uint   `json:"ticketTypeId" binding:"required"`
	Quantity      int    `json:"quantity" binding:"required"`
	PaymentMethod string `json:"paymentMethod,omitempty"`
	Note          string `json:"note,omitempty"`
}

type InitiatePaymentRequestBody struct {
	OrderID  uint   `json:"orderId" binding:"required"`
	Provider string `json:"provider" binding:"required"`
}

type PaymentCallbackRequestBody struct {
	ProviderRef string `json:"providerRef" binding:"required"`
	Status      string `json:"status" binding:"required"`
	RawPayload  string `json:"rawPayload,omitempty"`
}

type ScanTicketRequestBody struct {
	TicketCode string `json:"ticketCode" binding:"required"`
	Gate       string `json:"gate,omitempty"`
	DeviceID   string `json:"deviceId,omitempty"`
}

type RegisterDeviceRequestBody struct {
	FcmToken   string `json:"fcmToken" binding:"required"`
	DeviceInfo string `json:"deviceInfo,omitempty"`
}

type CreateCategoryRequestBody struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

type CreateEventRequestBody struct {
	Title       string          `json:"title" binding:"required"`
	Name        string          `json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	StartTime   string          `json:"startTime" binding:"required" time_format:"2006-01-02 15:04:05 -07:00"`
	EndTime     string          `json:"endTime" binding:"required,timerange=StartTime" time_format:"2006-01-02 15:04:05 -07:00"`
	BannerURL   string          `json:"bannerUrl,omitempty"`
	CategoryID  uint            `json:"categoryId" binding:"required"`
	BasePrice   decimal.Decimal `json:"basePrice,omitempty"`
	IsHot       bool            `json:"isHot,omitempty"`
	IsNew       bool            `json:"isNew,omitempty"`
	Published   bool            `json:"published,omitempty"`
}

type CreatePerformerRequestBody struct {
	StageName string `json:"stageName" binding:"required"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`
}

type CreateTicketTypeRequestBody struct {
	EventID       uint            `json:"eventId" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	TotalQuantity int             `json:"totalQuantity" binding:"required,gt=0"`
	PerOrderLimit int             `json:"perOrderLimit,omitempty"`
}

type EventQueryFilters struct {
	CategoryID uint   `form:"categoryId"`
	IsHot      *bool  `form:"isHot"`
	IsNew      *bool  `form:"isNew"`
	From       string `form:"from"`
	To         string `form:"to"`
}

type OrderQueryFilters struct {
	Status        string `form:"status"`
	PaymentStatus string `form:"paymentStatus"`
}

// Package domain defines the persistence models for the dairy herd
// records application: cattle, milk production, health, breeding, feed
// inventory, notifications, and the activity audit log. These types are
// mapped with GORM and form the core data layer of the backend.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cattle status values. Transitions out of "active" are terminal: there
// is no path back from sold or deceased.
const (
	CattleStatusActive   = "active"
	CattleStatusSold     = "sold"
	CattleStatusDeceased = "deceased"
)

// Milking sessions. At most one production record may exist per
// (cattle, date, session) triple.
const (
	SessionMorning   = "morning"
	SessionAfternoon = "afternoon"
	SessionEvening   = "evening"
)

// Health record types.
const (
	HealthVaccination    = "vaccination"
	HealthTreatment      = "treatment"
	HealthCheckUp        = "check_up"
	HealthDeworming      = "deworming"
	HealthInsemination   = "insemination"
	HealthPregnancyCheck = "pregnancy_check"
)

// Breeding types and outcome states. The status is a terminal flag, not
// a full lifecycle machine: pending resolves once into successful or
// unsuccessful.
const (
	BreedingNatural    = "natural"
	BreedingArtificial = "artificial"

	BreedingStatusPending      = "pending"
	BreedingStatusSuccessful   = "successful"
	BreedingStatusUnsuccessful = "unsuccessful"
)

// Feed types.
const (
	FeedForage      = "forage"
	FeedConcentrate = "concentrate"
	FeedSupplement  = "supplement"
	FeedMineral     = "mineral"
)

// Notification types and priorities.
const (
	NotificationHealthCheckup  = "health_checkup"
	NotificationVaccination    = "vaccination"
	NotificationBreeding       = "breeding"
	NotificationFeedInventory  = "feed_inventory"
	NotificationMilkProduction = "milk_production"
	NotificationGeneral        = "general"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Activity log actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Cattle represents a single animal in the herd. Each animal is owned by
// exactly one user and is referenced by production, health, breeding,
// and notification records.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - OwnerID: identifier of the owning user; indexed for retrieval.
//   - TagNumber: globally unique ear-tag identifier.
//   - DateOfBirth: date-valued (midnight UTC) birth date, used for age.
//   - Weight: kilograms, two decimal places.
//   - Status: one of active/sold/deceased (enforced by DB constraint).
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Cattle struct {
	ID          string          `json:"id"            gorm:"type:char(36);primaryKey"`
	OwnerID     string          `json:"owner_id"      gorm:"type:varchar(64);not null;index:idx_owner_cattle"`
	Name        string          `json:"name"          gorm:"type:varchar(100);not null"`
	TagNumber   string          `json:"tag_number"    gorm:"type:varchar(50);not null;uniqueIndex:ux_cattle_tag"`
	Breed       string          `json:"breed"         gorm:"type:varchar(100);not null"`
	DateOfBirth time.Time       `json:"date_of_birth" gorm:"not null"`
	Gender      string          `json:"gender"        gorm:"type:varchar(1);not null;check:gender IN ('M','F')"`
	Weight      decimal.Decimal `json:"weight"        gorm:"type:decimal(6,2);not null"`
	Status      string          `json:"status"        gorm:"type:varchar(20);not null;default:'active';index;check:status IN ('active','sold','deceased')"`
	Notes       string          `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"    gorm:"index"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-"             gorm:"index"`
}

// TableName returns the database table name for Cattle.
func (Cattle) TableName() string { return "cattle" }

// AgeYears returns the animal's age in whole years as of the given date.
func (c Cattle) AgeYears(asOf time.Time) int {
	years := asOf.Year() - c.DateOfBirth.Year()
	if asOf.Month() < c.DateOfBirth.Month() ||
		(asOf.Month() == c.DateOfBirth.Month() && asOf.Day() < c.DateOfBirth.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// MilkProduction records the quantity milked from one animal in one
// session of one day. The (cattle, date, session) triple is a natural
// composite key enforced by a unique index; a second write for the same
// triple fails with a uniqueness violation.
//
// Rows are hard-deleted: a soft-delete marker would leave the unique
// index blocking re-entry of a corrected record.
type MilkProduction struct {
	ID         string              `json:"id"          gorm:"type:char(36);primaryKey"`
	CattleID   string              `json:"cattle_id"   gorm:"type:char(36);not null;uniqueIndex:ux_production_cattle_date_session,priority:1;index:idx_production_cattle_date,priority:1"`
	Date       time.Time           `json:"date"        gorm:"not null;uniqueIndex:ux_production_cattle_date_session,priority:2;index:idx_production_cattle_date,priority:2"`
	Session    string              `json:"session"     gorm:"type:varchar(10);not null;uniqueIndex:ux_production_cattle_date_session,priority:3;check:session IN ('morning','afternoon','evening')"`
	Quantity   decimal.Decimal     `json:"quantity"    gorm:"type:decimal(6,2);not null"`
	FatContent decimal.NullDecimal `json:"fat_content,omitempty" gorm:"type:decimal(4,2)"`
	Notes      string              `json:"notes,omitempty" gorm:"type:text"`
	RecordedBy string              `json:"recorded_by" gorm:"type:varchar(64);not null;index"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`

	// Cattle is the producing animal. Production records are
	// cascade-deleted if the animal is removed.
	Cattle Cattle `json:"-" gorm:"foreignKey:CattleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MilkProduction.
func (MilkProduction) TableName() string { return "milk_productions" }

// HealthRecord captures a veterinary event for one animal. When
// NextCheckupDate is set it drives the due-checkup background scan.
type HealthRecord struct {
	ID              string          `json:"id"          gorm:"type:char(36);primaryKey"`
	CattleID        string          `json:"cattle_id"   gorm:"type:char(36);not null;index"`
	RecordType      string          `json:"record_type" gorm:"type:varchar(20);not null;index;check:record_type IN ('vaccination','treatment','check_up','deworming','insemination','pregnancy_check')"`
	Date            time.Time       `json:"date"        gorm:"not null;index"`
	Description     string          `json:"description" gorm:"type:text;not null"`
	Medicine        string          `json:"medicine,omitempty" gorm:"type:varchar(200)"`
	Dosage          string          `json:"dosage,omitempty"   gorm:"type:varchar(100)"`
	VetName         string          `json:"vet_name"    gorm:"type:varchar(100);not null"`
	Cost            decimal.Decimal `json:"cost"        gorm:"type:decimal(10,2);not null"`
	NextCheckupDate *time.Time      `json:"next_checkup_date,omitempty" gorm:"index"`
	RecordedBy      string          `json:"recorded_by" gorm:"type:varchar(64);not null;index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	Cattle Cattle `json:"-" gorm:"foreignKey:CattleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for HealthRecord.
func (HealthRecord) TableName() string { return "health_records" }

// Breeding records one breeding attempt for an animal, either natural or
// artificial insemination, with expected and actual calving dates filled
// in as the cycle progresses.
type Breeding struct {
	ID                  string          `json:"id"            gorm:"type:char(36);primaryKey"`
	CattleID            string          `json:"cattle_id"     gorm:"type:char(36);not null;index"`
	BreedingType        string          `json:"breeding_type" gorm:"type:varchar(20);not null;check:breeding_type IN ('natural','artificial')"`
	Date                time.Time       `json:"date"          gorm:"not null;index"`
	SireDetails         string          `json:"sire_details"  gorm:"type:varchar(200);not null"`
	Status              string          `json:"status"        gorm:"type:varchar(20);not null;default:'pending';index;check:status IN ('pending','successful','unsuccessful')"`
	ExpectedCalvingDate *time.Time      `json:"expected_calving_date,omitempty" gorm:"index"`
	ActualCalvingDate   *time.Time      `json:"actual_calving_date,omitempty"`
	Notes               string          `json:"notes,omitempty" gorm:"type:text"`
	Cost                decimal.Decimal `json:"cost"          gorm:"type:decimal(10,2);not null"`
	RecordedBy          string          `json:"recorded_by"   gorm:"type:varchar(64);not null;index"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`

	Cattle Cattle `json:"-" gorm:"foreignKey:CattleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Breeding.
func (Breeding) TableName() string { return "breeding_records" }

// Feed is one purchased lot of feed in the farm inventory.
type Feed struct {
	ID           string          `json:"id"            gorm:"type:char(36);primaryKey"`
	Name         string          `json:"name"          gorm:"type:varchar(100);not null"`
	FeedType     string          `json:"feed_type"     gorm:"type:varchar(20);not null;index;check:feed_type IN ('forage','concentrate','supplement','mineral')"`
	Quantity     decimal.Decimal `json:"quantity"      gorm:"type:decimal(10,2);not null"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit" gorm:"type:decimal(10,2);not null"`
	PurchaseDate time.Time       `json:"purchase_date" gorm:"not null;index"`
	ExpiryDate   *time.Time      `json:"expiry_date,omitempty" gorm:"index"`
	Supplier     string          `json:"supplier"      gorm:"type:varchar(200);not null"`
	Notes        string          `json:"notes,omitempty" gorm:"type:text"`
	RecordedBy   string          `json:"recorded_by"   gorm:"type:varchar(64);not null;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// TableName returns the database table name for Feed.
func (Feed) TableName() string { return "feeds" }

// TotalCost returns quantity × cost per unit for this lot.
func (f Feed) TotalCost() decimal.Decimal {
	return f.Quantity.Mul(f.CostPerUnit)
}

// Notification is a message delivered to one user, created either by the
// background checks or directly by user-facing actions. Read state is
// monotonic: once IsRead is set and ReadAt recorded, neither changes.
//
// Fields:
//   - Type: one of the Notification* constants.
//   - Priority: low/medium/high, derived from the triggering event kind.
//   - CattleID: optional related animal; cleared if the animal is removed.
//   - IsRead / ReadAt: read-marking is idempotent; ReadAt is set exactly
//     once, on the transition from unread to read.
type Notification struct {
	ID        string     `json:"id"         gorm:"type:char(36);primaryKey"`
	Title     string     `json:"title"      gorm:"type:varchar(200);not null"`
	Message   string     `json:"message"    gorm:"type:text;not null"`
	Type      string     `json:"type"       gorm:"column:notification_type;type:varchar(20);not null;index;check:notification_type IN ('health_checkup','vaccination','breeding','feed_inventory','milk_production','general')"`
	Priority  string     `json:"priority"   gorm:"type:varchar(10);not null;default:'medium';check:priority IN ('low','medium','high')"`
	UserID    string     `json:"user_id"    gorm:"type:varchar(64);not null;index:idx_user_notifications"`
	CattleID  *string    `json:"cattle_id,omitempty" gorm:"type:char(36);index"`
	IsRead    bool       `json:"is_read"    gorm:"not null;default:false;index"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt time.Time  `json:"updated_at"`

	Cattle *Cattle `json:"-" gorm:"foreignKey:CattleID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// ActivityLog is an append-only audit entry. Rows are written once and
// never updated or deleted through normal operation.
type ActivityLog struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"     gorm:"type:varchar(64);not null;index"`
	Action      string    `json:"action"      gorm:"type:varchar(10);not null;index;check:action IN ('create','update','delete')"`
	EntityName  string    `json:"entity_name" gorm:"type:varchar(50);not null"`
	EntityID    string    `json:"entity_id"   gorm:"type:char(36);not null"`
	Description string    `json:"description" gorm:"type:text;not null"`
	IPAddress   string    `json:"ip_address,omitempty" gorm:"type:varchar(45)"`
	CreatedAt   time.Time `json:"created_at"  gorm:"index"`
}

// TableName returns the database table name for ActivityLog.
func (ActivityLog) TableName() string { return "activity_logs" }

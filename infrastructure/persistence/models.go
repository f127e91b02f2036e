package persistence

import (
	"time"
)

// CompanyModel represents a tracked company in the database.
type CompanyModel struct {
	ID                    int64     `gorm:"primaryKey;autoIncrement"`
	Name                  string    `gorm:"column:name;index;size:255"`
	Description           string    `gorm:"column:description;type:text"`
	Industry              string    `gorm:"column:industry;index;size:255"`
	Website               string    `gorm:"column:website;size:1024"`
	LogoURL               string    `gorm:"column:logo_url;size:1024"`
	ReasonForNotInvesting string    `gorm:"column:reason_for_not_investing;type:text"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (CompanyModel) TableName() string {
	return "companies"
}

// FounderModel represents a company founder in the database.
type FounderModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	CompanyID int64  `gorm:"column:company_id;index"`
	Name      string `gorm:"column:name;size:255"`
	Bio       string `gorm:"column:bio;type:text"`
	Twitter   string `gorm:"column:twitter;size:255"`
	Email     string `gorm:"column:email;size:255"`
	Linkedin  string `gorm:"column:linkedin;size:1024"`
}

// TableName returns the table name.
func (FounderModel) TableName() string {
	return "founders"
}

// UserModel represents a partner who receives escalations.
type UserModel struct {
	ID    int64  `gorm:"primaryKey;autoIncrement"`
	Name  string `gorm:"column:name;size:255"`
	Email string `gorm:"column:email;uniqueIndex;size:255"`
}

// TableName returns the table name.
func (UserModel) TableName() string {
	return "users"
}

// ScrapeRoundModel represents one research cycle in the database. The
// (company_id, round_number) pair is unique so re-entrant scheduling can never
// create two rounds with the same number.
type ScrapeRoundModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	CompanyID     int64     `gorm:"column:company_id;index;uniqueIndex:idx_company_round"`
	RoundNumber   int       `gorm:"column:round_number;uniqueIndex:idx_company_round"`
	ScheduledFor  time.Time `gorm:"column:scheduled_for"`
	FinancialInfo string    `gorm:"column:financial_info;type:text"`
	Sentiment     string    `gorm:"column:sentiment;type:text"`
	CustomerInfo  string    `gorm:"column:customer_info;type:text"`
	Completed     bool      `gorm:"column:completed;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (ScrapeRoundModel) TableName() string {
	return "scrape_rounds"
}

// RunModel represents the durable research-loop record in the database.
// Staged findings are nullable so a missing result is distinguishable from an
// empty one. The partial unique index on company_id holds only while the run
// is live, so a company has at most one non-terminal run even under
// concurrent starts.
type RunModel struct {
	ID             int64      `gorm:"primaryKey;autoIncrement"`
	CompanyID      int64      `gorm:"column:company_id;index;uniqueIndex:udx_monitor_runs_live_company,where:state <> 'terminated' AND state <> 'cancelled'"`
	UserID         int64      `gorm:"column:user_id;index"`
	State          string     `gorm:"column:state;index;size:32"`
	PendingRoundID *int64     `gorm:"column:pending_round_id"`
	FinancialInfo  *string    `gorm:"column:financial_info;type:text"`
	Sentiment      *string    `gorm:"column:sentiment;type:text"`
	CustomerInfo   *string    `gorm:"column:customer_info;type:text"`
	Reasoning      string     `gorm:"column:reasoning;type:text"`
	Outreach       string     `gorm:"column:outreach;type:text"`
	NextWakeAt     time.Time  `gorm:"column:next_wake_at;index"`
	LeasedUntil    *time.Time `gorm:"column:leased_until"`
	LastError      string     `gorm:"column:last_error;type:text"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

// TableName returns the table name.
func (RunModel) TableName() string {
	return "monitor_runs"
}

package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"go-payroll/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ActionServerStarted         = "SERVER_STARTED"
	ActionServerShutdown        = "SERVER_SHUTDOWN"
	ActionPeriodCreated         = "PAYROLL_PERIOD_CREATED"
	ActionPeriodProcessed       = "PAYROLL_PERIOD_PROCESSED"
	ActionPeriodApproved        = "PAYROLL_PERIOD_APPROVED"
	ActionPeriodLocked          = "PAYROLL_PERIOD_LOCKED"
	ActionPeriodUnlocked        = "PAYROLL_PERIOD_UNLOCKED"
	ActionSettlementConfirmed   = "PAYROLL_SETTLEMENT_CONFIRMED"
	ActionPendingDetailsApprove = "PAYROLL_PROFILE_PENDING_APPROVED"
	ActionPendingDetailsReject  = "PAYROLL_PROFILE_PENDING_REJECTED"
	ActionLoanApproved          = "EMPLOYEE_LOAN_APPROVED"
)

type AuditLog struct {
	Action     string
	Message    string
	SchoolID   string
	ActorID    string
	EntityType string
	EntityID   string
	Meta       map[string]any
}

// Logger writes audit events to the log stream.
type Logger interface {
	Log(ctx context.Context, entry AuditLog)
}

type StdoutLogger struct{}

func NewStdoutLogger() *StdoutLogger {
	return &StdoutLogger{}
}

func (l *StdoutLogger) Log(ctx context.Context, entry AuditLog) {
	zap.L().Named("audit").Info("audit event",
		zap.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.String("school_id", entry.SchoolID),
		zap.String("actor_id", entry.ActorID),
		zap.String("entity_type", entry.EntityType),
		zap.String("entity_id", entry.EntityID),
		zap.Any("meta", entry.Meta),
	)
}

type PayrollAuditLog struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	SchoolID   string         `gorm:"type:uuid;not null;index"`
	ActorID    string         `gorm:"type:varchar(64)"`
	Action     string         `gorm:"type:varchar(64);not null;index"`
	EntityType string         `gorm:"type:varchar(40);not null"`
	EntityID   string         `gorm:"type:varchar(64);not null;index"`
	Message    string         `gorm:"type:text"`
	Meta       datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

//go:generate mockgen -source=audit.go -destination=mock/audit_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry AuditLog) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, entry AuditLog) error {
	meta, err := json.Marshal(entry.Meta)
	if err != nil {
		return err
	}

	row := PayrollAuditLog{
		ID:         uuid.New(),
		SchoolID:   entry.SchoolID,
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Message:    entry.Message,
		Meta:       datatypes.JSON(meta),
	}
	return dbtx.Session(ctx, r.db, r.tx).Create(&row).Error
}

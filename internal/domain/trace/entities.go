package trace

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("trace not found")
	ErrStoreDisabled = errors.New("trace store disabled")
)

// Record is one evaluation envelope kept by the audit sink. The gate never
// reads it back.
type Record struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"-"`
	TraceID    string    `gorm:"column:trace_id;type:char(32);uniqueIndex:ux_evaluation_traces_trace_id" json:"trace_id"`
	Decision   string    `gorm:"column:decision;size:8;index:idx_evaluation_traces_decision" json:"decision"`
	Bottleneck string    `gorm:"column:bottleneck;size:8" json:"bottleneck"`
	Payload    string    `gorm:"column:payload;type:text;not null" json:"payload"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Record) TableName() string { return "evaluation_traces" }

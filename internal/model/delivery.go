package model

import "time"

type DeliveryStatus string

const (
	DeliverySubmitted DeliveryStatus = "submitted"
	DeliveryLate      DeliveryStatus = "late"
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryEvaluated DeliveryStatus = "evaluated"
	DeliveryRejected  DeliveryStatus = "rejected"
)

// Delivery is a submitted set of file references against an activity. It is
// owned by a student (individual or leader-routed) or by a group once a leader
// consolidates the routed deliveries addressed to them.
// swagger:model Delivery
type Delivery struct {
	BaseModel
	Reference  string         `gorm:"size:36;uniqueIndex" json:"reference"`
	ActivityID uint           `gorm:"index;not null" json:"activityId"`
	StudentID  *uint          `gorm:"index" json:"studentId"`
	GroupID    *uint          `gorm:"index" json:"groupId"`
	Status     DeliveryStatus `gorm:"type:varchar(30);default:'submitted'" json:"status"`
	// FileURLs holds reference strings produced by the upload collaborator;
	// this service never touches the file bytes behind them.
	FileURLs     StringList `gorm:"type:json" json:"fileUrls"`
	Observations string     `gorm:"type:text" json:"observations"`
	Score        *float64   `gorm:"type:decimal(5,2)" json:"score"`
	EvaluatedBy  *uint      `json:"evaluatedBy"`
	EvaluatedAt  *time.Time `json:"evaluatedAt"`

	// Leader consolidation flow.
	RoutedToLeader bool       `gorm:"default:false;index" json:"routedToLeader"`
	ForwardedTo    *uint      `gorm:"index" json:"forwardedTo"`
	Consolidated   bool       `gorm:"default:false" json:"consolidated"`
	ConsumedAt     *time.Time `json:"consumedAt"`
}

func (Delivery) TableName() string {
	return "deliveries"
}

// swagger:model Evaluation
type Evaluation struct {
	BaseModel
	DeliveryID uint    `gorm:"index;not null" json:"deliveryId"`
	TeacherID  uint    `gorm:"index;not null" json:"teacherId"`
	Score      float64 `gorm:"type:decimal(5,2);not null" json:"score"`
	Feedback   string  `gorm:"type:text" json:"feedback"`
	Rejected   bool    `gorm:"default:false" json:"rejected"`
}

func (Evaluation) TableName() string {
	return "evaluations"
}

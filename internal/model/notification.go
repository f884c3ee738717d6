package model

type NotificationCategory string

const (
	NotifyInfo     NotificationCategory = "info"
	NotifyAlert    NotificationCategory = "alert"
	NotifyDeadline NotificationCategory = "deadline"
)

// Notification with a nil UserID is global and visible to everyone.
// swagger:model Notification
type Notification struct {
	BaseModel
	UserID   *uint                `gorm:"index" json:"userId"`
	Title    string               `gorm:"size:255;not null" json:"title"`
	Message  string               `gorm:"type:text;not null" json:"message"`
	Category NotificationCategory `gorm:"type:varchar(30);default:'info'" json:"category"`
	Read     bool                 `gorm:"default:false" json:"read"`
}

func (Notification) TableName() string {
	return "notifications"
}

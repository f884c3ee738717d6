package model

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"name"`
	Email    string   `gorm:"size:100;unique;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"type:varchar(20);default:'student'" json:"role"`
	Class    string   `gorm:"size:20;index" json:"class"`
	Active   bool     `gorm:"default:true" json:"active"`
}

func (User) TableName() string {
	return "users"
}

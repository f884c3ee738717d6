package model

type GroupStatus string

const (
	GroupActive GroupStatus = "active"
	GroupDone   GroupStatus = "done"
)

// swagger:model Group
type Group struct {
	BaseModel
	Name         string        `gorm:"size:255;not null" json:"name"`
	ActivityID   uint          `gorm:"index;not null" json:"activityId"`
	LeaderID     *uint         `gorm:"index" json:"leaderId"`
	Status       GroupStatus   `gorm:"type:varchar(30);default:'active'" json:"status"`
	Observations string        `gorm:"type:text" json:"observations"`
	Members      []GroupMember `gorm:"foreignKey:GroupID" json:"members,omitempty"`
}

func (Group) TableName() string {
	return "groups"
}

// swagger:model GroupMember
type GroupMember struct {
	BaseModel
	GroupID   uint   `gorm:"index;not null;uniqueIndex:idx_member_group_student" json:"groupId"`
	StudentID uint   `gorm:"index;not null;uniqueIndex:idx_member_group_student" json:"studentId"`
	RoleLabel string `gorm:"size:50" json:"roleLabel"`
	Active    bool   `gorm:"default:true" json:"active"`
}

func (GroupMember) TableName() string {
	return "group_members"
}

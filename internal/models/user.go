package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                           // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`              // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                              // 密码哈希（不返回给前端）
	FirstName          string         `gorm:"type:varchar(100);default:''" json:"first_name"` // 名
	LastName           string         `gorm:"type:varchar(100);default:''" json:"last_name"`  // 姓
	Photo              string         `gorm:"type:varchar(255)" json:"photo"`                 // 头像文件名
	Role               string         `gorm:"type:varchar(20);not null;default:'user';index" json:"role"` // 角色（user/admin）
	IsActive           bool           `gorm:"default:true" json:"is_active"`                  // 账号是否启用
	Locale             string         `gorm:"type:varchar(10);default:'fr'" json:"locale"`    // 语言偏好
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`                    // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                                 // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                                  // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                        // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                     // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// FullName 返回展示用的完整姓名
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

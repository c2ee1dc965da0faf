package domain

import "context"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FirstName    string `gorm:"size:64;not null" json:"first_name"`
	LastName     string `gorm:"size:64;not null" json:"last_name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         Role   `gorm:"size:16;not null;default:user" json:"role"`
	IsActive     bool   `gorm:"not null" json:"is_active"`

	// External identity columns. Kept for schema compatibility,
	// no OAuth flow reads them yet.
	VkID          *string `gorm:"size:64;uniqueIndex" json:"-"`
	YandexID      *string `gorm:"size:64;uniqueIndex" json:"-"`
	GoogleID      *string `gorm:"size:64;uniqueIndex" json:"-"`
	OAuthProvider *string `gorm:"size:16" json:"-"`
	AvatarURL     *string `gorm:"size:255" json:"avatar_url,omitempty"`

	// Single active session per user, rotated on every login/refresh.
	RefreshToken *string `gorm:"size:512" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id uint) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	All(ctx context.Context) ([]User, error)
	Update(ctx context.Context, id uint, fields map[string]any) (*User, error)
	Delete(ctx context.Context, id uint) (bool, error)
	SetRefreshToken(ctx context.Context, id uint, token *string) error
}

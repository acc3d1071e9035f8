package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

type Account struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
}

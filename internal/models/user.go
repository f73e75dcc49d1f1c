package models

import "fmt"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole converte o valor recebido do gateway; vazio vira USER
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("papel desconhecido: %q", s)
}

// User é a identidade de quem faz a chamada. Não é persistido aqui.
type User struct {
	ID   int64
	Role Role
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// APIUsage acumula o tempo gasto atendendo as chamadas de um usuário
type APIUsage struct {
	ID        int64 `json:"-"`
	OwnerID   int64 `json:"userId"`
	TotalTime int64 `json:"totalTimeMillis"`
	Timestamps
}

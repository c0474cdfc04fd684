package domain

import "time"

// User models an identity record in the credential store. PasswordHash is
// never serialized: the only components allowed to read it are the auth
// service and the repository.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"correo"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"rol"`
	Name         string    `json:"nombre,omitempty"`
	Phone        string    `json:"telefono,omitempty"`
	Active       bool      `json:"activo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

package entity

// User perfil público del usuario autenticado.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

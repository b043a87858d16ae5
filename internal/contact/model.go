package contact

import "gorm.io/gorm"

const (
	StatusNew     = "new"
	StatusRead    = "read"
	StatusReplied = "replied"
)

type ContactMessage struct {
	gorm.Model
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
	Status  string `json:"status"`
}
